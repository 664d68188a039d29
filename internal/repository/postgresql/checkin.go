package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type checkinRepository struct {
	db *database.DB
}

func NewCheckinRepository(db *database.DB) checkin.CheckinRepository {
	return &checkinRepository{db: db}
}

const checkinColumns = `
	id, staff_id, name, role, type, recorded_at, reason,
	lat, lng, distance_from_base, status, image_ref, ai_note, synced
`

func scanRecord(row pgx.Row) (checkin.Record, error) {
	var (
		rec        checkin.Record
		recordedAt time.Time
	)
	err := row.Scan(
		&rec.ID, &rec.StaffID, &rec.Name, &rec.Role, &rec.Type, &recordedAt, &rec.Reason,
		&rec.Location.Lat, &rec.Location.Lng, &rec.DistanceFromBase, &rec.Status, &rec.ImageRef, &rec.AINote, &rec.Synced,
	)
	if err != nil {
		return checkin.Record{}, err
	}
	rec.Timestamp = recordedAt.UnixMilli()
	return rec, nil
}

// Create implements checkin.CheckinRepository.
func (r *checkinRepository) Create(ctx context.Context, rec checkin.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO checkin_records (` + checkinColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := q.Exec(ctx, query,
		rec.ID,
		rec.StaffID,
		rec.Name,
		rec.Role,
		rec.Type,
		time.UnixMilli(rec.Timestamp).UTC(),
		rec.Reason,
		rec.Location.Lat,
		rec.Location.Lng,
		rec.DistanceFromBase,
		rec.Status,
		rec.ImageRef,
		rec.AINote,
		rec.Synced,
	)
	if err != nil {
		return fmt.Errorf("failed to create check-in record: %w", err)
	}

	return nil
}

// GetByID implements checkin.CheckinRepository.
func (r *checkinRepository) GetByID(ctx context.Context, id string) (checkin.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecord(q.QueryRow(ctx, `SELECT `+checkinColumns+` FROM checkin_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return checkin.Record{}, checkin.ErrRecordNotFound
		}
		return checkin.Record{}, fmt.Errorf("failed to get check-in record: %w", err)
	}

	return rec, nil
}

// ListBetween implements checkin.CheckinRepository.
func (r *checkinRepository) ListBetween(ctx context.Context, from, to time.Time, staffID *string, recordType *string) ([]checkin.Record, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where = []string{"recorded_at >= $1", "recorded_at < $2"}
		args  = []interface{}{from, to}
	)
	if staffID != nil {
		args = append(args, *staffID)
		where = append(where, fmt.Sprintf("LOWER(staff_id) = LOWER($%d)", len(args)))
	}
	if recordType != nil {
		args = append(args, *recordType)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT ` + checkinColumns + ` FROM checkin_records WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY recorded_at DESC`

	return r.queryRecords(ctx, q, query, args...)
}

// Delete implements checkin.CheckinRepository.
func (r *checkinRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM checkin_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkin.ErrRecordNotFound
	}

	return nil
}

// ListUnsynced implements checkin.CheckinRepository.
func (r *checkinRepository) ListUnsynced(ctx context.Context, limit int) ([]checkin.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + checkinColumns + ` FROM checkin_records
		WHERE synced = FALSE
		ORDER BY recorded_at ASC
		LIMIT $1`

	return r.queryRecords(ctx, q, query, limit)
}

// MarkSynced implements checkin.CheckinRepository.
func (r *checkinRepository) MarkSynced(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE checkin_records SET synced = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark check-in record synced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return checkin.ErrRecordNotFound
	}

	return nil
}

// CountUnsynced implements checkin.CheckinRepository.
func (r *checkinRepository) CountUnsynced(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM checkin_records WHERE synced = FALSE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unsynced records: %w", err)
	}
	return n, nil
}

func (r *checkinRepository) queryRecords(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]checkin.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-in records: %w", err)
	}
	defer rows.Close()

	records := make([]checkin.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-in records: %w", err)
	}

	return records, nil
}
