package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/database"
)

type specialHolidayRepository struct {
	db *database.DB
}

func NewSpecialHolidayRepository(db *database.DB) holiday.SpecialHolidayRepository {
	return &specialHolidayRepository{db: db}
}

// List implements holiday.SpecialHolidayRepository.
func (r *specialHolidayRepository) List(ctx context.Context) ([]holiday.SpecialHoliday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, start_date, end_date, name, created_at
		FROM special_holidays
		ORDER BY start_date ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list special holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]holiday.SpecialHoliday, 0)
	for rows.Next() {
		var h holiday.SpecialHoliday
		if err := rows.Scan(&h.ID, &h.StartDate, &h.EndDate, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan special holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate special holidays: %w", err)
	}

	return holidays, nil
}

// Create implements holiday.SpecialHolidayRepository.
func (r *specialHolidayRepository) Create(ctx context.Context, h holiday.SpecialHoliday) (holiday.SpecialHoliday, error) {
	q := GetQuerier(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO special_holidays (id, start_date, end_date, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, h.ID, h.StartDate, h.EndDate, h.Name).Scan(&h.CreatedAt)
	if err != nil {
		return holiday.SpecialHoliday{}, fmt.Errorf("failed to create special holiday: %w", err)
	}

	return h, nil
}

// Delete implements holiday.SpecialHolidayRepository.
func (r *specialHolidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM special_holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete special holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}

	return nil
}
