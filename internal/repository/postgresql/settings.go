package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepository) Get(ctx context.Context) (settings.Partial, error) {
	q := GetQuerier(ctx, r.db)

	var (
		p    settings.Partial
		mode *string
	)
	err := q.QueryRow(ctx, `
		SELECT location_mode, office_lat, office_lng, max_distance_meters, remote_endpoint
		FROM app_settings
		WHERE id = 1
	`).Scan(&mode, &p.OfficeLat, &p.OfficeLng, &p.MaxDistanceMeters, &p.RemoteEndpoint)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Partial{}, nil
		}
		return settings.Partial{}, fmt.Errorf("failed to get settings: %w", err)
	}

	if mode != nil {
		m := checkin.LocationMode(*mode)
		p.LocationMode = &m
	}

	return p, nil
}

// Save implements settings.SettingsRepository.
func (r *settingsRepository) Save(ctx context.Context, p settings.Partial) error {
	q := GetQuerier(ctx, r.db)

	var mode *string
	if p.LocationMode != nil {
		m := string(*p.LocationMode)
		mode = &m
	}

	_, err := q.Exec(ctx, `
		INSERT INTO app_settings (id, location_mode, office_lat, office_lng, max_distance_meters, remote_endpoint, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			location_mode = EXCLUDED.location_mode,
			office_lat = EXCLUDED.office_lat,
			office_lng = EXCLUDED.office_lng,
			max_distance_meters = EXCLUDED.max_distance_meters,
			remote_endpoint = EXCLUDED.remote_endpoint,
			updated_at = NOW()
	`, mode, p.OfficeLat, p.OfficeLng, p.MaxDistanceMeters, p.RemoteEndpoint)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
