package database

import (
	"context"
	"fmt"
	"log/slog"
)

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		role        TEXT NOT NULL,
		birthday    TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS staff_id_lower_idx ON staff (LOWER(id))`,

	`CREATE TABLE IF NOT EXISTS checkin_records (
		id                 UUID PRIMARY KEY,
		staff_id           TEXT NOT NULL,
		name               TEXT NOT NULL,
		role               TEXT NOT NULL,
		type               TEXT NOT NULL,
		recorded_at        TIMESTAMPTZ NOT NULL,
		reason             TEXT NOT NULL DEFAULT '',
		lat                DOUBLE PRECISION NOT NULL DEFAULT 0,
		lng                DOUBLE PRECISION NOT NULL DEFAULT 0,
		distance_from_base DOUBLE PRECISION NOT NULL DEFAULT 0,
		status             TEXT NOT NULL,
		image_ref          TEXT NOT NULL,
		ai_note            TEXT NOT NULL DEFAULT '',
		synced             BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS checkin_records_recorded_at_idx ON checkin_records (recorded_at DESC)`,
	`CREATE INDEX IF NOT EXISTS checkin_records_unsynced_idx ON checkin_records (recorded_at) WHERE synced = FALSE`,

	`CREATE TABLE IF NOT EXISTS special_holidays (
		id          UUID PRIMARY KEY,
		start_date  DATE NOT NULL,
		end_date    DATE NOT NULL,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (end_date >= start_date)
	)`,

	`CREATE TABLE IF NOT EXISTS app_settings (
		id                  SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		location_mode       TEXT,
		office_lat          DOUBLE PRECISION,
		office_lng          DOUBLE PRECISION,
		max_distance_meters DOUBLE PRECISION,
		remote_endpoint     TEXT,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	slog.Info("Database schema ready", "statements", len(schema))
	return nil
}
