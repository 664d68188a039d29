package checkin

import (
	"context"
	"time"
)

// CheckinRepository is the local side of the storage/sync gateway.
type CheckinRepository interface {
	// Create persists a new record
	Create(ctx context.Context, record Record) error

	GetByID(ctx context.Context, id string) (Record, error)

	// ListBetween returns records with from <= timestamp < to, newest first
	ListBetween(ctx context.Context, from, to time.Time, staffID *string, recordType *string) ([]Record, error)

	Delete(ctx context.Context, id string) error

	// ListUnsynced returns the oldest unsynced records, up to limit
	ListUnsynced(ctx context.Context, limit int) ([]Record, error)

	// MarkSynced flips the synced flag in a single statement
	MarkSynced(ctx context.Context, id string) error

	CountUnsynced(ctx context.Context) (int, error)
}
