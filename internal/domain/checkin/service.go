package checkin

import (
	"context"
)

// CheckinService defines business logic for staff check-ins
type CheckinService interface {
	// Preflight runs the reason and location gates so the client can open the camera
	Preflight(ctx context.Context, req PreflightRequest) (PreflightResponse, error)

	// CheckIn runs the full transaction and commits exactly one record on success
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// List retrieves local records with filters (admin)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Delete removes a single record (admin)
	Delete(ctx context.Context, id string) error

	// Sync drains the outbox of unsynced records now (admin)
	Sync(ctx context.Context) (SyncResponse, error)
}
