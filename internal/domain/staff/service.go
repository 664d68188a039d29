package staff

import "context"

type StaffService interface {
	// List returns every staff member with read-time role promotions applied
	List(ctx context.Context) ([]StaffResponse, error)

	// Get looks a staff member up by id, ignoring case
	Get(ctx context.Context, id string) (StaffResponse, error)

	// Add rejects ids that already exist, ignoring case
	Add(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)

	Remove(ctx context.Context, id string) error

	// SeedDefaults inserts the given staff when the directory is empty and
	// reports how many were inserted
	SeedDefaults(ctx context.Context, seeds []CreateStaffRequest) (int, error)

	// Resolve returns the domain entity with promotions applied, for other services
	Resolve(ctx context.Context, id string) (Staff, error)
}
