package staff

import "context"

// StaffRepository stores the staff directory. IDs are compared case-insensitively.
type StaffRepository interface {
	List(ctx context.Context) ([]Staff, error)
	GetByID(ctx context.Context, id string) (Staff, error)

	// Create fails with ErrStaffIDExists if the id is taken, ignoring case
	Create(ctx context.Context, s Staff) (Staff, error)

	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
