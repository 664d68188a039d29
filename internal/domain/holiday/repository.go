package holiday

import "context"

type SpecialHolidayRepository interface {
	// List returns every special holiday sorted by start date
	List(ctx context.Context) ([]SpecialHoliday, error)
	Create(ctx context.Context, h SpecialHoliday) (SpecialHoliday, error)
	Delete(ctx context.Context, id string) error
}
