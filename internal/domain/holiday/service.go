package holiday

import (
	"context"
	"time"
)

type HolidayService interface {
	// HolidayFor resolves the holiday name of a calendar date, if any
	HolidayFor(ctx context.Context, date time.Time) (name string, ok bool, err error)

	// Lookup wraps HolidayFor for the HTTP layer
	Lookup(ctx context.Context, date string) (HolidayResponse, error)

	ListSpecial(ctx context.Context) ([]SpecialHolidayResponse, error)
	AddSpecial(ctx context.Context, req CreateSpecialHolidayRequest) (SpecialHolidayResponse, error)
	RemoveSpecial(ctx context.Context, id string) error
}
