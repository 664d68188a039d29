package holiday

import "errors"

var (
	ErrHolidayNotFound  = errors.New("special holiday not found")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)
