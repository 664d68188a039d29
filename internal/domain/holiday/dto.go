package holiday

import (
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
)

type CreateSpecialHolidayRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Name      string `json:"name"`

	start time.Time
	end   time.Time
}

func (r *CreateSpecialHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end := start
	if !validator.IsEmpty(r.EndDate) {
		end, ok = validator.IsValidDate(r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.start, r.end = start, end
	return nil
}

// Range returns the parsed dates. Only meaningful after Validate succeeded.
func (r *CreateSpecialHolidayRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type SpecialHolidayResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Name      string `json:"name"`
}

type HolidayResponse struct {
	Date      string  `json:"date"`
	IsHoliday bool    `json:"is_holiday"`
	Name      *string `json:"name,omitempty"`
}
