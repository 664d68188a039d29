package staff

import (
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
)

type CreateStaffRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Birthday *string `json:"birthday,omitempty"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	} else if !validator.IsValidStaffID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id may only contain letters, numbers, dots, underscores, and hyphens (max 50)",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	}

	if r.Birthday != nil && !validator.IsEmpty(*r.Birthday) {
		if _, err := time.Parse(BirthdayLayout, *r.Birthday); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "birthday",
				Message: ErrInvalidBirthday.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StaffResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	Birthday        *string `json:"birthday,omitempty"`
	IsBirthdayToday bool    `json:"is_birthday_today"`
}
