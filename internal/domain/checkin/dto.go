package checkin

import (
	"fmt"
	"unicode/utf8"

	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/capture"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN DTOs
// ========================================

// PreflightRequest runs the reason and location gates without capturing a photo.
type PreflightRequest struct {
	StaffID string         `json:"staff_id"`
	Type    AttendanceType `json:"type"`
	Reason  string         `json:"reason"`

	// Position fixes collected by the device, in collection order.
	Samples []geo.Sample `json:"samples"`
	// Device-reported geolocation failure: permission_denied, timeout, unavailable.
	PositionError string `json:"position_error"`
}

func (r *PreflightRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{
			Field:   "staff_id",
			Message: "staff_id is required",
		})
	}

	if !r.Type.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("type must be one of: %v", AttendanceTypeValues),
		})
	}

	if utf8.RuneCountInString(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	for i, s := range r.Samples {
		if s.Lat < -90 || s.Lat > 90 || s.Lng < -180 || s.Lng > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("samples[%d]", i),
				Message: "coordinates out of range",
			})
		}
		if s.Accuracy < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("samples[%d].accuracy", i),
				Message: "accuracy must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PositionSource returns a source replaying the device's fixes.
func (r *PreflightRequest) PositionSource() geo.PositionSource {
	return geo.NewReplaySource(r.Samples, geo.ParseDeviceError(r.PositionError))
}

type CheckInRequest struct {
	PreflightRequest

	Device capture.Device `json:"-"`
}

type PreflightResponse struct {
	StaffID         string   `json:"staff_id"`
	StaffName       string   `json:"staff_name"`
	Type            string   `json:"type"`
	ReasonRequired  bool     `json:"reason_required"`
	LocationChecked bool     `json:"location_checked"`
	Distance        *float64 `json:"distance,omitempty"`
	AllowedDistance *float64 `json:"allowed_distance,omitempty"`
}

type CheckInResponse struct {
	Record            Record  `json:"record"`
	Message           string  `json:"message"`
	IsBirthdayToday   bool    `json:"is_birthday_today"`
	DisplayDurationMs int64   `json:"display_duration_ms"`
	Holiday           *string `json:"holiday,omitempty"`
}

type ListFilter struct {
	Date    *string `json:"date,omitempty"` // YYYY-MM-DD
	Month   int     `json:"month,omitempty"`
	Year    int     `json:"year,omitempty"`
	StaffID *string `json:"staff_id,omitempty"`
	Type    *string `json:"type,omitempty"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Month != 0 || f.Year != 0 {
		if f.Month < 1 || f.Month > 12 {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be between 1 and 12",
			})
		}
		if f.Year < 2000 || f.Year > 2100 {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: "year must be between 2000 and 2100",
			})
		}
	}

	if f.Type != nil && !validator.IsInSlice(*f.Type, AttendanceTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("type must be one of: %v", AttendanceTypeValues),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListResponse struct {
	TotalCount int      `json:"total_count"`
	Records    []Record `json:"records"`
}

type SyncResponse struct {
	Pushed  int `json:"pushed"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}
