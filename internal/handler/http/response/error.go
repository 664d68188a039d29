package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var outOfRange *checkin.OutOfRangeError
	if errors.As(err, &outOfRange) {
		ForbiddenWithDetails(w, "OUT_OF_RANGE", err.Error(), map[string]float64{
			"distance": outOfRange.Distance,
			"allowed":  outOfRange.Allowed,
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Check-in gate errors
	case errors.Is(err, checkin.ErrReasonRequired):
		UnprocessableEntity(w, "REASON_REQUIRED", "A reason is required for this check-in")
	case errors.Is(err, checkin.ErrPermissionDenied):
		Forbidden(w, "Location permission denied")
	case errors.Is(err, checkin.ErrPositionUnavailable):
		// exhausted attempts wrap the last cause, which may itself be a timeout
		FailedDependency(w, "POSITION_UNAVAILABLE", "Position unavailable")
	case errors.Is(err, checkin.ErrPositionTimeout):
		GatewayTimeout(w, "POSITION_TIMEOUT", "Timed out acquiring position")
	case errors.Is(err, checkin.ErrCameraUnavailable):
		BadRequest(w, "Camera unavailable", nil)
	case errors.Is(err, checkin.ErrCheckinInProgress):
		Conflict(w, "Another check-in for this staff member is in progress")
	case errors.Is(err, checkin.ErrRecordNotFound):
		NotFound(w, "Check-in record not found")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrStaffIDExists):
		Conflict(w, "Staff id already exists")
	case errors.Is(err, staff.ErrInvalidBirthday):
		BadRequest(w, err.Error(), nil)

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Special holiday not found")
	case errors.Is(err, holiday.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Report domain errors
	case errors.Is(err, report.ErrRemoteFetchFailed):
		BadGateway(w, "Failed to fetch records from remote sheet")
	case errors.Is(err, report.ErrExportFailed):
		InternalServerError(w, "Failed to build report workbook")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
