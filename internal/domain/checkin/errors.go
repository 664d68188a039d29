package checkin

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/capture"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
)

// Check-in domain errors
var (
	// Blocking: the transaction stops before commit.
	ErrReasonRequired      = errors.New("a reason is required for this check-in")
	ErrPositionUnavailable = geo.ErrPositionUnavailable
	ErrPermissionDenied    = geo.ErrPermissionDenied
	ErrPositionTimeout     = geo.ErrPositionTimeout
	ErrCameraUnavailable   = capture.ErrCameraUnavailable

	// Non-blocking: the transaction degrades and continues.
	ErrAnalysisUnavailable = errors.New("image analysis unavailable")
	ErrRemotePushFailed    = errors.New("remote push failed")

	// General errors
	ErrRecordNotFound    = errors.New("check-in record not found")
	ErrCheckinInProgress = errors.New("another check-in for this staff member is in progress")
)

// OutOfRangeError reports a geo-check rejection with the measured and allowed distances.
type OutOfRangeError struct {
	Distance float64
	Allowed  float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("outside the allowed radius: %.0f m from office, %.0f m allowed", e.Distance, e.Allowed)
}
