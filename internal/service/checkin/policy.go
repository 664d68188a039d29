package checkin

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
)

// clock is a wall-clock time of day, in seconds since midnight.
type clock int

func parseClock(s string) (clock, error) {
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return clock(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

func clockOf(t time.Time) clock {
	return clock(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Policy decides reason requirements, geo-fencing and status for a check-in.
// Times passed in must already be in the school's timezone.
type Policy struct {
	lateFrom      clock // arrivals at or after are late
	departureOkAt clock // departures before are early
}

// NewPolicy parses HH:MM:SS thresholds, e.g. "08:01:00" and "16:00:00".
func NewPolicy(arrivalLateAt, departureOkAt string) (Policy, error) {
	late, err := parseClock(arrivalLateAt)
	if err != nil {
		return Policy{}, err
	}
	ok, err := parseClock(departureOkAt)
	if err != nil {
		return Policy{}, err
	}
	return Policy{lateFrom: late, departureOkAt: ok}, nil
}

// ReasonRequired reports whether a free-text reason is mandatory.
func (p Policy) ReasonRequired(t checkin.AttendanceType, now time.Time) bool {
	switch t {
	case checkin.TypeArrival:
		return clockOf(now) >= p.lateFrom
	case checkin.TypeDeparture:
		return clockOf(now) < p.departureOkAt
	default:
		return true
	}
}

// RequiresLocation reports whether the geo-check applies.
func (p Policy) RequiresLocation(t checkin.AttendanceType, mode checkin.LocationMode) bool {
	if mode != checkin.LocationModeGPS {
		return false
	}
	switch t {
	case checkin.TypeArrival, checkin.TypeDeparture, checkin.TypeAuthorizedLate:
		return true
	}
	return false
}

// Status labels the check-in at capture time.
func (p Policy) Status(t checkin.AttendanceType, at time.Time) string {
	switch t {
	case checkin.TypeArrival:
		if clockOf(at) >= p.lateFrom {
			return checkin.StatusLate
		}
		return checkin.StatusOnTime
	case checkin.TypeDeparture:
		if clockOf(at) < p.departureOkAt {
			return checkin.StatusEarlyLeave
		}
		return checkin.StatusNormal
	default:
		return t.Label()
	}
}

// CelebratesBirthday reports whether a birthday flag is shown for the type.
func CelebratesBirthday(t checkin.AttendanceType) bool {
	switch t {
	case checkin.TypeArrival, checkin.TypeDuty, checkin.TypeAuthorizedLate:
		return true
	}
	return false
}
