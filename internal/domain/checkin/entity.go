package checkin

import (
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
)

type AttendanceType string

const (
	TypeArrival        AttendanceType = "arrival"
	TypeDeparture      AttendanceType = "departure"
	TypeDuty           AttendanceType = "duty"
	TypeSickLeave      AttendanceType = "sick_leave"
	TypePersonalLeave  AttendanceType = "personal_leave"
	TypeOtherLeave     AttendanceType = "other_leave"
	TypeAuthorizedLate AttendanceType = "authorized_late"
)

var AttendanceTypeValues = []string{
	string(TypeArrival),
	string(TypeDeparture),
	string(TypeDuty),
	string(TypeSickLeave),
	string(TypePersonalLeave),
	string(TypeOtherLeave),
	string(TypeAuthorizedLate),
}

var typeLabels = map[AttendanceType]string{
	TypeArrival:        "Arrival",
	TypeDeparture:      "Departure",
	TypeDuty:           "Duty",
	TypeSickLeave:      "Sick Leave",
	TypePersonalLeave:  "Personal Leave",
	TypeOtherLeave:     "Other Leave",
	TypeAuthorizedLate: "Authorized Late",
}

// Label returns the display name of the type, which doubles as the status for non-timed types.
func (t AttendanceType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t AttendanceType) IsValid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Status values computed for arrival and departure.
const (
	StatusOnTime     = "On Time"
	StatusLate       = "Late"
	StatusEarlyLeave = "Early Leave"
	StatusNormal     = "Normal"
)

// LocationMode selects whether check-ins are geo-fenced.
type LocationMode string

const (
	LocationModeOnline LocationMode = "online"
	LocationModeGPS    LocationMode = "gps"
)

var LocationModeValues = []string{
	string(LocationModeOnline),
	string(LocationModeGPS),
}

// Record is one persisted check-in. JSON names follow the spreadsheet endpoint's format.
type Record struct {
	ID               string         `json:"id"`
	StaffID          string         `json:"staffId"`
	Name             string         `json:"name"`
	Role             string         `json:"role"`
	Type             AttendanceType `json:"type"`
	Timestamp        int64          `json:"timestamp"` // epoch milliseconds
	Reason           string         `json:"reason,omitempty"`
	Location         geo.Point      `json:"location"`
	DistanceFromBase float64        `json:"distanceFromBase"`
	Status           string         `json:"status"`
	ImageRef         string         `json:"imageRef"`
	AINote           string         `json:"aiNote,omitempty"`
	Synced           bool           `json:"synced"`
}

// Time returns the record timestamp as a time.Time in loc.
func (r Record) Time(loc *time.Location) time.Time {
	return time.UnixMilli(r.Timestamp).In(loc)
}

// CalendarDate returns the YYYY-MM-DD date of the record in loc.
func (r Record) CalendarDate(loc *time.Location) string {
	return r.Time(loc).Format("2006-01-02")
}
