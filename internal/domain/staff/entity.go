package staff

import (
	"strings"
	"time"
)

// BirthdayLayout is the stored birthday format.
const BirthdayLayout = "02/01/2006"

type Staff struct {
	ID        string
	Name      string
	Role      string
	Birthday  *string // DD/MM/YYYY
	CreatedAt time.Time
}

// NormalizeID returns the case-insensitive lookup key for a staff id.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsBirthday reports whether the staff member's birthday day and month match day.
func (s Staff) IsBirthday(day time.Time) bool {
	if s.Birthday == nil {
		return false
	}
	b, err := time.Parse(BirthdayLayout, strings.TrimSpace(*s.Birthday))
	if err != nil {
		return false
	}
	return b.Day() == day.Day() && b.Month() == day.Month()
}
