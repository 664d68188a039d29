package holiday

import "time"

const DateLayout = "2006-01-02"

// SpecialHoliday is an admin-defined, non-recurring holiday range (inclusive).
type SpecialHoliday struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	Name      string
	CreatedAt time.Time
}

// DayEntry is one calendar day of an expanded special holiday.
type DayEntry struct {
	Date      string // YYYY-MM-DD
	Name      string
	HolidayID string
}

// Days expands the range to one entry per calendar day.
func (h SpecialHoliday) Days() []DayEntry {
	start := civil(h.StartDate)
	end := civil(h.EndDate)
	if end.Before(start) {
		return nil
	}

	var days []DayEntry
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, DayEntry{
			Date:      d.Format(DateLayout),
			Name:      h.Name,
			HolidayID: h.ID,
		})
	}
	return days
}

// civil drops the clock and zone, keeping the calendar date.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
