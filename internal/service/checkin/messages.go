package checkin

import (
	"fmt"
	"math/rand/v2"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/fixtures"
)

// Message pool categories.
const (
	poolOnTime    = "on_time"
	poolLate      = "late"
	poolDeparture = "departure"
)

// greetingFallback keys the greeting for staff not listed on a date.
const greetingFallback = "*"

var leaveNames = map[checkin.AttendanceType]string{
	checkin.TypeDuty:           "ไปราชการ",
	checkin.TypeSickLeave:      "ลาป่วย",
	checkin.TypePersonalLeave:  "ลากิจ",
	checkin.TypeOtherLeave:     "ลาอื่นๆ",
	checkin.TypeAuthorizedLate: "ขออนุญาตเข้าสาย",
}

// Messages picks the post-commit message shown to staff.
type Messages struct {
	pools     map[string][]string
	greetings map[string]map[string]string // YYYY-MM-DD -> staff id -> greeting
	pick      func(n int) int
}

func NewMessages(seasonal fixtures.Seasonal) *Messages {
	greetings := make(map[string]map[string]string, len(seasonal.Greetings))
	for _, g := range seasonal.Greetings {
		byStaff := make(map[string]string, len(g.ByStaff))
		for id, text := range g.ByStaff {
			if id != greetingFallback {
				id = normalizeID(id)
			}
			byStaff[id] = text
		}
		greetings[g.Date] = byStaff
	}

	return &Messages{
		pools:     seasonal.Messages,
		greetings: greetings,
		pick:      rand.IntN,
	}
}

// For returns the message for a committed record. date is YYYY-MM-DD in the school timezone.
func (m *Messages) For(t checkin.AttendanceType, status, staffID, date string) string {
	if t == checkin.TypeArrival {
		if greeting, ok := m.greeting(date, staffID); ok {
			return greeting
		}
	}

	switch t {
	case checkin.TypeArrival:
		if status == checkin.StatusLate {
			return m.fromPool(poolLate, "ลงเวลาเรียบร้อยแล้ว")
		}
		return m.fromPool(poolOnTime, "ลงเวลาเรียบร้อยแล้ว")
	case checkin.TypeDeparture:
		return m.fromPool(poolDeparture, "ลงเวลากลับเรียบร้อยแล้ว")
	default:
		name, ok := leaveNames[t]
		if !ok {
			name = t.Label()
		}
		return fmt.Sprintf("บันทึก%sเรียบร้อยแล้ว", name)
	}
}

func (m *Messages) greeting(date, staffID string) (string, bool) {
	byStaff, ok := m.greetings[date]
	if !ok {
		return "", false
	}
	if text, ok := byStaff[normalizeID(staffID)]; ok {
		return text, true
	}
	text, ok := byStaff[greetingFallback]
	return text, ok
}

func (m *Messages) fromPool(name, fallback string) string {
	pool := m.pools[name]
	if len(pool) == 0 {
		return fallback
	}
	return pool[m.pick(len(pool))]
}
