package checkin

import (
	"testing"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
)

func testMessages() *Messages {
	m := NewMessages(fixtures.Seasonal{
		Messages: map[string][]string{
			poolOnTime:    {"on-time-a", "on-time-b"},
			poolLate:      {"late-a"},
			poolDeparture: {"bye-a"},
		},
		Greetings: []fixtures.GreetingRule{
			{Date: "2026-01-01", ByStaff: map[string]string{"T001": "happy new year T001", "*": "happy new year"}},
			{Date: "2026-02-14", ByStaff: map[string]string{"t002": "only T002"}},
		},
	})
	m.pick = func(n int) int { return n - 1 }
	return m
}

func TestMessages_Pools(t *testing.T) {
	m := testMessages()

	assert.Equal(t, "on-time-b", m.For(checkin.TypeArrival, checkin.StatusOnTime, "T009", "2026-03-09"))
	assert.Equal(t, "late-a", m.For(checkin.TypeArrival, checkin.StatusLate, "T009", "2026-03-09"))
	assert.Equal(t, "bye-a", m.For(checkin.TypeDeparture, checkin.StatusNormal, "T009", "2026-03-09"))
}

func TestMessages_LeaveTypes(t *testing.T) {
	m := testMessages()

	assert.Equal(t, "บันทึกลาป่วยเรียบร้อยแล้ว", m.For(checkin.TypeSickLeave, "Sick Leave", "T009", "2026-03-09"))
	assert.Equal(t, "บันทึกไปราชการเรียบร้อยแล้ว", m.For(checkin.TypeDuty, "Duty", "T009", "2026-01-01"))
}

func TestMessages_GreetingOverride(t *testing.T) {
	m := testMessages()

	assert.Equal(t, "happy new year T001", m.For(checkin.TypeArrival, checkin.StatusLate, "t001", "2026-01-01"))
	assert.Equal(t, "happy new year", m.For(checkin.TypeArrival, checkin.StatusOnTime, "T005", "2026-01-01"))
	assert.Equal(t, "only T002", m.For(checkin.TypeArrival, checkin.StatusOnTime, "T002", "2026-02-14"))
	assert.Equal(t, "on-time-b", m.For(checkin.TypeArrival, checkin.StatusOnTime, "T003", "2026-02-14"))

	// greetings never replace departure messages
	assert.Equal(t, "bye-a", m.For(checkin.TypeDeparture, checkin.StatusNormal, "T001", "2026-01-01"))
}

func TestMessages_EmptyPoolFallback(t *testing.T) {
	m := NewMessages(fixtures.Seasonal{})

	assert.Equal(t, "ลงเวลาเรียบร้อยแล้ว", m.For(checkin.TypeArrival, checkin.StatusOnTime, "T001", "2026-03-09"))
}
