package report

import (
	"fmt"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
)

// Source tells whether a report includes the remote sheet.
type Source string

const (
	SourceLocal  Source = "local"
	SourceMerged Source = "merged"
)

// ========================================
// DAILY REPORT
// ========================================

type DailyReportRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (r *DailyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyReport struct {
	Date        string           `json:"date"`
	Holiday     *string          `json:"holiday,omitempty"`
	Source      Source           `json:"source"`
	GeneratedAt string           `json:"generated_at"`
	Summary     TypeCounts       `json:"summary"`
	Records     []checkin.Record `json:"records"`
	// Staff without any record on the day
	Absent []AbsentStaff `json:"absent"`
}

type AbsentStaff struct {
	StaffID string `json:"staff_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
}

// ========================================
// MONTHLY REPORT
// ========================================

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between %d and %d", 2000, 2100),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Source      Source `json:"source"`
	GeneratedAt string `json:"generated_at"`

	// Holidays falling inside the period, keyed by YYYY-MM-DD
	Holidays map[string]string `json:"holidays"`
	Staff    []MonthlyStaffRow `json:"staff"`
}

type MonthlyStaffRow struct {
	StaffID string     `json:"staff_id"`
	Name    string     `json:"name"`
	Role    string     `json:"role"`
	Counts  TypeCounts `json:"counts"`
	// Per-day status labels, keyed by YYYY-MM-DD
	Days map[string][]string `json:"days"`
}

// TypeCounts tallies records by outcome.
type TypeCounts struct {
	Total          int `json:"total"`
	OnTime         int `json:"on_time"`
	Late           int `json:"late"`
	Departure      int `json:"departure"`
	EarlyLeave     int `json:"early_leave"`
	Duty           int `json:"duty"`
	SickLeave      int `json:"sick_leave"`
	PersonalLeave  int `json:"personal_leave"`
	OtherLeave     int `json:"other_leave"`
	AuthorizedLate int `json:"authorized_late"`
}

// Add counts one record.
func (c *TypeCounts) Add(r checkin.Record) {
	c.Total++
	switch r.Type {
	case checkin.TypeArrival:
		if r.Status == checkin.StatusLate {
			c.Late++
		} else {
			c.OnTime++
		}
	case checkin.TypeDeparture:
		c.Departure++
		if r.Status == checkin.StatusEarlyLeave {
			c.EarlyLeave++
		}
	case checkin.TypeDuty:
		c.Duty++
	case checkin.TypeSickLeave:
		c.SickLeave++
	case checkin.TypePersonalLeave:
		c.PersonalLeave++
	case checkin.TypeOtherLeave:
		c.OtherLeave++
	case checkin.TypeAuthorizedLate:
		c.AuthorizedLate++
	}
}
