package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	recordsSheet = "Records"
)

var summaryHeader = []any{
	"Staff ID", "Name", "Role", "On Time", "Late", "Departure", "Early Leave",
	"Duty", "Sick Leave", "Personal Leave", "Other Leave", "Authorized Late", "Total",
}

var recordsHeader = []any{
	"Date", "Time", "Staff ID", "Name", "Role", "Type", "Status", "Reason", "Distance (m)", "AI Note", "Synced",
}

// buildWorkbook lays the monthly report out as two sheets: per-staff counts
// and every record of the period, oldest first.
func buildWorkbook(result report.MonthlyReport, records []checkin.Record, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	title := fmt.Sprintf("Check-in report %s to %s (%s)", result.PeriodStart, result.PeriodEnd, result.Source)
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]any{summaryHeader}
	for _, row := range result.Staff {
		c := row.Counts
		rows = append(rows, []any{
			row.StaffID, row.Name, row.Role, c.OnTime, c.Late, c.Departure, c.EarlyLeave,
			c.Duty, c.SickLeave, c.PersonalLeave, c.OtherLeave, c.AuthorizedLate, c.Total,
		})
	}
	if err := writeRows(f, summarySheet, 3, rows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]any{recordsHeader}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		at := r.Time(loc)
		rows = append(rows, []any{
			at.Format("2006-01-02"), at.Format("15:04:05"), r.StaffID, r.Name, r.Role,
			r.Type.Label(), r.Status, r.Reason, r.DistanceFromBase, r.AINote, r.Synced,
		})
	}
	if err := writeRows(f, recordsSheet, 1, rows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeRows writes rows starting at column A of startRow; the first row is the header.
func writeRows(f *excelize.File, sheet string, startRow int, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, startRow+i, err)
		}
	}

	if len(rows) == 0 {
		return nil
	}
	first, _ := excelize.CoordinatesToCellName(1, startRow)
	last, _ := excelize.CoordinatesToCellName(len(rows[0]), startRow)
	return f.SetCellStyle(sheet, first, last, headerStyle)
}
