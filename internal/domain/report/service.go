package report

import (
	"context"
	"io"
)

type ReportService interface {
	GetDailyReport(ctx context.Context, req DailyReportRequest) (DailyReport, error)
	GetMonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// ExportMonthlyReport writes the monthly report as an xlsx workbook
	ExportMonthlyReport(ctx context.Context, req MonthlyReportRequest, w io.Writer) (filename string, err error)
}
