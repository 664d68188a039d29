package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"golang.org/x/sync/errgroup"
)

// RemoteFetcher reads a month of records from the remote sheet.
type RemoteFetcher interface {
	Fetch(ctx context.Context, endpoint string, year, month int, out any) error
}

type HolidayResolver interface {
	HolidayFor(ctx context.Context, date time.Time) (string, bool, error)
}

type ReportServiceImpl struct {
	checkin.CheckinRepository
	staffService    staff.StaffService
	settingsService settings.SettingsService
	holidays        HolidayResolver
	remote          RemoteFetcher
	loc             *time.Location
	now             func() time.Time
}

func NewReportService(
	repo checkin.CheckinRepository,
	staffService staff.StaffService,
	settingsService settings.SettingsService,
	holidays HolidayResolver,
	remote RemoteFetcher,
	loc *time.Location,
) report.ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		CheckinRepository: repo,
		staffService:      staffService,
		settingsService:   settingsService,
		holidays:          holidays,
		remote:            remote,
		loc:               loc,
		now:               time.Now,
	}
}

// collect loads local records in [from, to) and, when a remote endpoint is
// configured, the remote month, then merges them. A failed remote fetch
// degrades the result to local only.
func (s *ReportServiceImpl) collect(ctx context.Context, from, to time.Time) ([]checkin.Record, report.Source, error) {
	current, err := s.settingsService.Get(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load settings: %w", err)
	}

	var (
		local     []checkin.Record
		remote    []checkin.Record
		remoteErr error
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.CheckinRepository.ListBetween(gCtx, from, to, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list local records: %w", err)
		}
		local = records
		return nil
	})

	if current.RemoteEndpoint != nil {
		endpoint := *current.RemoteEndpoint
		g.Go(func() error {
			// the remote sheet is queried by month; a range never spans two
			var records []checkin.Record
			if err := s.remote.Fetch(gCtx, endpoint, from.Year(), int(from.Month()), &records); err != nil {
				remoteErr = fmt.Errorf("%w: %v", report.ErrRemoteFetchFailed, err)
				return nil
			}
			remote = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	if current.RemoteEndpoint == nil || remoteErr != nil {
		if remoteErr != nil {
			slog.Warn("Report falls back to local records", "error", remoteErr)
		}
		sortNewestFirst(local)
		return local, report.SourceLocal, nil
	}

	inRange := remote[:0]
	for _, r := range remote {
		ts := time.UnixMilli(r.Timestamp)
		if !ts.Before(from) && ts.Before(to) {
			inRange = append(inRange, r)
		}
	}

	return MergeRemoteAndLocal(inRange, local, s.loc), report.SourceMerged, nil
}

// GetDailyReport implements report.ReportService.
func (s *ReportServiceImpl) GetDailyReport(ctx context.Context, req report.DailyReportRequest) (report.DailyReport, error) {
	if err := req.Validate(); err != nil {
		return report.DailyReport{}, err
	}

	day, _ := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	records, source, err := s.collect(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return report.DailyReport{}, err
	}

	members, err := s.staffService.List(ctx)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to list staff: %w", err)
	}

	result := report.DailyReport{
		Date:        req.Date,
		Source:      source,
		GeneratedAt: s.now().In(s.loc).Format(time.RFC3339),
		Records:     records,
		Absent:      []report.AbsentStaff{},
	}

	present := make(map[string]struct{}, len(records))
	for _, r := range records {
		result.Summary.Add(r)
		present[staff.NormalizeID(r.StaffID)] = struct{}{}
	}

	for _, m := range members {
		if _, ok := present[staff.NormalizeID(m.ID)]; !ok {
			result.Absent = append(result.Absent, report.AbsentStaff{StaffID: m.ID, Name: m.Name, Role: m.Role})
		}
	}

	if name, ok, err := s.holidays.HolidayFor(ctx, day); err != nil {
		slog.Warn("Holiday lookup failed", "date", req.Date, "error", err)
	} else if ok {
		result.Holiday = &name
	}

	return result, nil
}

// GetMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) GetMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	result, _, err := s.monthly(ctx, req)
	return result, err
}

func (s *ReportServiceImpl) monthly(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, []checkin.Record, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, nil, err
	}

	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 1, 0)

	records, source, err := s.collect(ctx, start, end)
	if err != nil {
		return report.MonthlyReport{}, nil, err
	}

	members, err := s.staffService.List(ctx)
	if err != nil {
		return report.MonthlyReport{}, nil, fmt.Errorf("failed to list staff: %w", err)
	}

	holidays := make(map[string]string)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		name, ok, err := s.holidays.HolidayFor(ctx, day)
		if err != nil {
			return report.MonthlyReport{}, nil, fmt.Errorf("failed to resolve holidays: %w", err)
		}
		if ok {
			holidays[day.Format("2006-01-02")] = name
		}
	}

	rows := make(map[string]*report.MonthlyStaffRow, len(members))
	for _, m := range members {
		rows[staff.NormalizeID(m.ID)] = &report.MonthlyStaffRow{
			StaffID: m.ID,
			Name:    m.Name,
			Role:    m.Role,
			Days:    map[string][]string{},
		}
	}

	// oldest first so each day's labels read in order
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		key := staff.NormalizeID(r.StaffID)
		row, ok := rows[key]
		if !ok {
			// removed from the directory since
			row = &report.MonthlyStaffRow{StaffID: r.StaffID, Name: r.Name, Role: r.Role, Days: map[string][]string{}}
			rows[key] = row
		}
		row.Counts.Add(r)
		date := r.CalendarDate(s.loc)
		row.Days[date] = append(row.Days[date], r.Status)
	}

	result := report.MonthlyReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.AddDate(0, 0, -1).Format("2006-01-02"),
		Source:      source,
		GeneratedAt: s.now().In(s.loc).Format(time.RFC3339),
		Holidays:    holidays,
		Staff:       make([]report.MonthlyStaffRow, 0, len(rows)),
	}
	for _, row := range rows {
		result.Staff = append(result.Staff, *row)
	}
	sort.Slice(result.Staff, func(i, j int) bool {
		return staff.NormalizeID(result.Staff[i].StaffID) < staff.NormalizeID(result.Staff[j].StaffID)
	})

	return result, records, nil
}

// ExportMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyReport(ctx context.Context, req report.MonthlyReportRequest, w io.Writer) (string, error) {
	result, records, err := s.monthly(ctx, req)
	if err != nil {
		return "", err
	}

	book, err := buildWorkbook(result, records, s.loc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	defer book.Close()

	if _, err := book.WriteTo(w); err != nil {
		return "", fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	return fmt.Sprintf("checkin-report-%04d-%02d.xlsx", req.Year, req.Month), nil
}
