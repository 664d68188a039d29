package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type localRepo struct {
	checkin.CheckinRepository
	records []checkin.Record
}

func (l *localRepo) ListBetween(ctx context.Context, from, to time.Time, staffID *string, recordType *string) ([]checkin.Record, error) {
	var out []checkin.Record
	for _, r := range l.records {
		ts := time.UnixMilli(r.Timestamp)
		if !ts.Before(from) && ts.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type directory struct {
	staff.StaffService
	members []staff.StaffResponse
}

func (d *directory) List(ctx context.Context) ([]staff.StaffResponse, error) {
	return d.members, nil
}

type endpointSettings struct {
	settings.SettingsService
	endpoint *string
}

func (e endpointSettings) Get(ctx context.Context) (settings.AppSettings, error) {
	return settings.AppSettings{RemoteEndpoint: e.endpoint}, nil
}

type noHolidays struct{ on string }

func (n noHolidays) HolidayFor(ctx context.Context, date time.Time) (string, bool, error) {
	if date.Format("2006-01-02") == n.on {
		return "วันจักรี", true, nil
	}
	return "", false, nil
}

type fakeRemote struct {
	records []checkin.Record
	err     error
	calls   int
}

func (f *fakeRemote) Fetch(ctx context.Context, endpoint string, year, month int, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(f.records)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func day(d, hour, min int) time.Time {
	return time.Date(2026, time.April, d, hour, min, 0, 0, ict)
}

func fixture() (*localRepo, *directory) {
	repo := &localRepo{records: []checkin.Record{
		{ID: "l1", StaffID: "T001", Name: "A", Role: "ครู", Type: checkin.TypeArrival, Status: checkin.StatusOnTime, Timestamp: day(6, 7, 30).UnixMilli(), ImageRef: "small"},
		{ID: "l2", StaffID: "T001", Name: "A", Role: "ครู", Type: checkin.TypeDeparture, Status: checkin.StatusNormal, Timestamp: day(6, 16, 30).UnixMilli()},
		{ID: "l3", StaffID: "T002", Name: "B", Role: "ครู", Type: checkin.TypeArrival, Status: checkin.StatusLate, Timestamp: day(7, 8, 15).UnixMilli()},
	}}
	dir := &directory{members: []staff.StaffResponse{
		{ID: "T001", Name: "A", Role: "ครู"},
		{ID: "T002", Name: "B", Role: "ครู"},
		{ID: "T003", Name: "C", Role: "ผู้อำนวยการ"},
	}}
	return repo, dir
}

func newService(repo *localRepo, dir *directory, endpoint *string, remote *fakeRemote) *ReportServiceImpl {
	svc := NewReportService(repo, dir, endpointSettings{endpoint: endpoint}, noHolidays{on: "2026-04-06"}, remote, ict).(*ReportServiceImpl)
	svc.now = func() time.Time { return day(30, 12, 0) }
	return svc
}

func TestDailyReport_LocalOnly(t *testing.T) {
	repo, dir := fixture()
	remote := &fakeRemote{}
	svc := newService(repo, dir, nil, remote)

	got, err := svc.GetDailyReport(context.Background(), report.DailyReportRequest{Date: "2026-04-06"})
	require.NoError(t, err)

	assert.Equal(t, report.SourceLocal, got.Source)
	assert.Zero(t, remote.calls)
	assert.Equal(t, 2, got.Summary.Total)
	assert.Equal(t, 1, got.Summary.OnTime)
	assert.Equal(t, 1, got.Summary.Departure)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "l2", got.Records[0].ID)
	require.Len(t, got.Absent, 2)
	assert.Equal(t, "T002", got.Absent[0].StaffID)
	require.NotNil(t, got.Holiday)
	assert.Equal(t, "วันจักรี", *got.Holiday)
}

func TestDailyReport_MergedWithRemote(t *testing.T) {
	repo, dir := fixture()
	endpoint := "https://script.example.com/exec"
	remote := &fakeRemote{records: []checkin.Record{
		{ID: "r1", StaffID: "T001", Type: checkin.TypeArrival, Status: checkin.StatusOnTime, Timestamp: day(6, 7, 30).UnixMilli(), ImageRef: "a-larger-image"},
		{ID: "r2", StaffID: "T003", Type: checkin.TypeDuty, Status: "Duty", Timestamp: day(6, 9, 0).UnixMilli()},
		{ID: "r3", StaffID: "T003", Type: checkin.TypeDuty, Status: "Duty", Timestamp: day(9, 9, 0).UnixMilli()},
	}}
	svc := newService(repo, dir, &endpoint, remote)

	got, err := svc.GetDailyReport(context.Background(), report.DailyReportRequest{Date: "2026-04-06"})
	require.NoError(t, err)

	assert.Equal(t, report.SourceMerged, got.Source)
	ids := []string{}
	for _, r := range got.Records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"l2", "r2", "r1"}, ids)
	assert.Equal(t, 1, got.Summary.Duty)
	require.Len(t, got.Absent, 1)
	assert.Equal(t, "T002", got.Absent[0].StaffID)
}

func TestDailyReport_RemoteFailureFallsBackToLocal(t *testing.T) {
	repo, dir := fixture()
	endpoint := "https://script.example.com/exec"
	svc := newService(repo, dir, &endpoint, &fakeRemote{err: errors.New("timeout")})

	got, err := svc.GetDailyReport(context.Background(), report.DailyReportRequest{Date: "2026-04-06"})
	require.NoError(t, err)
	assert.Equal(t, report.SourceLocal, got.Source)
	assert.Len(t, got.Records, 2)
}

func TestDailyReport_InvalidDate(t *testing.T) {
	repo, dir := fixture()
	svc := newService(repo, dir, nil, &fakeRemote{})

	_, err := svc.GetDailyReport(context.Background(), report.DailyReportRequest{Date: "06/04/2026"})
	assert.Error(t, err)
}

func TestMonthlyReport(t *testing.T) {
	repo, dir := fixture()
	repo.records = append(repo.records, checkin.Record{
		ID: "l4", StaffID: "T009", Name: "Former", Role: "ครู", Type: checkin.TypeSickLeave, Status: "Sick Leave", Timestamp: day(8, 7, 0).UnixMilli(),
	})
	svc := newService(repo, dir, nil, &fakeRemote{})

	got, err := svc.GetMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: 4, Year: 2026})
	require.NoError(t, err)

	assert.Equal(t, "2026-04-01", got.PeriodStart)
	assert.Equal(t, "2026-04-30", got.PeriodEnd)
	assert.Equal(t, map[string]string{"2026-04-06": "วันจักรี"}, got.Holidays)

	require.Len(t, got.Staff, 4)
	assert.Equal(t, []string{"T001", "T002", "T003", "T009"},
		[]string{got.Staff[0].StaffID, got.Staff[1].StaffID, got.Staff[2].StaffID, got.Staff[3].StaffID})

	t001 := got.Staff[0]
	assert.Equal(t, 2, t001.Counts.Total)
	assert.Equal(t, []string{checkin.StatusOnTime, checkin.StatusNormal}, t001.Days["2026-04-06"])
	assert.Equal(t, 1, got.Staff[1].Counts.Late)
	assert.Zero(t, got.Staff[2].Counts.Total)
	assert.Equal(t, 1, got.Staff[3].Counts.SickLeave)
}

func TestExportMonthlyReport(t *testing.T) {
	repo, dir := fixture()
	svc := newService(repo, dir, nil, &fakeRemote{})

	var buf bytes.Buffer
	filename, err := svc.ExportMonthlyReport(context.Background(), report.MonthlyReportRequest{Month: 4, Year: 2026}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "checkin-report-2026-04.xlsx", filename)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{summarySheet, recordsSheet}, book.GetSheetList())

	header, err := book.GetCellValue(summarySheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Staff ID", header)

	staffID, err := book.GetCellValue(summarySheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "T001", staffID)

	rows, err := book.GetRows(recordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "2026-04-06", rows[1][0])
	assert.Equal(t, "07:30:00", rows[1][1])
	assert.Equal(t, "Arrival", rows[1][5])
}
