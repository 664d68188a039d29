package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/capture"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/imaging"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/vision"
)

// AnalysisUnavailableNote replaces the AI note when the image check fails.
const AnalysisUnavailableNote = "ไม่สามารถตรวจสอบภาพได้"

const (
	birthdayDisplay = 10 * time.Second
	defaultDisplay  = 3 * time.Second
)

// Outbox queues committed records for the remote sheet.
type Outbox interface {
	Enqueue(id string)
	Drain(ctx context.Context) (checkin.SyncResponse, error)
}

type EventPublisher interface {
	Publish(event sse.Event)
}

type HolidayResolver interface {
	HolidayFor(ctx context.Context, date time.Time) (string, bool, error)
}

type Options struct {
	Policy          Policy
	Messages        *Messages
	Location        *time.Location
	Acquire         geo.AcquireOptions
	Imaging         imaging.Options
	AnalysisTimeout time.Duration
}

type CheckinServiceImpl struct {
	checkin.CheckinRepository
	staffService    staff.StaffService
	settingsService settings.SettingsService
	holidays        HolidayResolver
	analyzer        vision.Analyzer
	outbox          Outbox
	events          EventPublisher

	policy          Policy
	messages        *Messages
	synth           *Synthesizer
	loc             *time.Location
	acquire         geo.AcquireOptions
	imaging         imaging.Options
	analysisTimeout time.Duration

	inFlight *inFlight
	now      func() time.Time
}

func NewCheckinService(
	repo checkin.CheckinRepository,
	staffService staff.StaffService,
	settingsService settings.SettingsService,
	holidays HolidayResolver,
	analyzer vision.Analyzer,
	outbox Outbox,
	events EventPublisher,
	opts Options,
) checkin.CheckinService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := opts.AnalysisTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &CheckinServiceImpl{
		CheckinRepository: repo,
		staffService:      staffService,
		settingsService:   settingsService,
		holidays:          holidays,
		analyzer:          analyzer,
		outbox:            outbox,
		events:            events,
		policy:            opts.Policy,
		messages:          opts.Messages,
		synth:             NewSynthesizer(),
		loc:               loc,
		acquire:           opts.Acquire,
		imaging:           opts.Imaging,
		analysisTimeout:   timeout,
		inFlight:          newInFlight(),
		now:               time.Now,
	}
}

// gateResult carries what the reason and geo checks established.
type gateResult struct {
	member         staff.Staff
	geo            GeoResult
	located        bool
	settings       settings.AppSettings
	reasonRequired bool
}

// gate runs collecting-input, reason-check and geo-check.
func (s *CheckinServiceImpl) gate(ctx context.Context, f *flow, req *checkin.PreflightRequest) (gateResult, error) {
	if err := req.Validate(); err != nil {
		return gateResult{}, err
	}

	member, err := s.staffService.Resolve(ctx, req.StaffID)
	if err != nil {
		return gateResult{}, f.reject(err)
	}

	f.enter(stageReasonCheck)
	now := s.now().In(s.loc)
	required := s.policy.ReasonRequired(req.Type, now)
	if required && validator.IsEmpty(req.Reason) {
		return gateResult{}, f.reject(checkin.ErrReasonRequired)
	}

	current, err := s.settingsService.Get(ctx)
	if err != nil {
		return gateResult{}, fmt.Errorf("failed to load settings: %w", err)
	}

	result := gateResult{member: member, settings: current, reasonRequired: required}
	if !s.policy.RequiresLocation(req.Type, current.LocationMode) {
		return result, nil
	}

	f.enter(stageGeoCheck)
	sample, err := geo.BestPosition(ctx, req.PositionSource(), s.acquire)
	if err != nil {
		return gateResult{}, f.reject(err)
	}

	distance := geo.DistanceMeters(sample.Point, current.OfficeLocation)
	if distance > current.MaxDistanceMeters {
		return gateResult{}, f.reject(&checkin.OutOfRangeError{Distance: distance, Allowed: current.MaxDistanceMeters})
	}

	result.geo = GeoResult{Location: sample.Point, Distance: distance}
	result.located = true
	return result, nil
}

// Preflight implements checkin.CheckinService.
func (s *CheckinServiceImpl) Preflight(ctx context.Context, req checkin.PreflightRequest) (checkin.PreflightResponse, error) {
	f := newFlow(req.StaffID, req.Type)

	g, err := s.gate(ctx, f, &req)
	if err != nil {
		return checkin.PreflightResponse{}, err
	}

	resp := checkin.PreflightResponse{
		StaffID:         g.member.ID,
		StaffName:       g.member.Name,
		Type:            string(req.Type),
		ReasonRequired:  g.reasonRequired,
		LocationChecked: g.located,
	}
	if g.located {
		distance := g.geo.Distance
		allowed := g.settings.MaxDistanceMeters
		resp.Distance = &distance
		resp.AllowedDistance = &allowed
	}
	return resp, nil
}

// CheckIn implements checkin.CheckinService.
func (s *CheckinServiceImpl) CheckIn(ctx context.Context, req checkin.CheckInRequest) (checkin.CheckInResponse, error) {
	f := newFlow(req.StaffID, req.Type)

	release, ok := s.inFlight.tryAcquire(req.StaffID)
	if !ok {
		return checkin.CheckInResponse{}, f.reject(checkin.ErrCheckinInProgress)
	}
	defer release()

	g, err := s.gate(ctx, f, &req.PreflightRequest)
	if err != nil {
		return checkin.CheckInResponse{}, err
	}

	f.enter(stageCapturing)
	img, err := s.capture(ctx, req.Device)
	if err != nil {
		return checkin.CheckInResponse{}, f.reject(err)
	}
	capturedAt := s.now().In(s.loc)

	// Once captured, the transaction runs to completion even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	f.enter(stageVerifying)
	imageRef, aiNote := s.verify(ctx, g.member.ID, img)

	status := s.policy.Status(req.Type, capturedAt)
	record := s.synth.Synthesize(g.member, req.Type, req.Reason, g.geo, status, imageRef, aiNote)
	if err := s.CheckinRepository.Create(ctx, record); err != nil {
		return checkin.CheckInResponse{}, fmt.Errorf("failed to save check-in record: %w", err)
	}
	f.enter(stageCommitted)

	slog.Info("Check-in committed",
		"record_id", record.ID,
		"staff_id", record.StaffID,
		"type", record.Type,
		"status", record.Status,
		"distance", record.DistanceFromBase)

	s.outbox.Enqueue(record.ID)
	s.events.Publish(sse.Event{Topic: sse.TopicAdmin, Event: sse.EventCheckinCommitted, Data: summary(record)})

	today := record.Time(s.loc)
	birthday := CelebratesBirthday(req.Type) && g.member.IsBirthday(today)
	display := defaultDisplay
	if birthday {
		display = birthdayDisplay
	}

	resp := checkin.CheckInResponse{
		Record:            record,
		Message:           s.messages.For(req.Type, status, record.StaffID, record.CalendarDate(s.loc)),
		IsBirthdayToday:   birthday,
		DisplayDurationMs: display.Milliseconds(),
	}

	if name, ok, err := s.holidays.HolidayFor(ctx, today); err != nil {
		slog.Warn("Holiday lookup failed", "error", err)
	} else if ok {
		resp.Holiday = &name
	}

	return resp, nil
}

// capture acquires the device, takes one snapshot and releases the device on every path.
func (s *CheckinServiceImpl) capture(ctx context.Context, device capture.Device) (capture.Image, error) {
	if device == nil {
		return capture.Image{}, checkin.ErrCameraUnavailable
	}

	stream, err := device.Open(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrCameraUnavailable) {
			return capture.Image{}, err
		}
		return capture.Image{}, fmt.Errorf("%w: %v", checkin.ErrCameraUnavailable, err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			slog.Warn("Failed to release capture stream", "error", err)
		}
	}()

	img, err := stream.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, capture.ErrCameraUnavailable) {
			return capture.Image{}, err
		}
		return capture.Image{}, fmt.Errorf("%w: %v", checkin.ErrCameraUnavailable, err)
	}

	return img, nil
}

// verify embeds the snapshot and asks the analyzer for a note. It never fails.
func (s *CheckinServiceImpl) verify(ctx context.Context, staffID string, img capture.Image) (string, string) {
	data, contentType := img.Data, img.ContentType
	if normalized, err := imaging.Normalize(img.Data, s.imaging); err == nil {
		data, contentType = normalized, "image/jpeg"
	} else {
		slog.Warn("Keeping original snapshot", "staff_id", staffID, "error", err)
	}
	imageRef := imaging.DataURI(contentType, data)

	actx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	note, err := s.analyzer.Analyze(actx, data, contentType)
	if err != nil {
		slog.Warn("Image analysis unavailable", "staff_id", staffID, "error", fmt.Errorf("%w: %v", checkin.ErrAnalysisUnavailable, err))
		note = AnalysisUnavailableNote
	}

	return imageRef, note
}

// List implements checkin.CheckinService.
func (s *CheckinServiceImpl) List(ctx context.Context, filter checkin.ListFilter) (checkin.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return checkin.ListResponse{}, err
	}

	from, to := s.listRange(filter)
	records, err := s.CheckinRepository.ListBetween(ctx, from, to, filter.StaffID, filter.Type)
	if err != nil {
		return checkin.ListResponse{}, fmt.Errorf("failed to list check-in records: %w", err)
	}

	return checkin.ListResponse{TotalCount: len(records), Records: records}, nil
}

func (s *CheckinServiceImpl) listRange(filter checkin.ListFilter) (time.Time, time.Time) {
	if filter.Date != nil {
		day, _ := time.ParseInLocation("2006-01-02", *filter.Date, s.loc)
		return day, day.AddDate(0, 0, 1)
	}
	if filter.Month != 0 {
		start := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, s.loc)
		return start, start.AddDate(0, 1, 0)
	}
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

// Delete implements checkin.CheckinService.
func (s *CheckinServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return checkin.ErrRecordNotFound
	}
	if err := s.CheckinRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, checkin.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete check-in record: %w", err)
	}

	slog.Info("Check-in record deleted", "record_id", id)
	s.events.Publish(sse.Event{Topic: sse.TopicAdmin, Event: sse.EventCheckinDeleted, Data: map[string]string{"id": id}})
	return nil
}

// Sync implements checkin.CheckinService.
func (s *CheckinServiceImpl) Sync(ctx context.Context) (checkin.SyncResponse, error) {
	return s.outbox.Drain(ctx)
}

// summary is the event payload; it leaves out the embedded image.
func summary(r checkin.Record) map[string]any {
	return map[string]any{
		"id":        r.ID,
		"staffId":   r.StaffID,
		"name":      r.Name,
		"type":      r.Type,
		"status":    r.Status,
		"timestamp": r.Timestamp,
	}
}
