package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/checkin-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// HolidayServiceImpl resolves a calendar date against, in order, admin
// special holidays, the fixed MM-DD table and the per-year dynamic table.
type HolidayServiceImpl struct {
	holiday.SpecialHolidayRepository
	tables fixtures.HolidayTables
	newID  func() string
}

func NewHolidayService(repo holiday.SpecialHolidayRepository, tables fixtures.HolidayTables) holiday.HolidayService {
	return &HolidayServiceImpl{
		SpecialHolidayRepository: repo,
		tables:                   tables,
		newID:                    uuid.NewString,
	}
}

// HolidayFor implements holiday.HolidayService.
func (s *HolidayServiceImpl) HolidayFor(ctx context.Context, date time.Time) (string, bool, error) {
	key := date.Format(holiday.DateLayout)

	specials, err := s.SpecialHolidayRepository.List(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to list special holidays: %w", err)
	}
	for _, h := range specials {
		for _, day := range h.Days() {
			if day.Date == key {
				return day.Name, true, nil
			}
		}
	}

	monthDay := date.Format("01-02")
	if name, ok := s.tables.Fixed[monthDay]; ok {
		return name, true, nil
	}

	if byDay, ok := s.tables.Dynamic[date.Year()]; ok {
		if name, ok := byDay[monthDay]; ok {
			return name, true, nil
		}
	}

	return "", false, nil
}

// Lookup implements holiday.HolidayService.
func (s *HolidayServiceImpl) Lookup(ctx context.Context, date string) (holiday.HolidayResponse, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return holiday.HolidayResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	name, found, err := s.HolidayFor(ctx, day)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	resp := holiday.HolidayResponse{Date: date, IsHoliday: found}
	if found {
		resp.Name = &name
	}
	return resp, nil
}

// ListSpecial implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListSpecial(ctx context.Context) ([]holiday.SpecialHolidayResponse, error) {
	specials, err := s.SpecialHolidayRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list special holidays: %w", err)
	}

	responses := make([]holiday.SpecialHolidayResponse, 0, len(specials))
	for _, h := range specials {
		responses = append(responses, toResponse(h))
	}
	return responses, nil
}

// AddSpecial implements holiday.HolidayService.
func (s *HolidayServiceImpl) AddSpecial(ctx context.Context, req holiday.CreateSpecialHolidayRequest) (holiday.SpecialHolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.SpecialHolidayResponse{}, err
	}

	start, end := req.Range()
	created, err := s.SpecialHolidayRepository.Create(ctx, holiday.SpecialHoliday{
		ID:        s.newID(),
		StartDate: start,
		EndDate:   end,
		Name:      strings.TrimSpace(req.Name),
	})
	if err != nil {
		return holiday.SpecialHolidayResponse{}, fmt.Errorf("failed to create special holiday: %w", err)
	}

	slog.Info("Special holiday added", "id", created.ID, "start", req.StartDate, "name", created.Name)
	return toResponse(created), nil
}

// RemoveSpecial implements holiday.HolidayService.
func (s *HolidayServiceImpl) RemoveSpecial(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	if err := s.SpecialHolidayRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete special holiday: %w", err)
	}
	return nil
}

func toResponse(h holiday.SpecialHoliday) holiday.SpecialHolidayResponse {
	return holiday.SpecialHolidayResponse{
		ID:        h.ID,
		StartDate: h.StartDate.Format(holiday.DateLayout),
		EndDate:   h.EndDate.Format(holiday.DateLayout),
		Name:      h.Name,
	}
}
