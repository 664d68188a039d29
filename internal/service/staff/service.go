package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/checkin-backend-go/internal/repository/postgresql"
)

type StaffServiceImpl struct {
	staff.StaffRepository
	tx         postgresql.Transactor
	promotions []Promotion
	loc        *time.Location
	now        func() time.Time
}

func NewStaffService(repo staff.StaffRepository, tx postgresql.Transactor, promotions []Promotion, loc *time.Location) staff.StaffService {
	return &StaffServiceImpl{
		StaffRepository: repo,
		tx:              tx,
		promotions:      promotions,
		loc:             loc,
		now:             time.Now,
	}
}

func (s *StaffServiceImpl) today() time.Time {
	return s.now().In(s.loc)
}

func (s *StaffServiceImpl) toResponse(member staff.Staff, today time.Time) staff.StaffResponse {
	return staff.StaffResponse{
		ID:              member.ID,
		Name:            member.Name,
		Role:            member.Role,
		Birthday:        member.Birthday,
		IsBirthdayToday: member.IsBirthday(today),
	}
}

// List implements staff.StaffService.
func (s *StaffServiceImpl) List(ctx context.Context) ([]staff.StaffResponse, error) {
	members, err := s.StaffRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	today := s.today()
	responses := make([]staff.StaffResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, s.toResponse(applyPromotions(m, s.promotions, today), today))
	}
	return responses, nil
}

// Get implements staff.StaffService.
func (s *StaffServiceImpl) Get(ctx context.Context, id string) (staff.StaffResponse, error) {
	member, err := s.Resolve(ctx, id)
	if err != nil {
		return staff.StaffResponse{}, err
	}
	return s.toResponse(member, s.today()), nil
}

// Resolve implements staff.StaffService.
func (s *StaffServiceImpl) Resolve(ctx context.Context, id string) (staff.Staff, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return staff.Staff{}, staff.ErrStaffNotFound
	}

	member, err := s.StaffRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return staff.Staff{}, err
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff: %w", err)
	}

	return applyPromotions(member, s.promotions, s.today()), nil
}

// Add implements staff.StaffService.
func (s *StaffServiceImpl) Add(ctx context.Context, req staff.CreateStaffRequest) (staff.StaffResponse, error) {
	if err := req.Validate(); err != nil {
		return staff.StaffResponse{}, err
	}

	member := newStaff(req)

	if _, err := s.StaffRepository.GetByID(ctx, member.ID); err == nil {
		return staff.StaffResponse{}, staff.ErrStaffIDExists
	} else if !errors.Is(err, staff.ErrStaffNotFound) {
		return staff.StaffResponse{}, fmt.Errorf("failed to check staff id: %w", err)
	}

	created, err := s.StaffRepository.Create(ctx, member)
	if err != nil {
		if errors.Is(err, staff.ErrStaffIDExists) {
			return staff.StaffResponse{}, err
		}
		return staff.StaffResponse{}, fmt.Errorf("failed to create staff: %w", err)
	}

	slog.Info("Staff member added", "staff_id", created.ID)

	today := s.today()
	return s.toResponse(applyPromotions(created, s.promotions, today), today), nil
}

// Remove implements staff.StaffService.
func (s *StaffServiceImpl) Remove(ctx context.Context, id string) error {
	if err := s.StaffRepository.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, staff.ErrStaffNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete staff: %w", err)
	}

	slog.Info("Staff member removed", "staff_id", id)
	return nil
}

// SeedDefaults implements staff.StaffService.
func (s *StaffServiceImpl) SeedDefaults(ctx context.Context, seeds []staff.CreateStaffRequest) (int, error) {
	inserted := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		count, err := s.StaffRepository.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count staff: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, req := range seeds {
			if err := req.Validate(); err != nil {
				return fmt.Errorf("invalid default staff %q: %w", req.ID, err)
			}
			if _, err := s.StaffRepository.Create(ctx, newStaff(req)); err != nil {
				return fmt.Errorf("failed to seed staff %q: %w", req.ID, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		slog.Info("Default staff seeded", "count", inserted)
	}
	return inserted, nil
}

func newStaff(req staff.CreateStaffRequest) staff.Staff {
	member := staff.Staff{
		ID:   strings.TrimSpace(req.ID),
		Name: strings.TrimSpace(req.Name),
		Role: strings.TrimSpace(req.Role),
	}
	if req.Birthday != nil && strings.TrimSpace(*req.Birthday) != "" {
		b := strings.TrimSpace(*req.Birthday)
		member.Birthday = &b
	}
	return member
}
