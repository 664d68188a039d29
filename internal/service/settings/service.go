package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
	defaults settings.AppSettings
	loc      *time.Location

	// serializes read-modify-write in Update
	mu sync.Mutex
}

func NewSettingsService(repo settings.SettingsRepository, defaults settings.AppSettings, loc *time.Location) settings.SettingsService {
	return &SettingsServiceImpl{
		SettingsRepository: repo,
		defaults:           defaults,
		loc:                loc,
	}
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.AppSettings, error) {
	stored, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return stored.Apply(s.defaults), nil
}

// Public implements settings.SettingsService.
func (s *SettingsServiceImpl) Public(ctx context.Context) (settings.PublicSettingsResponse, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return settings.PublicSettingsResponse{}, err
	}
	return settings.PublicSettingsResponse{
		LocationMode:      current.LocationMode,
		OfficeLocation:    current.OfficeLocation,
		MaxDistanceMeters: current.MaxDistanceMeters,
		Timezone:          s.loc.String(),
	}, nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.AppSettings, error) {
	if err := req.Validate(); err != nil {
		return settings.AppSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.AppSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	merged := stored.Merge(req.ToPartial())
	if err := s.SettingsRepository.Save(ctx, merged); err != nil {
		return settings.AppSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	current := merged.Apply(s.defaults)
	slog.Info("Settings updated",
		"location_mode", current.LocationMode,
		"max_distance_meters", current.MaxDistanceMeters,
		"remote_endpoint_set", current.RemoteEndpoint != nil)

	return current, nil
}
