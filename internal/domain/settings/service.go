package settings

import "context"

type SettingsService interface {
	// Get returns the effective settings, defaults overlaid with stored values
	Get(ctx context.Context) (AppSettings, error)

	// Public returns the subset that unauthenticated devices may read
	Public(ctx context.Context) (PublicSettingsResponse, error)

	Update(ctx context.Context, req UpdateSettingsRequest) (AppSettings, error)
}
