package settings

import "context"

type SettingsRepository interface {
	// Get returns the stored overrides; a missing row yields an empty Partial
	Get(ctx context.Context) (Partial, error)
	Save(ctx context.Context, p Partial) error
}
