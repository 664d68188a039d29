package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_EmptyThenSaved(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewSettingsRepository(setup.DB)
	ctx := context.Background()

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Partial{}, p)

	mode := checkin.LocationModeGPS
	radius := 50.0
	require.NoError(t, repo.Save(ctx, settings.Partial{LocationMode: &mode, MaxDistanceMeters: &radius}))

	p, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.LocationMode)
	assert.Equal(t, checkin.LocationModeGPS, *p.LocationMode)
	require.NotNil(t, p.MaxDistanceMeters)
	assert.Equal(t, 50.0, *p.MaxDistanceMeters)
	assert.Nil(t, p.OfficeLat)
}
