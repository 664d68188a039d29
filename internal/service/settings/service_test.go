package settings

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySettingsRepo struct {
	stored settings.Partial
}

func (m *memorySettingsRepo) Get(ctx context.Context) (settings.Partial, error) {
	return m.stored, nil
}

func (m *memorySettingsRepo) Save(ctx context.Context, p settings.Partial) error {
	m.stored = p
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestGet_DefaultsWhenNothingStored(t *testing.T) {
	svc := NewSettingsService(&memorySettingsRepo{}, settings.Defaults("https://sheet.example/exec"), time.UTC)

	got, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, checkin.LocationModeOnline, got.LocationMode)
	assert.Equal(t, geo.Point{Lat: 13.7563, Lng: 100.5018}, got.OfficeLocation)
	assert.Equal(t, 100.0, got.MaxDistanceMeters)
	require.NotNil(t, got.RemoteEndpoint)
	assert.Equal(t, "https://sheet.example/exec", *got.RemoteEndpoint)
}

func TestGet_PartialOverridesKeepOtherDefaults(t *testing.T) {
	mode := checkin.LocationModeGPS
	repo := &memorySettingsRepo{stored: settings.Partial{LocationMode: &mode}}
	svc := NewSettingsService(repo, settings.Defaults(""), time.UTC)

	got, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, checkin.LocationModeGPS, got.LocationMode)
	assert.Equal(t, 100.0, got.MaxDistanceMeters)
	assert.Nil(t, got.RemoteEndpoint)
}

func TestUpdate_MergesWithStored(t *testing.T) {
	repo := &memorySettingsRepo{}
	svc := NewSettingsService(repo, settings.Defaults(""), time.UTC)
	ctx := context.Background()

	_, err := svc.Update(ctx, settings.UpdateSettingsRequest{LocationMode: ptr("gps")})
	require.NoError(t, err)

	got, err := svc.Update(ctx, settings.UpdateSettingsRequest{
		MaxDistanceMeters: ptr(50.0),
		RemoteEndpoint:    ptr("https://sheet.example/exec"),
	})
	require.NoError(t, err)

	assert.Equal(t, checkin.LocationModeGPS, got.LocationMode)
	assert.Equal(t, 50.0, got.MaxDistanceMeters)
	require.NotNil(t, got.RemoteEndpoint)

	got, err = svc.Update(ctx, settings.UpdateSettingsRequest{RemoteEndpoint: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, got.RemoteEndpoint)
}

func TestUpdate_Validates(t *testing.T) {
	svc := NewSettingsService(&memorySettingsRepo{}, settings.Defaults(""), time.UTC)

	tests := []struct {
		name string
		req  settings.UpdateSettingsRequest
	}{
		{"mode", settings.UpdateSettingsRequest{LocationMode: ptr("bluetooth")}},
		{"lat", settings.UpdateSettingsRequest{OfficeLat: ptr(91.0)}},
		{"lng", settings.UpdateSettingsRequest{OfficeLng: ptr(-181.0)}},
		{"radius", settings.UpdateSettingsRequest{MaxDistanceMeters: ptr(0.0)}},
		{"endpoint", settings.UpdateSettingsRequest{RemoteEndpoint: ptr("ftp://sheet")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestPublic_ExposesTimezoneNotEndpoint(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	svc := NewSettingsService(&memorySettingsRepo{}, settings.Defaults("https://secret.example"), loc)

	got, err := svc.Public(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", got.Timezone)
	assert.Equal(t, checkin.LocationModeOnline, got.LocationMode)
}
