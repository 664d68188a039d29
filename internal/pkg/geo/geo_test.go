package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMeters_ZeroSentinel(t *testing.T) {
	office := Point{Lat: 13.7563, Lng: 100.5018}
	cases := []struct {
		name string
		a, b Point
	}{
		{"both origin", Point{}, Point{}},
		{"first origin", Point{}, office},
		{"second origin", office, Point{}},
		{"zero latitude", Point{Lat: 0, Lng: 100.5}, office},
		{"zero longitude", office, Point{Lat: 13.7, Lng: 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, 0.0, DistanceMeters(c.a, c.b))
		})
	}
}

func TestDistanceMeters_IdenticalPoints(t *testing.T) {
	p := Point{Lat: 18.7883, Lng: 98.9853}
	assert.Equal(t, 0.0, DistanceMeters(p, p))
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{{Lat: 13.7563, Lng: 100.5018}, {Lat: 13.7570, Lng: 100.5030}},
		{{Lat: 18.7883, Lng: 98.9853}, {Lat: 7.8804, Lng: 98.3923}},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 51.5074, Lng: -0.1278}},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceMeters(p[0], p[1]), DistanceMeters(p[1], p[0]))
	}
}

func TestDistanceMeters_KnownDistance(t *testing.T) {
	// One thousandth of a degree of latitude is roughly 111 meters.
	a := Point{Lat: 13.0000, Lng: 100.0000}
	b := Point{Lat: 13.0010, Lng: 100.0000}
	assert.InDelta(t, 111.19, DistanceMeters(a, b), 0.5)
}

type scriptedSource struct {
	results []func(ctx context.Context) (Sample, error)
	calls   int
}

func (s *scriptedSource) GetPosition(ctx context.Context) (Sample, error) {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		return Sample{}, ErrPositionUnavailable
	}
	return s.results[i](ctx)
}

func fix(acc float64) func(context.Context) (Sample, error) {
	return func(context.Context) (Sample, error) {
		return Sample{Point: Point{Lat: 13.75, Lng: 100.5}, Accuracy: acc}, nil
	}
}

func fail(err error) func(context.Context) (Sample, error) {
	return func(context.Context) (Sample, error) { return Sample{}, err }
}

func fastOptions() AcquireOptions {
	opts := DefaultAcquireOptions()
	opts.Pause = 0
	opts.AttemptTimeout = time.Second
	return opts
}

func TestBestPosition_KeepsMostAccurate(t *testing.T) {
	src := &scriptedSource{results: []func(context.Context) (Sample, error){
		fix(80), fix(45), fail(ErrPositionUnavailable), fix(60), fix(50),
	}}

	got, err := BestPosition(context.Background(), src, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, 45.0, got.Accuracy)
	assert.Equal(t, 5, src.calls)
}

func TestBestPosition_ShortCircuitsOnGoodAccuracy(t *testing.T) {
	src := &scriptedSource{results: []func(context.Context) (Sample, error){
		fix(70), fix(20), fix(5),
	}}

	got, err := BestPosition(context.Background(), src, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Accuracy)
	assert.Equal(t, 2, src.calls)
}

func TestBestPosition_NoSampleIsUnavailable(t *testing.T) {
	src := &scriptedSource{results: []func(context.Context) (Sample, error){
		fail(ErrPositionTimeout), fail(ErrPositionTimeout), fail(ErrPositionTimeout),
		fail(ErrPositionTimeout), fail(ErrPositionTimeout),
	}}

	_, err := BestPosition(context.Background(), src, fastOptions())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPositionUnavailable))
	assert.True(t, errors.Is(err, ErrPositionTimeout))
	assert.Equal(t, 5, src.calls)
}

func TestBestPosition_PermissionDeniedAborts(t *testing.T) {
	src := &scriptedSource{results: []func(context.Context) (Sample, error){
		fail(ErrPermissionDenied), fix(10),
	}}

	_, err := BestPosition(context.Background(), src, fastOptions())

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 1, src.calls)
}

func TestBestPosition_AttemptTimeout(t *testing.T) {
	blocking := func(ctx context.Context) (Sample, error) {
		<-ctx.Done()
		return Sample{}, ctx.Err()
	}
	src := &scriptedSource{results: []func(context.Context) (Sample, error){blocking, fix(30)}}
	opts := fastOptions()
	opts.AttemptTimeout = 10 * time.Millisecond

	got, err := BestPosition(context.Background(), src, opts)

	require.NoError(t, err)
	assert.Equal(t, 30.0, got.Accuracy)
}

func TestReplaySource(t *testing.T) {
	ctx := context.Background()
	src := NewReplaySource([]Sample{{Accuracy: 12}}, ErrPositionTimeout)

	s, err := src.GetPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.0, s.Accuracy)

	_, err = src.GetPosition(ctx)
	assert.ErrorIs(t, err, ErrPositionTimeout)

	empty := NewReplaySource(nil, nil)
	_, err = empty.GetPosition(ctx)
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestBestPosition_ReplayDoesNotPause(t *testing.T) {
	tests := []struct {
		name    string
		src     *ReplaySource
		wantAcc float64
		wantErr error
	}{
		{"no good fix", NewReplaySource([]Sample{{Accuracy: 35}, {Accuracy: 28}}, nil), 28, nil},
		{"device timeout", NewReplaySource(nil, ParseDeviceError("timeout")), 0, ErrPositionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			got, err := BestPosition(context.Background(), tt.src, DefaultAcquireOptions())
			elapsed := time.Since(start)

			assert.Less(t, elapsed, 200*time.Millisecond)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAcc, got.Accuracy)
		})
	}
}

func TestBestPosition_ReplayStillStopsOnGoodFix(t *testing.T) {
	src := NewReplaySource([]Sample{{Accuracy: 40}, {Accuracy: 20}, {Accuracy: 3}}, nil)

	got, err := BestPosition(context.Background(), src, DefaultAcquireOptions())

	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Accuracy)
	assert.Equal(t, 2, src.next)
}

func TestParseDeviceError(t *testing.T) {
	assert.NoError(t, ParseDeviceError(""))
	assert.ErrorIs(t, ParseDeviceError("permission_denied"), ErrPermissionDenied)
	assert.ErrorIs(t, ParseDeviceError("timeout"), ErrPositionTimeout)
	assert.ErrorIs(t, ParseDeviceError("whatever"), ErrPositionUnavailable)
}
