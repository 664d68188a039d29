package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrPositionTimeout     = errors.New("position request timed out")
)

// Sample is a single position fix with its reported accuracy radius in meters.
type Sample struct {
	Point
	Accuracy float64 `json:"accuracy"`
}

// PositionSource produces position fixes. Implementations must honour ctx's deadline.
type PositionSource interface {
	GetPosition(ctx context.Context) (Sample, error)
}

// liveSource is implemented by sources that can report whether they sample a live
// receiver. Sources that are not live are read back to back.
type liveSource interface {
	Live() bool
}

func pauseFor(src PositionSource, pause time.Duration) time.Duration {
	if ls, ok := src.(liveSource); ok && !ls.Live() {
		return 0
	}
	return pause
}

// AcquireOptions controls BestPosition.
type AcquireOptions struct {
	Attempts       int
	GoodAccuracy   float64
	Pause          time.Duration
	AttemptTimeout time.Duration
}

// DefaultAcquireOptions: 5 attempts, stop at <=20m accuracy, 800ms apart, 8s each.
func DefaultAcquireOptions() AcquireOptions {
	return AcquireOptions{
		Attempts:       5,
		GoodAccuracy:   20,
		Pause:          800 * time.Millisecond,
		AttemptTimeout: 8 * time.Second,
	}
}

// BestPosition samples src up to opts.Attempts times and returns the most accurate fix.
// A permission failure aborts immediately. If no fix was ever obtained the error wraps
// ErrPositionUnavailable together with the last source error.
func BestPosition(ctx context.Context, src PositionSource, opts AcquireOptions) (Sample, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}

	pause := pauseFor(src, opts.Pause)

	var (
		best    Sample
		hasBest bool
		lastErr error
	)

	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		if attempt > 1 && pause > 0 {
			timer := time.NewTimer(pause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Sample{}, ctx.Err()
			case <-timer.C:
			}
		}

		sample, err := getWithTimeout(ctx, src, opts.AttemptTimeout)
		if err != nil {
			if errors.Is(err, ErrPermissionDenied) {
				return Sample{}, err
			}
			if ctx.Err() != nil {
				return Sample{}, ctx.Err()
			}
			slog.Debug("Position attempt failed", "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		if !hasBest || sample.Accuracy < best.Accuracy {
			best = sample
			hasBest = true
		}
		if best.Accuracy <= opts.GoodAccuracy {
			break
		}
	}

	if !hasBest {
		if lastErr == nil {
			return Sample{}, ErrPositionUnavailable
		}
		return Sample{}, fmt.Errorf("%w: %w", ErrPositionUnavailable, lastErr)
	}

	return best, nil
}

func getWithTimeout(ctx context.Context, src PositionSource, timeout time.Duration) (Sample, error) {
	if timeout <= 0 {
		return src.GetPosition(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sample, err := src.GetPosition(attemptCtx)
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return Sample{}, fmt.Errorf("%w: %w", ErrPositionTimeout, err)
	}
	return sample, err
}

// ReplaySource replays fixes collected by a client device, one per call.
// Once exhausted it returns the device's reported failure, or ErrPositionUnavailable.
type ReplaySource struct {
	mu      sync.Mutex
	samples []Sample
	failure error
	next    int
}

func NewReplaySource(samples []Sample, failure error) *ReplaySource {
	return &ReplaySource{samples: samples, failure: failure}
}

// Live reports false: the fixes were already collected on the device.
func (r *ReplaySource) Live() bool { return false }

// GetPosition implements PositionSource.
func (r *ReplaySource) GetPosition(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next < len(r.samples) {
		s := r.samples[r.next]
		r.next++
		return s, nil
	}
	if r.failure != nil {
		return Sample{}, r.failure
	}
	return Sample{}, ErrPositionUnavailable
}

// ParseDeviceError maps a client-reported geolocation failure code to a sentinel error.
func ParseDeviceError(code string) error {
	switch code {
	case "":
		return nil
	case "permission_denied":
		return ErrPermissionDenied
	case "timeout":
		return ErrPositionTimeout
	default:
		return ErrPositionUnavailable
	}
}
