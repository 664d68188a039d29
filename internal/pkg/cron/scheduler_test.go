package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()

	var ran []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "failing")
		return errors.New("boom")
	})
	s.AddJob("last", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "last")
		return nil
	})

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"first", "failing", "last"}, ran)
}

func TestScheduler_StartRunsImmediatelyAndTriggerWakesJob(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	s.AddJob("sync", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	assert.True(t, s.Trigger("sync"))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_TriggerUnknownJob(t *testing.T) {
	s := NewScheduler()

	assert.False(t, s.Trigger("missing"))
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	s := NewScheduler()

	done := make(chan struct{})
	s.AddJob("blocking", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	})

	s.Start()
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}
