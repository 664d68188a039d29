package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
)

// SyncPendingCheckinsJob is the name Trigger uses to wake the outbox drainer.
const SyncPendingCheckinsJob = "sync_pending_checkins"

type Drainer interface {
	Drain(ctx context.Context) (checkin.SyncResponse, error)
}

type CheckinJobs struct {
	drainer  Drainer
	interval time.Duration
}

func NewCheckinJobs(drainer Drainer, interval time.Duration) *CheckinJobs {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CheckinJobs{drainer: drainer, interval: interval}
}

func (j *CheckinJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(SyncPendingCheckinsJob, j.interval, j.SyncPendingCheckins)
}

// SyncPendingCheckins pushes records committed while the remote was unreachable.
func (j *CheckinJobs) SyncPendingCheckins(ctx context.Context) error {
	result, err := j.drainer.Drain(ctx)
	if err != nil {
		return fmt.Errorf("failed to drain outbox: %w", err)
	}

	if result.Failed > 0 {
		slog.Warn("Cron: Outbox push failed, will retry", "pushed", result.Pushed, "pending", result.Pending)
	} else if result.Pushed > 0 {
		slog.Info("Cron: Pending check-ins synced", "count", result.Pushed)
	} else if result.Pending > 0 {
		slog.Debug("Cron: Check-ins pending, no remote endpoint", "pending", result.Pending)
	}
	return nil
}
