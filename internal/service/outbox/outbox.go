package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/sse"
)

const defaultBatchSize = 50

// Pusher delivers one record to the remote endpoint.
type Pusher interface {
	Push(ctx context.Context, endpoint string, v any) error
}

type EventPublisher interface {
	Publish(event sse.Event)
}

// Outbox pushes unsynced local records to the remote sheet. The unsynced rows
// of the checkin_records table are the queue; Enqueue only wakes the drainer.
type Outbox struct {
	repo      checkin.CheckinRepository
	settings  settings.SettingsService
	pusher    Pusher
	events    EventPublisher
	batchSize int

	kickMu sync.RWMutex
	kick   func()

	// drainMu serializes drains so a record is never pushed twice concurrently
	drainMu sync.Mutex
}

func NewOutbox(repo checkin.CheckinRepository, settingsService settings.SettingsService, pusher Pusher, events EventPublisher, batchSize int) *Outbox {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Outbox{
		repo:      repo,
		settings:  settingsService,
		pusher:    pusher,
		events:    events,
		batchSize: batchSize,
	}
}

// SetKick installs the function Enqueue calls to schedule a drain.
func (o *Outbox) SetKick(fn func()) {
	o.kickMu.Lock()
	defer o.kickMu.Unlock()
	o.kick = fn
}

// Enqueue signals that a committed record is waiting. The record itself is
// already durable as an unsynced row.
func (o *Outbox) Enqueue(id string) {
	slog.Debug("Check-in queued for sync", "record_id", id)

	o.kickMu.RLock()
	kick := o.kick
	o.kickMu.RUnlock()

	if kick != nil {
		kick()
	}
}

// Drain pushes unsynced records oldest first. It stops at the first push
// failure and leaves that record and everything after it for the next run.
func (o *Outbox) Drain(ctx context.Context) (checkin.SyncResponse, error) {
	o.drainMu.Lock()
	defer o.drainMu.Unlock()

	var result checkin.SyncResponse

	current, err := o.settings.Get(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load settings: %w", err)
	}

	if current.RemoteEndpoint == nil {
		pending, err := o.repo.CountUnsynced(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to count unsynced records: %w", err)
		}
		result.Pending = pending
		return result, nil
	}
	endpoint := *current.RemoteEndpoint

	for {
		batch, err := o.repo.ListUnsynced(ctx, o.batchSize)
		if err != nil {
			return result, fmt.Errorf("failed to list unsynced records: %w", err)
		}

		failed, err := o.pushBatch(ctx, endpoint, batch, &result)
		if err != nil {
			return result, err
		}
		if failed || len(batch) < o.batchSize {
			break
		}
	}

	pending, err := o.repo.CountUnsynced(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count unsynced records: %w", err)
	}
	result.Pending = pending

	if result.Pushed > 0 || result.Failed > 0 {
		slog.Info("Outbox drained", "pushed", result.Pushed, "failed", result.Failed, "pending", result.Pending)
	}
	return result, nil
}

// pushBatch reports failed=true when a push was rejected.
func (o *Outbox) pushBatch(ctx context.Context, endpoint string, batch []checkin.Record, result *checkin.SyncResponse) (bool, error) {
	for _, record := range batch {
		payload := record
		payload.Synced = true

		if err := o.pusher.Push(ctx, endpoint, payload); err != nil {
			if ctx.Err() != nil {
				return true, ctx.Err()
			}
			result.Failed++
			slog.Warn("Failed to push check-in", "record_id", record.ID, "error", fmt.Errorf("%w: %v", checkin.ErrRemotePushFailed, err))
			o.events.Publish(sse.Event{
				Topic: sse.TopicAdmin,
				Event: sse.EventSyncFailed,
				Data:  map[string]string{"id": record.ID, "error": err.Error()},
			})
			return true, nil
		}

		if err := o.repo.MarkSynced(ctx, record.ID); err != nil {
			// deleted while in flight; the remote copy stays
			if errors.Is(err, checkin.ErrRecordNotFound) {
				result.Pushed++
				continue
			}
			return true, fmt.Errorf("failed to mark record synced: %w", err)
		}

		result.Pushed++
		o.events.Publish(sse.Event{
			Topic: sse.TopicAdmin,
			Event: sse.EventCheckinSynced,
			Data:  map[string]string{"id": record.ID},
		})
	}
	return false, nil
}
