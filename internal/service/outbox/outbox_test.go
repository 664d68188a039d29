package outbox

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	checkin.CheckinRepository
	mu      sync.Mutex
	records map[string]checkin.Record
}

func newMemoryRepo(records ...checkin.Record) *memoryRepo {
	m := &memoryRepo{records: map[string]checkin.Record{}}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *memoryRepo) ListUnsynced(ctx context.Context, limit int) ([]checkin.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []checkin.Record
	for _, r := range m.records {
		if !r.Synced {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) MarkSynced(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return checkin.ErrRecordNotFound
	}
	r.Synced = true
	m.records[id] = r
	return nil
}

func (m *memoryRepo) CountUnsynced(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if !r.Synced {
			n++
		}
	}
	return n, nil
}

type staticSettings struct {
	settings.SettingsService
	endpoint *string
}

func (s staticSettings) Get(ctx context.Context) (settings.AppSettings, error) {
	return settings.AppSettings{RemoteEndpoint: s.endpoint}, nil
}

type scriptedPusher struct {
	pushed []checkin.Record
	failOn string
}

func (p *scriptedPusher) Push(ctx context.Context, endpoint string, v any) error {
	record := v.(checkin.Record)
	if record.ID == p.failOn {
		return errors.New("503 from remote")
	}
	p.pushed = append(p.pushed, record)
	return nil
}

type recordingPublisher struct {
	events []sse.Event
}

func (p *recordingPublisher) Publish(event sse.Event) {
	p.events = append(p.events, event)
}

func records(n int) []checkin.Record {
	out := make([]checkin.Record, n)
	for i := range out {
		out[i] = checkin.Record{ID: string(rune('a' + i)), Timestamp: int64(1000 + i)}
	}
	return out
}

func endpoint() *string {
	e := "https://script.example.com/exec"
	return &e
}

func TestDrain_PushesAllInOrder(t *testing.T) {
	repo := newMemoryRepo(records(5)...)
	pusher := &scriptedPusher{}
	events := &recordingPublisher{}
	ob := NewOutbox(repo, staticSettings{endpoint: endpoint()}, pusher, events, 2)

	result, err := ob.Drain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, checkin.SyncResponse{Pushed: 5, Failed: 0, Pending: 0}, result)
	require.Len(t, pusher.pushed, 5)
	for i, r := range pusher.pushed {
		assert.Equal(t, string(rune('a'+i)), r.ID)
		assert.True(t, r.Synced)
	}
	assert.Len(t, events.events, 5)
}

func TestDrain_StopsAtFirstFailure(t *testing.T) {
	repo := newMemoryRepo(records(4)...)
	pusher := &scriptedPusher{failOn: "b"}
	events := &recordingPublisher{}
	ob := NewOutbox(repo, staticSettings{endpoint: endpoint()}, pusher, events, 10)

	result, err := ob.Drain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pushed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Pending)
	assert.True(t, repo.records["a"].Synced)
	assert.False(t, repo.records["b"].Synced)
	assert.False(t, repo.records["c"].Synced)
	assert.Equal(t, sse.EventSyncFailed, events.events[len(events.events)-1].Event)

	pusher.failOn = ""
	result, err = ob.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Pushed)
	assert.Zero(t, result.Pending)
}

func TestDrain_NoEndpointLeavesRecordsQueued(t *testing.T) {
	repo := newMemoryRepo(records(3)...)
	pusher := &scriptedPusher{}
	ob := NewOutbox(repo, staticSettings{}, pusher, &recordingPublisher{}, 10)

	result, err := ob.Drain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, checkin.SyncResponse{Pending: 3}, result)
	assert.Empty(t, pusher.pushed)
}

func TestEnqueue_Kicks(t *testing.T) {
	ob := NewOutbox(newMemoryRepo(), staticSettings{}, &scriptedPusher{}, &recordingPublisher{}, 10)

	ob.Enqueue("a")

	kicks := 0
	ob.SetKick(func() { kicks++ })
	ob.Enqueue("b")
	ob.Enqueue("c")

	assert.Equal(t, 2, kicks)
}
