package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()

	admin, cleanupAdmin := hub.Subscribe(TopicAdmin)
	defer cleanupAdmin()
	other, cleanupOther := hub.Subscribe("other")
	defer cleanupOther()

	hub.Publish(Event{Topic: TopicAdmin, Event: EventCheckinCommitted, Data: "T001"})

	select {
	case ev := <-admin:
		assert.Equal(t, EventCheckinCommitted, ev.Event)
		assert.Equal(t, "T001", ev.Data)
	default:
		t.Fatal("expected an event on the admin topic")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event on other topic: %v", ev)
	default:
	}
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe(TopicAdmin)
	defer cleanup()

	for i := 0; i < 100; i++ {
		hub.Publish(Event{Topic: TopicAdmin, Event: EventCheckinSynced})
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe(TopicAdmin)
	require.Equal(t, 1, hub.SubscriberCount(TopicAdmin))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount(TopicAdmin))
	_, open := <-ch
	assert.False(t, open)
}
