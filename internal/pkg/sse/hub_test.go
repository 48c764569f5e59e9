package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishDeliversToChannelSubscribers(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(ChannelHR)
	defer cleanup()

	other, cleanupOther := hub.Subscribe("someone-else")
	defer cleanupOther()

	hub.Publish(ChannelHR, Event{Event: "attendance.recorded", Data: "payload"})

	select {
	case got := <-ch:
		assert.Equal(t, ChannelHR, got.Channel)
		assert.Equal(t, "attendance.recorded", got.Event)
		assert.Equal(t, "payload", got.Data)
	default:
		t.Fatal("expected an event on the hr channel")
	}

	select {
	case <-other:
		t.Fatal("unrelated channel must not receive the event")
	default:
	}
}

func TestHub_PublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(ChannelHR)
	defer cleanup()

	for i := 0; i < 20; i++ {
		hub.Publish(ChannelHR, Event{Event: "tick", Data: i})
	}
	assert.Len(t, ch, cap(ch))
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe(ChannelHR)
	require.Equal(t, 1, hub.SubscriberCount(ChannelHR))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount(ChannelHR))

	// publishing with no subscribers is a no-op
	hub.Publish(ChannelHR, Event{Event: "tick"})
}
