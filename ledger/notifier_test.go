package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierDeliversToActiveSubscribers(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	n.Publish(TopicFinancialDataChange)

	select {
	case topic := <-ch:
		assert.Equal(t, TopicFinancialDataChange, topic)
	case <-time.After(time.Second):
		t.Fatal("expected a published topic")
	}
}

func TestNotifierLateSubscriberMissesEvent(t *testing.T) {
	n := NewNotifier()
	n.Publish(TopicFinancialDataChange)

	ch, cancel := n.Subscribe()
	defer cancel()

	select {
	case <-ch:
		t.Fatal("late subscriber must not receive earlier events")
	default:
	}
}

func TestNotifierCancelStopsDelivery(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	cancel()

	// Channel is closed on cancel; publish must not panic.
	n.Publish(TopicFinancialDataChange)
	_, open := <-ch
	assert.False(t, open)
}

func TestNotifierDoesNotBlockOnFullSubscriber(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Publish(TopicFinancialDataChange)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	require.NotEmpty(t, ch)
}
