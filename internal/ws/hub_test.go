package ws

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestHub_PublishQueuesEvent(t *testing.T) {
	hub := NewHub(quietLogger())

	hub.Publish(Event{Type: EventStockUpdate, Action: "sale_recorded", Message: "sold 3"})

	select {
	case raw := <-hub.Broadcast:
		var got Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, EventStockUpdate, got.Type)
		assert.Equal(t, "sale_recorded", got.Action)
	default:
		t.Fatal("expected a queued message")
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(quietLogger())

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.Broadcast)+10; i++ {
			hub.Publish(Event{Type: EventLowStock, Action: "scan"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

func TestHub_RunStopsOnCancel(t *testing.T) {
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	hub.Publish(Event{Type: EventStockUpdate})
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Zero(t, hub.ClientCount())
}

func TestHub_JoinAndLeaveAfterStop(t *testing.T) {
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	// unknown connection while running is a no-op
	hub.Leave(nil)

	cancel()
	<-stopped

	returned := make(chan bool)
	go func() {
		hub.Leave(nil)
		returned <- hub.Join(nil)
	}()

	select {
	case joined := <-returned:
		assert.False(t, joined)
	case <-time.After(2 * time.Second):
		t.Fatal("Join/Leave blocked on a stopped hub")
	}
	assert.Zero(t, hub.ClientCount())
}
