package messaging_test

import (
	"context"
	"testing"
	"time"

	"channeldirector/internal/platform/messaging"
	"channeldirector/internal/shared/events"
)

func TestKafkaDeliversToSubscribedTopic(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 1)
	err = bus.Subscribe(ctx, "channel-ops.automation.run.completed", "test-group", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	want := events.Envelope{
		EventID:   "evt-1",
		EventType: "channel-ops.automation.run.completed",
		EntityID:  "auto-1",
	}
	if err := bus.Publish(ctx, want.EventType, want); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != want.EventID || got.EntityID != want.EntityID {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery")
	}
}

func TestKafkaIgnoresUnsubscribedTopics(t *testing.T) {
	bus, err := messaging.NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	if err := bus.Publish(context.Background(), "channel-ops.automation.run.failed", events.Envelope{EventID: "evt-2"}); err != nil {
		t.Fatalf("publishing without subscribers must not fail: %v", err)
	}
}
