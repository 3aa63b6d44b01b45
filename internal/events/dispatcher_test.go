package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishStampsIDAndTimestamp(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got Event
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got.ID == "" {
		t.Fatal("event ID not stamped")
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp not stamped")
	}
	if got.TicketID != "t1" {
		t.Fatalf("ticket id = %q", got.TicketID)
	}
}

func TestPublishDeliveryContinuesPastHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int
	d.Subscribe(EventPriorityEscalated, func(ctx context.Context, e Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(EventPriorityEscalated, func(ctx context.Context, e Event) error {
		calls++
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventPriorityEscalated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if calls != 2 {
		t.Fatalf("handlers called %d times, want 2", calls)
	}
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	var called bool
	d.Subscribe(EventTicketUpdated, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if called {
		t.Fatal("handler for other type must not fire")
	}
}
