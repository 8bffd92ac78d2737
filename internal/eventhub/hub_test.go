package eventhub_test

import (
	"context"
	"errors"
	"testing"

	"seqview/internal/eventhub"
	"seqview/internal/services"
)

func TestHubPublishDispatchesMatchingHandlers(t *testing.T) {
	hub := eventhub.NewHub(nil)
	var calls []string
	if _, err := hub.Subscribe("topic=ftrack.action.launch", func(ctx context.Context, e eventhub.Event) (any, error) {
		calls = append(calls, "launch")
		if id, ok := services.RequestIDFromContext(ctx); !ok || id != e.ID {
			t.Fatalf("expected event id in context, got %q", id)
		}
		return map[string]any{"success": true}, nil
	}); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	if _, err := hub.Subscribe("topic=ftrack.action.discover", func(context.Context, eventhub.Event) (any, error) {
		calls = append(calls, "discover")
		return nil, nil
	}); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	results := hub.Publish(context.Background(), launchEvent())
	if len(calls) != 1 || calls[0] != "launch" {
		t.Fatalf("unexpected handler calls: %v", calls)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %v", results)
	}
	if hub.LastEvent().IsZero() {
		t.Fatal("expected last event time to be recorded")
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := eventhub.NewHub(nil)
	count := 0
	id, err := hub.Subscribe("topic=ftrack.action.launch", func(context.Context, eventhub.Event) (any, error) {
		count++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	hub.Publish(context.Background(), launchEvent())
	if err := hub.Unsubscribe(id); err != nil {
		t.Fatalf("Unsubscribe returned error: %v", err)
	}
	hub.Publish(context.Background(), launchEvent())
	if count != 1 {
		t.Fatalf("expected one delivery, got %d", count)
	}
	if hub.Len() != 0 {
		t.Fatalf("expected no subscriptions, got %d", hub.Len())
	}
	if err := hub.Unsubscribe(id); err == nil {
		t.Fatal("expected error unsubscribing twice")
	}
}

func TestHubSkipsFailingHandlers(t *testing.T) {
	hub := eventhub.NewHub(nil)
	_, _ = hub.Subscribe("topic=ftrack.action.launch", func(context.Context, eventhub.Event) (any, error) {
		return nil, errors.New("boom")
	})
	_, _ = hub.Subscribe("topic=ftrack.action.launch", func(context.Context, eventhub.Event) (any, error) {
		return "ok", nil
	})
	results := hub.Publish(context.Background(), launchEvent())
	if len(results) != 1 || results[0] != "ok" {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestHubRejectsBadSubscriptions(t *testing.T) {
	hub := eventhub.NewHub(nil)
	if _, err := hub.Subscribe("topic", func(context.Context, eventhub.Event) (any, error) { return nil, nil }); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := hub.Subscribe("topic=x", nil); err == nil {
		t.Fatal("expected nil handler error")
	}
}
