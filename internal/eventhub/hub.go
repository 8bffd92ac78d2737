package eventhub

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"seqview/internal/logging"
	"seqview/internal/metrics"
	"seqview/internal/services"
)

type subscriber struct {
	id           string
	subscription Subscription
	handler      Handler
	seq          uint64
}

// Hub dispatches events to matching in-process subscribers.
type Hub struct {
	mu        sync.RWMutex
	subs      map[string]subscriber
	seq       uint64
	lastEvent time.Time
	logger    *slog.Logger
}

var _ Registry = (*Hub)(nil)

// NewHub returns an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		subs:   make(map[string]subscriber),
		logger: logging.NewComponentLogger(logger, "eventhub"),
	}
}

// Subscribe registers handler for events matching expression and returns the
// subscription id.
func (h *Hub) Subscribe(expression string, handler Handler) (string, error) {
	if handler == nil {
		return "", fmt.Errorf("subscribe %q: nil handler", expression)
	}
	sub, err := ParseSubscription(expression)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	h.mu.Lock()
	h.seq++
	h.subs[id] = subscriber{id: id, subscription: sub, handler: handler, seq: h.seq}
	h.mu.Unlock()
	h.logger.Debug("subscribed", logging.String("subscription_id", id), logging.String("expression", expression))
	return id, nil
}

// Unsubscribe removes a subscription. Unknown ids are an error.
func (h *Hub) Unsubscribe(id string) error {
	h.mu.Lock()
	_, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("unsubscribe %q: unknown subscription", id)
	}
	h.logger.Debug("unsubscribed", logging.String("subscription_id", id))
	return nil
}

// Expressions returns the active subscriptions keyed by id.
func (h *Hub) Expressions() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]string, len(h.subs))
	for id, sub := range h.subs {
		out[id] = sub.subscription.String()
	}
	return out
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// LastEvent returns when the hub last dispatched an event.
func (h *Hub) LastEvent() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastEvent
}

// Publish runs every matching handler sequentially, in subscription order,
// and returns their non-nil results. Handler errors are logged and skipped.
func (h *Hub) Publish(ctx context.Context, event Event) []any {
	h.mu.Lock()
	h.lastEvent = time.Now()
	matched := make([]subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.subscription.Matches(event) {
			matched = append(matched, sub)
		}
	}
	h.mu.Unlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	metrics.RecordEvent(event.Topic)
	ctx = services.WithRequestID(ctx, event.ID)
	ctx = services.WithTopic(ctx, event.Topic)
	logger := logging.WithContext(ctx, h.logger)

	var results []any
	for _, sub := range matched {
		result, err := sub.handler(ctx, event)
		if err != nil {
			logger.Warn("handler failed",
				logging.String("subscription_id", sub.id),
				logging.Error(err),
			)
			continue
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results
}
