package eventhub

import (
	"context"
	"fmt"
	"strings"
)

// ReplyTopic is the topic of events sent in answer to another event.
const ReplyTopic = "ftrack.meta.reply"

// User identifies who raised an event.
type User struct {
	Username string `json:"username"`
}

// Source describes where an event came from.
type Source struct {
	User User `json:"user"`
}

// Event is a single message on the hub.
type Event struct {
	ID        string         `json:"id"`
	Topic     string         `json:"topic"`
	Source    Source         `json:"source"`
	Data      map[string]any `json:"data,omitempty"`
	InReplyTo string         `json:"inReplyToEvent,omitempty"`
}

// Handler processes one event. A non-nil result is sent back to the
// publisher as a reply.
type Handler func(ctx context.Context, event Event) (any, error)

// Registry is where handlers are attached and detached.
type Registry interface {
	Subscribe(expression string, handler Handler) (string, error)
	Unsubscribe(id string) error
}

// Lookup resolves a dotted path against the event. Only string-like leaves
// are returned.
func (e Event) Lookup(path string) (string, bool) {
	switch path {
	case "id":
		return e.ID, true
	case "topic":
		return e.Topic, true
	case "source.user.username":
		return e.Source.User.Username, true
	}
	rest, ok := strings.CutPrefix(path, "data.")
	if !ok {
		return "", false
	}
	var current any = e.Data
	for _, part := range strings.Split(rest, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = m[part]
		if !ok {
			return "", false
		}
	}
	switch v := current.(type) {
	case string:
		return v, true
	case bool, float64, int, int64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
