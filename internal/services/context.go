package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	launchIDKey  contextKey = "launch_id"
	topicKey     contextKey = "topic"
)

// WithRequestID annotates context with the identifier of the hub event being handled.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the event identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithLaunchID annotates context with the identifier of a viewer launch.
func WithLaunchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, launchIDKey, id)
}

// LaunchIDFromContext returns the launch identifier if present.
func LaunchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(launchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTopic annotates context with the event topic being handled.
func WithTopic(ctx context.Context, topic string) context.Context {
	if topic == "" {
		return ctx
	}
	return context.WithValue(ctx, topicKey, topic)
}

// TopicFromContext returns the event topic if present.
func TopicFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(topicKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
