package logging

import (
	"context"
	"log/slog"

	"seqview/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventID is the standardized key for the hub event being handled.
	FieldEventID = "event_id"
	// FieldLaunchID is the standardized key for viewer launch identifiers.
	FieldLaunchID = "launch_id"
	// FieldTopic is the standardized key for event topics.
	FieldTopic = "topic"
	// FieldEventType is the standardized key for machine-readable event names.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEventID, id))
	}
	if id, ok := services.LaunchIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldLaunchID, id))
	}
	if topic, ok := services.TopicFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTopic, topic))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
