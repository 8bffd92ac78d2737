// Package metrics provides Prometheus metrics for the viewer action
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// Event metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seqview_events_total",
			Help: "Total number of hub events handled",
		},
		[]string{"topic"},
	)

	// Launch metrics
	LaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seqview_launches_total",
			Help: "Total number of viewer launch attempts",
		},
		[]string{"outcome", "reason"},
	)

	LaunchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seqview_launch_duration_seconds",
			Help:    "Time from launch event to viewer start",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	FramesResolved = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seqview_frames_resolved",
			Help:    "Number of files found per resolved component",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Tracking server metrics
	TrackingCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seqview_tracking_calls_total",
			Help: "Total number of tracking server API calls",
		},
		[]string{"endpoint", "status"},
	)

	TrackingCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seqview_tracking_call_duration_seconds",
			Help:    "Duration of tracking server API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Hub connection metrics
	HubConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seqview_hub_connected",
			Help: "Whether the event hub connection is up",
		},
	)
)

// RecordEvent counts a handled hub event.
func RecordEvent(topic string) {
	EventsTotal.WithLabelValues(topic).Inc()
}

// RecordLaunch records a launch outcome. reason is empty for successes.
func RecordLaunch(success bool, reason string, frames int, duration time.Duration) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	LaunchesTotal.WithLabelValues(outcome, reason).Inc()
	LaunchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if success {
		FramesResolved.Observe(float64(frames))
	}
}

// RecordTrackingCall records one tracking server API call.
func RecordTrackingCall(endpoint, status string, duration time.Duration) {
	TrackingCallsTotal.WithLabelValues(endpoint, status).Inc()
	TrackingCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetHubConnected flips the hub connection gauge.
func SetHubConnected(up bool) {
	if up {
		HubConnected.Set(1)
		return
	}
	HubConnected.Set(0)
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
