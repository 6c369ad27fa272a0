package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Dispatch metrics
	DispatchTotal *prometheus.CounterVec

	// Storage metrics
	StorageRequestsTotal *prometheus.CounterVec

	// Reply metrics
	ReplySendTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Registered users gauge
	RegisteredUsers prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ritsbot_webhook_requests_total",
				Help: "Total number of webhook requests by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, skipped
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ritsbot_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"event_type"},
		),

		DispatchTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ritsbot_dispatch_total",
				Help: "Total number of dispatched messages by resulting action kind",
			},
			[]string{"action"}, // action: text, quick_reply, rejected, no_match, error
		),

		StorageRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ritsbot_storage_requests_total",
				Help: "Total number of user store operations by operation and status",
			},
			[]string{"operation", "status"}, // operation: find, register; status: ok, not_found, duplicate, error
		),

		ReplySendTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ritsbot_reply_send_total",
				Help: "Total number of outbound replies by message kind and status",
			},
			[]string{"kind", "status"}, // kind: text, quick_reply; status: success, error
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ritsbot_http_errors_total",
				Help: "Total HTTP errors by type",
			},
			[]string{"error_type"}, // error_type: invalid_signature, parse_error
		),

		RegisteredUsers: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "ritsbot_registered_users",
				Help: "Current number of users that completed the survey registration",
			},
		),
	}

	return m
}

// RecordWebhook records a webhook event with status
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordDispatch records a dispatch outcome
func (m *Metrics) RecordDispatch(action string) {
	m.DispatchTotal.WithLabelValues(action).Inc()
}

// RecordStorage records a user store operation
func (m *Metrics) RecordStorage(operation, status string) {
	m.StorageRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordReply records an outbound reply attempt
func (m *Metrics) RecordReply(kind, status string) {
	m.ReplySendTotal.WithLabelValues(kind, status).Inc()
}

// RecordHTTPError records an HTTP-level error
func (m *Metrics) RecordHTTPError(errorType string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetRegisteredUsers updates the registered users gauge
func (m *Metrics) SetRegisteredUsers(count int) {
	m.RegisteredUsers.Set(float64(count))
}
