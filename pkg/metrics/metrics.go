// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesTotal tracks messages appended to conversations.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receptionist_messages_total",
			Help: "Total messages appended to conversations",
		},
		[]string{"sender"},
	)

	// ConversationsTotal tracks conversations created.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receptionist_conversations_total",
			Help: "Total conversations created",
		},
	)

	// SuggestionFetchesTotal tracks quick-reply fetches against the AI provider.
	SuggestionFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receptionist_suggestion_fetches_total",
			Help: "Total quick-reply suggestion fetches",
		},
		[]string{"status"},
	)

	// BookingsDetectedTotal tracks outbound messages classified as booking confirmations.
	BookingsDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receptionist_bookings_detected_total",
			Help: "Outbound messages classified as booking confirmations",
		},
		[]string{"outcome"},
	)

	// DepositRequestsTotal tracks deposit links sent to customers.
	DepositRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receptionist_deposit_requests_total",
			Help: "Deposit payment links sent to customers",
		},
		[]string{"provider"},
	)

	// SettlementsTotal tracks simulated payment settlements.
	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receptionist_settlements_total",
			Help: "Simulated payment settlements",
		},
		[]string{"provider", "outcome"},
	)

	// HandoffTogglesTotal tracks AI/human handoff transitions.
	HandoffTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receptionist_handoff_toggles_total",
			Help: "AI/human handoff transitions",
		},
		[]string{"to"},
	)

	// AIRequestDuration tracks AI provider call duration.
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "receptionist_ai_request_duration_seconds",
			Help:    "AI provider call duration",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "operation", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAIRequest records metrics for an AI provider call.
func RecordAIRequest(provider, operation, status string, duration float64) {
	AIRequestDuration.WithLabelValues(provider, operation, status).Observe(duration)
}
