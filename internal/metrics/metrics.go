// Package metrics provides Prometheus instrumentation for the support engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the chatbot.
type Metrics struct {
	// Message pipeline
	MessagesTotal    *prometheus.CounterVec // outcome: faq, dialogue, no_match, navigation, order_lookup, empty
	MessageDuration  prometheus.Histogram
	IntentNormalized prometheus.Counter

	// Auto-complete
	AutocompleteTotal   prometheus.Counter
	AutocompleteResults prometheus.Histogram

	// Sessions
	SessionResets  prometheus.Counter
	ActiveSessions prometheus.Gauge

	ServerStartTime time.Time
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the collectors on a custom registerer,
// which keeps tests from colliding on the global registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbot_messages_total",
				Help: "Total processed messages by outcome",
			},
			[]string{"outcome"},
		),
		MessageDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatbot_message_duration_seconds",
				Help:    "Duration of message processing",
				Buckets: prometheus.DefBuckets,
			},
		),
		IntentNormalized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatbot_intent_normalized_total",
				Help: "Messages whose intent was rewritten by synonym resolution",
			},
		),
		AutocompleteTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatbot_autocomplete_requests_total",
				Help: "Total auto-complete lookups",
			},
		),
		AutocompleteResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatbot_autocomplete_results",
				Help:    "Number of suggestions returned per auto-complete lookup",
				Buckets: []float64{0, 1, 2, 4, 8},
			},
		),
		SessionResets: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatbot_session_resets_total",
				Help: "Explicit session resets",
			},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatbot_active_sessions",
				Help: "Sessions currently known to the store",
			},
		),
		ServerStartTime: time.Now(),
	}
}
