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
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
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

	// MessagesTotal tracks messages appended to threads.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thread_messages_total",
			Help: "Total messages appended to conversation logs",
		},
		[]string{"sender"},
	)

	// ReactionsTotal tracks reaction toggles.
	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thread_reactions_total",
			Help: "Total reaction toggles",
		},
		[]string{"action"},
	)

	// DeliveryUpdatesTotal tracks applied delivery acknowledgments.
	DeliveryUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thread_delivery_updates_total",
			Help: "Total delivery status updates applied",
		},
		[]string{"status"},
	)

	// WorkflowTransitionsTotal tracks request workflow transitions.
	WorkflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total request workflow transitions",
		},
		[]string{"workflow", "status"},
	)

	// RejectedMutationsTotal tracks mutations refused by the core.
	RejectedMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rejected_mutations_total",
			Help: "Mutations rejected with a recoverable error",
		},
		[]string{"operation", "reason"},
	)

	// CollectionQueriesTotal tracks filter queries per collection.
	CollectionQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_queries_total",
			Help: "Total collection filter queries",
		},
		[]string{"collection"},
	)

	// EventsPublishedTotal tracks events published to the event log.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published to NATS",
		},
		[]string{"type", "status"},
	)

	// EventsAppliedTotal tracks inbound events applied to the stores.
	EventsAppliedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_applied_total",
			Help: "Inbound events applied to the stores",
		},
		[]string{"type", "status"},
	)

	// ActiveSessions tracks actors with a live store set.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of actors with in-memory state",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordRejected records a refused mutation.
func RecordRejected(operation, reason string) {
	RejectedMutationsTotal.WithLabelValues(operation, reason).Inc()
}

// RecordTransition records a workflow transition.
func RecordTransition(workflow, status string) {
	WorkflowTransitionsTotal.WithLabelValues(workflow, status).Inc()
}
