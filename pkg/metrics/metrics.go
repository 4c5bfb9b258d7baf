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

	// ChatRunsTotal tracks completed agent runs by outcome.
	ChatRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_runs_total",
			Help: "Total agent loop runs",
		},
		[]string{"mode", "outcome"},
	)

	// ToolInvocationsTotal tracks tool dispatches by tool and outcome.
	ToolInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Total tool invocations dispatched by the agent loop",
		},
		[]string{"tool", "outcome"},
	)

	// ReasoningDuration tracks LLM reasoning round-trip duration.
	ReasoningDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_reasoning_duration_seconds",
			Help:    "LLM reasoning step duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"provider", "status"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// CatalogSearchResults tracks result counts of catalog searches.
	CatalogSearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_search_results",
			Help:    "Result counts returned by catalog searches",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordReasoning records metrics for one LLM reasoning round trip.
func RecordReasoning(provider, status string, duration float64) {
	ReasoningDuration.WithLabelValues(provider, status).Observe(duration)
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
