// Package metrics provides Prometheus instrumentation for nebula-connect.
//
// # Overview
//
// Every collector is registered on the default registry through promauto, so
// serving promhttp.Handler() is enough to expose them:
//   - HTTP calls made to vendor APIs (count and latency by connector, method, status)
//   - Entity fetches (count by connector, entity, outcome)
//   - Records returned to the host
//   - Connection state transitions
//
// # Basic Usage
//
//	timer := metrics.NewTimer()
//	resp, err := client.Do(req)
//	metrics.ObserveHTTP("copper", req.Method, statusOf(resp, err), timer.Elapsed())
//
//	metrics.RecordFetch("copper", "leads", metrics.OutcomeOK, len(items))
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels used on the fetch counter.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "swallowed"
	OutcomeError   = "error"
	OutcomeInvalid = "invalid"
)

var (
	// HTTPRequests counts calls issued to vendor APIs.
	// Labels: connector, method, status (HTTP status code or "error")
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_connect_http_requests_total",
			Help: "Total number of HTTP requests sent to vendor APIs",
		},
		[]string{"connector", "method", "status"},
	)

	// HTTPDuration tracks vendor API latency in seconds.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nebula_connect_http_request_duration_seconds",
			Help:    "Latency of HTTP requests sent to vendor APIs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"connector", "method"},
	)

	// EntityFetches counts GetEntity/GetEntityPage calls.
	// Labels: connector, entity, outcome (ok/swallowed/error/invalid)
	EntityFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_connect_entity_fetches_total",
			Help: "Total number of entity fetches by outcome",
		},
		[]string{"connector", "entity", "outcome"},
	)

	// RecordsReturned counts records handed back to the host.
	RecordsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nebula_connect_records_returned_total",
			Help: "Total number of records returned to callers",
		},
		[]string{"connector", "entity"},
	)

	// ConnectionState exposes the current connection state per connector (1 = active state).
	ConnectionState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nebula_connect_connection_state",
			Help: "Connection state of each data source",
		},
		[]string{"connector", "state"},
	)
)

// ObserveHTTP records a single vendor call. status is 0 when the transport failed.
func ObserveHTTP(connector, method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	HTTPRequests.WithLabelValues(connector, method, label).Inc()
	HTTPDuration.WithLabelValues(connector, method).Observe(elapsed.Seconds())
}

// RecordFetch records the outcome of an entity fetch and the records it produced.
func RecordFetch(connector, entity, outcome string, records int) {
	EntityFetches.WithLabelValues(connector, entity, outcome).Inc()
	if records > 0 {
		RecordsReturned.WithLabelValues(connector, entity).Add(float64(records))
	}
}

// SetConnectionState marks state as the active one for connector.
func SetConnectionState(connector, state string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == state {
			v = 1
		}
		ConnectionState.WithLabelValues(connector, s).Set(v)
	}
}

// Timer measures elapsed time for an operation
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
