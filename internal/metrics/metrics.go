// Package metrics exposes Prometheus collectors for the wallet bridge.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Settlement outcomes
const (
	OutcomeFulfilled    = "fulfilled"
	OutcomeRejected     = "rejected"
	OutcomeNotInstalled = "not_installed"
	OutcomeAbandoned    = "abandoned"
	OutcomeCancelled    = "cancelled"
	OutcomeOpenFailed   = "open_failed"
)

// CommandAll labels outcomes recorded for requests of every command at once
const CommandAll = "all"

// Metrics holds the bridge collectors
type Metrics struct {
	RequestsDispatched *prometheus.CounterVec
	RequestsSettled    *prometheus.CounterVec
	CallbacksDropped   prometheus.Counter
	PendingRequests    prometheus.Gauge
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustlink_requests_dispatched_total",
				Help: "Total number of requests opened in the wallet app",
			},
			[]string{"command"},
		),
		RequestsSettled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trustlink_requests_settled_total",
				Help: "Total number of requests that reached a terminal state",
			},
			[]string{"command", "outcome"},
		),
		CallbacksDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustlink_callbacks_dropped_total",
			Help: "Callback URLs that matched no pending request",
		}),
		PendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trustlink_pending_requests",
			Help: "Requests waiting for a callback",
		}),
	}
}

// Dispatched records a request opened in the wallet app
func (m *Metrics) Dispatched(command string) {
	if m == nil {
		return
	}
	m.RequestsDispatched.WithLabelValues(command).Inc()
	m.PendingRequests.Inc()
}

// Settled records a terminal outcome. Outcomes other than not_installed
// leave the pending set.
func (m *Metrics) Settled(command, outcome string) {
	if m == nil {
		return
	}
	m.RequestsSettled.WithLabelValues(command, outcome).Inc()
	if outcome != OutcomeNotInstalled {
		m.PendingRequests.Dec()
	}
}

// Abandoned records n requests dropped by cleanup
func (m *Metrics) Abandoned(n int) {
	if m == nil || n == 0 {
		return
	}
	m.RequestsSettled.WithLabelValues(CommandAll, OutcomeAbandoned).Add(float64(n))
	m.PendingRequests.Sub(float64(n))
}

// Dropped records a callback for an unknown id
func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.CallbacksDropped.Inc()
}
