// Package metrics holds the Prometheus instruments shared by the server
// and the probe client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's metric instruments.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GuardDecisionsTotal *prometheus.CounterVec
	AuthEventsTotal     *prometheus.CounterVec
	ProbeOutcomesTotal  *prometheus.CounterVec
	ProbeAttempts       prometheus.Histogram
}

// New creates the instruments and registers them with reg.
// Passing a fresh prometheus.NewRegistry() keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerhub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests completed.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trainerhub",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		GuardDecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerhub",
			Name:      "edge_guard_decisions_total",
			Help:      "Edge guard decisions by action and reason.",
		}, []string{"action", "reason"}),
		AuthEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerhub",
			Name:      "auth_events_total",
			Help:      "Authentication events (login, register, logout, failures).",
		}, []string{"event"}),
		ProbeOutcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trainerhub",
			Name:      "auth_probe_outcomes_total",
			Help:      "Terminal decisions reached by the session probe.",
		}, []string{"outcome"}),
		ProbeAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trainerhub",
			Name:      "auth_probe_attempts",
			Help:      "Number of status calls made before the probe decided.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.GuardDecisionsTotal,
			m.AuthEventsTotal,
			m.ProbeOutcomesTotal,
			m.ProbeAttempts,
		)
	}
	return m
}

// Nop returns unregistered instruments, for callers that do not export metrics.
func Nop() *Metrics {
	return New(nil)
}
