// Package metrics exposes Prometheus instrumentation for the session
// gateway: connection attempts by outcome and token issuance by strategy.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the gateway collectors behind a private registry so tests
// can create isolated instances. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	connectAttempts *prometheus.CounterVec
	connectDuration prometheus.Histogram
	tokenIssuance   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		connectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_connect_attempts_total",
			Help: "Connection attempts by terminal outcome.",
		}, []string{"outcome"}),
		connectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "session_connect_duration_seconds",
			Help:    "Duration of connection attempts.",
			Buckets: prometheus.DefBuckets,
		}),
		tokenIssuance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_issuance_total",
			Help: "Signin requests by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connectAttempts,
		m.connectDuration,
		m.tokenIssuance,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveConnect records one finished connection attempt.
func (m *Metrics) ObserveConnect(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.connectAttempts.WithLabelValues(outcome).Inc()
	m.connectDuration.Observe(d.Seconds())
}

// ObserveIssuance records one signin request.
func (m *Metrics) ObserveIssuance(strategy, outcome string) {
	if m == nil {
		return
	}
	m.tokenIssuance.WithLabelValues(strategy, outcome).Inc()
}
