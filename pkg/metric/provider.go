package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Provider = (*providerMetrics)(nil)

type providerMetrics struct {
	callCounter       *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
}

func newProviderMetrics(registry *promRegistry) *providerMetrics {
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of outbound payment provider calls by provider, operation and outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_duration_seconds",
			Help:    "Outbound payment provider call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"provider", "operation"},
	)

	registry.registry.MustRegister(calls, duration)

	return &providerMetrics{
		callCounter:       calls,
		durationHistogram: duration,
	}
}

func (m *providerMetrics) Call(provider, operation, outcome string, duration time.Duration) {
	m.callCounter.WithLabelValues(provider, operation, outcome).Add(1)
	m.durationHistogram.WithLabelValues(provider, operation).Observe(duration.Seconds())
}
