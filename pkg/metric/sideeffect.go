package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ SideEffect = (*sideEffectMetrics)(nil)

type sideEffectMetrics struct {
	sentCounter   *prometheus.CounterVec
	failedCounter *prometheus.CounterVec
}

func newSideEffectMetrics(registry *promRegistry) *sideEffectMetrics {
	sent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_sent_total",
			Help: "Total number of best-effort side effects attempted by sink",
		},
		[]string{"sink"},
	)

	failed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failed_total",
			Help: "Total number of best-effort side effects that failed by sink",
		},
		[]string{"sink"},
	)

	registry.registry.MustRegister(sent, failed)

	return &sideEffectMetrics{
		sentCounter:   sent,
		failedCounter: failed,
	}
}

func (m *sideEffectMetrics) Sent(sink string) {
	m.sentCounter.WithLabelValues(sink).Add(1)
}

func (m *sideEffectMetrics) Failed(sink string) {
	m.failedCounter.WithLabelValues(sink).Add(1)
}
