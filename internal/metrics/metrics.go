package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for wizard activity.
type Metrics struct {
	transitions    *prometheus.CounterVec
	remoteCalls    *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global registry. It is
// created once so repeated construction in tests does not panic.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew registers a fresh set of collectors with reg
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sprintkit",
				Subsystem: "wizard",
				Name:      "step_transitions_total",
				Help:      "Wizard step transitions by direction and target step.",
			},
			[]string{"direction", "step"},
		),
		remoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sprintkit",
				Subsystem: "backend",
				Name:      "calls_total",
				Help:      "Backend operations by which path produced the result.",
			},
			[]string{"operation", "source"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "sprintkit",
				Subsystem: "wizard",
				Name:      "sessions_active",
				Help:      "Wizard sessions currently held in memory.",
			},
		),
	}
	reg.MustRegister(m.transitions, m.remoteCalls, m.activeSessions)
	return m
}

func (m *Metrics) Transition(direction, step string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(direction, step).Inc()
}

func (m *Metrics) RemoteCall(operation, source string) {
	if m == nil {
		return
	}
	m.remoteCalls.WithLabelValues(operation, source).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
