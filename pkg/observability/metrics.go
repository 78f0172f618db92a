// Package observability exposes machine activity as Prometheus metrics,
// wired through domain.LifecycleHooks.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alvion/transitions/pkg/domain"
)

// Metrics holds the Prometheus collectors for one machine.
type Metrics struct {
	transitions     *prometheus.CounterVec
	invalidTriggers *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	activeStates    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer for the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transitions_fired_total",
				Help: "Completed transitions by trigger, source and destination.",
			},
			[]string{"trigger", "source", "dest"},
		),
		invalidTriggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transitions_invalid_triggers_total",
				Help: "Triggers fired with no registration on the active chain.",
			},
			[]string{"trigger", "state"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transitions_duration_seconds",
				Help:    "Duration of the full exit/enter sequence including callbacks.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		activeStates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "transitions_state_active",
				Help: "1 for the currently active qualified state name.",
			},
			[]string{"state"},
		),
	}
	reg.MustRegister(m.transitions, m.invalidTriggers, m.duration, m.activeStates)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors. Pass the result to
// the machine via WithLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ev *domain.TransitionEvent) {
			m.transitions.WithLabelValues(ev.Trigger, ev.Source, ev.Dest).Inc()
			m.duration.WithLabelValues(ev.Trigger).Observe(ev.Duration.Seconds())
		},
		OnStateEnter: func(ev *domain.StateEvent) {
			m.activeStates.WithLabelValues(ev.Name).Set(1)
		},
		OnStateExit: func(ev *domain.StateEvent) {
			m.activeStates.WithLabelValues(ev.Name).Set(0)
		},
		OnInvalidTrigger: func(trigger, state string) {
			m.invalidTriggers.WithLabelValues(trigger, state).Inc()
		},
	}
}
