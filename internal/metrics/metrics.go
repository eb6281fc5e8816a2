package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
)

// Recorder owns the prometheus collectors of the agent. It implements
// state.Observer so the current-state gauge follows committed transitions.
type Recorder struct {
	// registry is private so the diagnostics endpoint only exposes our
	// collectors plus the standard process/go ones.
	registry *prometheus.Registry
	// sequences counts finished trigger/reset sequences by outcome.
	sequences *prometheus.CounterVec
	// duration observes sequence latency by operation.
	duration *prometheus.HistogramVec
	// currentState is a one-hot gauge over the safety states.
	currentState *prometheus.GaugeVec
}

// NewRecorder builds the collectors and registers them on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estop",
			Name:      "sequences_total",
			Help:      "Finished safety sequences by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "estop",
			Name:      "sequence_duration_seconds",
			Help:      "Wall-clock latency of safety sequences.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"operation"}),
		currentState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "estop",
			Name:      "current_state",
			Help:      "One-hot encoding of the current safety state.",
		}, []string{"state"}),
	}

	r.registry.MustRegister(r.sequences, r.duration, r.currentState)

	return r
}

// Registry returns the registry backing the /metrics endpoint.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSequence records one finished sequence.
func (r *Recorder) ObserveSequence(operation, status string, duration time.Duration) {
	r.sequences.WithLabelValues(operation, status).Inc()
	r.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordState sets the one-hot state gauge.
func (r *Recorder) RecordState(current safety.State) {
	for _, s := range []safety.State{safety.StateNormal, safety.StateEmergencyStop, safety.StateRestoring} {
		value := 0.0
		if s == current {
			value = 1.0
		}

		r.currentState.WithLabelValues(s.String()).Set(value)
	}
}

// OnTransition implements state.Observer.
func (r *Recorder) OnTransition(_ context.Context, record safety.TransitionRecord) {
	r.RecordState(record.To)
}
