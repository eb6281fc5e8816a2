package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
)

// TestObserveSequence counts finished sequences by outcome.
func TestObserveSequence(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveSequence("trigger", "ACTIVATED", time.Second)
	r.ObserveSequence("trigger", "ACTIVATED", time.Second)
	r.ObserveSequence("reset", "REJECTED", time.Millisecond)

	require.InDelta(t, 2, testutil.ToFloat64(r.sequences.WithLabelValues("trigger", "ACTIVATED")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(r.sequences.WithLabelValues("reset", "REJECTED")), 0)
}

// TestStateGaugeFollowsTransitions keeps the gauge one-hot across transitions.
func TestStateGaugeFollowsTransitions(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.RecordState(safety.StateNormal)

	require.InDelta(t, 1, testutil.ToFloat64(r.currentState.WithLabelValues("NORMAL")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(r.currentState.WithLabelValues("EMERGENCY_STOP")), 0)

	r.OnTransition(context.Background(), safety.TransitionRecord{
		From: safety.StateNormal,
		To:   safety.StateEmergencyStop,
	})

	require.InDelta(t, 0, testutil.ToFloat64(r.currentState.WithLabelValues("NORMAL")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(r.currentState.WithLabelValues("EMERGENCY_STOP")), 0)
}
