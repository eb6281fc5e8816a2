package integration

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
	"github.com/gvarobotics/estop-controller/internal/hal"
	"github.com/gvarobotics/estop-controller/internal/metrics"
	"github.com/gvarobotics/estop-controller/internal/notifier"
	"github.com/gvarobotics/estop-controller/internal/orchestrator"
	"github.com/gvarobotics/estop-controller/internal/state"
)

// capturePublisher records every event instead of talking to a broker.
type capturePublisher struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (p *capturePublisher) Publish(_ context.Context, event notifier.Event) (*notifier.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return &notifier.Receipt{
		Acked:   true,
		Subject: notifier.EventSubject(event.UnitID, event.State),
	}, nil
}

func (p *capturePublisher) captured() []notifier.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]notifier.Event(nil), p.events...)
}

func newOrchestrator(relay *hal.SimulatedRelay, publisher notifier.Publisher) *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.Config{
			BrokerAddress: "nats://127.0.0.1:4222",
			UnitID:        "GVA-07",
			Sector:        "ALMACEN-3",
		},
		relay,
		publisher,
		orchestrator.WithStateManager(state.NewManager(state.WithTransitionDelay(time.Millisecond))),
	)
}

func TestFullStopAndRecoveryCycle(t *testing.T) {
	t.Parallel()

	relay := hal.NewSimulatedRelay("GVA-07", hal.WithDelay(time.Millisecond))
	publisher := &capturePublisher{}
	orch := newOrchestrator(relay, publisher)

	ctx := context.Background()

	require.Equal(t, safety.StateNormal, orch.CurrentState())
	require.Equal(t, hal.RelayClosed, relay.State())

	// Stop.
	trigger := orch.Trigger(ctx)
	require.Equal(t, orchestrator.TriggerActivated, trigger.Status)
	require.NoError(t, trigger.Err)
	require.NoError(t, trigger.NotifyErr)
	require.Equal(t, safety.StateEmergencyStop, orch.CurrentState())
	require.Equal(t, hal.RelayOpen, relay.State())
	require.True(t, trigger.Receipt.Acked)

	// Recover.
	reset := orch.Reset(ctx)
	require.Equal(t, orchestrator.ResetRestored, reset.Status)
	require.NoError(t, reset.Err)
	require.Equal(t, safety.StateNormal, orch.CurrentState())
	require.Equal(t, hal.RelayClosed, relay.State())

	// Full cycle leaves three transitions, oldest first, monotonically stamped.
	history := orch.History()
	require.Len(t, history, 3)
	require.Equal(t, safety.StateEmergencyStop, history[0].To)
	require.Equal(t, safety.StateRestoring, history[1].To)
	require.Equal(t, safety.StateNormal, history[2].To)

	for i := 1; i < len(history); i++ {
		require.True(t, history[i].Timestamp.After(history[i-1].Timestamp))
	}

	// One emergency event and one restore event, carrying the unit identity.
	events := publisher.captured()
	require.Len(t, events, 2)
	require.Equal(t, safety.StateEmergencyStop, events[0].State)
	require.Equal(t, safety.StateNormal, events[1].State)

	for _, event := range events {
		require.Equal(t, "GVA-07", event.UnitID)
		require.Equal(t, "ALMACEN-3", event.Sector)
	}
}

func TestFailedRecoveryKeepsVehicleStopped(t *testing.T) {
	t.Parallel()

	relay := hal.NewSimulatedRelay("GVA-07",
		hal.WithDelay(time.Millisecond),
		hal.WithReenergizeFault(),
	)
	publisher := &capturePublisher{}
	orch := newOrchestrator(relay, publisher)

	ctx := context.Background()

	trigger := orch.Trigger(ctx)
	require.Equal(t, orchestrator.TriggerActivated, trigger.Status)

	reset := orch.Reset(ctx)
	require.Equal(t, orchestrator.ResetFailed, reset.Status)
	require.ErrorIs(t, reset.Err, orchestrator.ErrPowerActuation)

	// Power is still off, the vehicle stays in RESTORING and a later reset
	// attempt is rejected rather than retried.
	require.Equal(t, hal.RelayOpen, relay.State())
	require.Equal(t, safety.StateRestoring, orch.CurrentState())

	again := orch.Reset(ctx)
	require.Equal(t, orchestrator.ResetRejected, again.Status)

	// No restore event was announced for the failed recovery.
	events := publisher.captured()
	require.Len(t, events, 1)
	require.Equal(t, safety.StateEmergencyStop, events[0].State)
}

func TestMetricsFollowFullCycle(t *testing.T) {
	t.Parallel()

	relay := hal.NewSimulatedRelay("GVA-07", hal.WithDelay(time.Millisecond))
	publisher := &capturePublisher{}
	orch := newOrchestrator(relay, publisher)

	recorder := metrics.NewRecorder()
	recorder.RecordState(orch.CurrentState())
	orch.Subscribe(recorder)

	ctx := context.Background()

	trigger := orch.Trigger(ctx)
	require.Equal(t, orchestrator.TriggerActivated, trigger.Status)

	expected := strings.NewReader(`
# HELP estop_current_state One-hot encoding of the current safety state.
# TYPE estop_current_state gauge
estop_current_state{state="EMERGENCY_STOP"} 1
estop_current_state{state="NORMAL"} 0
estop_current_state{state="RESTORING"} 0
`)
	require.NoError(t, testutil.GatherAndCompare(recorder.Registry(), expected, "estop_current_state"))

	reset := orch.Reset(ctx)
	require.Equal(t, orchestrator.ResetRestored, reset.Status)

	expected = strings.NewReader(`
# HELP estop_current_state One-hot encoding of the current safety state.
# TYPE estop_current_state gauge
estop_current_state{state="EMERGENCY_STOP"} 0
estop_current_state{state="NORMAL"} 1
estop_current_state{state="RESTORING"} 0
`)
	require.NoError(t, testutil.GatherAndCompare(recorder.Registry(), expected, "estop_current_state"))
}
