package bus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
	"github.com/gvarobotics/estop-controller/internal/hal"
	"github.com/gvarobotics/estop-controller/internal/orchestrator"
)

// fakeService is a scripted Service implementation.
type fakeService struct {
	triggerResult *orchestrator.TriggerResult
	resetResult   *orchestrator.ResetResult
	current       safety.State
	records       []safety.TransitionRecord

	triggers int
	resets   int
}

func (f *fakeService) Trigger(context.Context) *orchestrator.TriggerResult {
	f.triggers++

	return f.triggerResult
}

func (f *fakeService) Reset(context.Context) *orchestrator.ResetResult {
	f.resets++

	return f.resetResult
}

func (f *fakeService) CurrentState() safety.State {
	return f.current
}

func (f *fakeService) History() []safety.TransitionRecord {
	return f.records
}

// TestCommandSubject checks the subject layout.
func TestCommandSubject(t *testing.T) {
	t.Parallel()

	require.Equal(t, "estop.GVA-07.cmd.trigger", CommandSubject("GVA-07", CommandTrigger))
	require.Equal(t, "estop.GVA-07.cmd.history", CommandSubject("GVA-07", CommandHistory))
}

// TestTriggerCommand runs a validated trigger request through the handler.
func TestTriggerCommand(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		triggerResult: &orchestrator.TriggerResult{
			Status:   orchestrator.TriggerActivated,
			Power:    &hal.ActuationResult{Relay: hal.RelayOpen, Success: true},
			Duration: 1050 * time.Millisecond,
		},
		current: safety.StateEmergencyStop,
	}
	h := NewHandler(svc, nil)

	body, err := json.Marshal(TriggerRequest{RequestedBy: "operator@panel-3"})
	require.NoError(t, err)

	reply, ok := h.trigger(context.Background(), body).(SequenceReply)
	require.True(t, ok)
	require.Equal(t, 1, svc.triggers)
	require.Equal(t, "ACTIVATED", reply.Status)
	require.Equal(t, "OPEN", reply.Relay)
	require.Equal(t, "EMERGENCY_STOP", reply.State)
	require.Equal(t, int64(1050), reply.DurationMS)
	require.Empty(t, reply.Error)
}

// TestTriggerCommandRejectsInvalidBody ensures bad requests never reach the service.
func TestTriggerCommandRejectsInvalidBody(t *testing.T) {
	t.Parallel()

	svc := &fakeService{current: safety.StateNormal}
	h := NewHandler(svc, nil)

	// Not JSON.
	reply, ok := h.trigger(context.Background(), []byte("not json")).(ErrorReply)
	require.True(t, ok)
	require.Contains(t, reply.Error, "decode request")

	// Missing requested_by.
	reply, ok = h.trigger(context.Background(), []byte(`{}`)).(ErrorReply)
	require.True(t, ok)
	require.Contains(t, reply.Error, "invalid request")

	require.Zero(t, svc.triggers)
}

// TestResetCommandCarriesFailure surfaces a failed recovery in the reply.
func TestResetCommandCarriesFailure(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		resetResult: &orchestrator.ResetResult{
			Status:   orchestrator.ResetFailed,
			Err:      orchestrator.ErrPowerActuation,
			Duration: 350 * time.Millisecond,
		},
		current: safety.StateRestoring,
	}
	h := NewHandler(svc, nil)

	body, err := json.Marshal(ResetRequest{RequestedBy: "operator@panel-3"})
	require.NoError(t, err)

	reply, ok := h.reset(context.Background(), body).(SequenceReply)
	require.True(t, ok)
	require.Equal(t, "FAILED", reply.Status)
	require.Equal(t, "RESTORING", reply.State)
	require.Contains(t, reply.Error, "power actuation failed")
}

// TestStateAndHistoryCommands reads the passive surface.
func TestStateAndHistoryCommands(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	svc := &fakeService{
		current: safety.StateEmergencyStop,
		records: []safety.TransitionRecord{
			{From: safety.StateNormal, To: safety.StateEmergencyStop, Timestamp: stamp},
		},
	}
	h := NewHandler(svc, nil)

	stateReply, ok := h.state(context.Background(), nil).(StateReply)
	require.True(t, ok)
	require.Equal(t, "EMERGENCY_STOP", stateReply.State)

	historyReply, ok := h.history(context.Background(), nil).(HistoryReply)
	require.True(t, ok)
	require.Len(t, historyReply.Records, 1)
	require.Equal(t, "NORMAL", historyReply.Records[0].From)
	require.Equal(t, "EMERGENCY_STOP", historyReply.Records[0].To)
	require.Equal(t, stamp, historyReply.Records[0].Timestamp)
}
