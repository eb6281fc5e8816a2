package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gvarobotics/estop-controller/internal/api/bus"
)

// TestDetectOperator returns a user@host identity on any supported platform.
func TestDetectOperator(t *testing.T) {
	t.Parallel()

	operator, err := DetectOperator()
	require.NoError(t, err)
	require.Contains(t, operator, "@")
}

// TestSequenceDuration converts the wire milliseconds back to a duration.
func TestSequenceDuration(t *testing.T) {
	t.Parallel()

	reply := &bus.SequenceReply{DurationMS: 1050}
	require.Equal(t, 1050*time.Millisecond, sequenceDuration(reply))
}

// TestDecodeReplyKeepsRejectedSequence decodes a rejected sequence reply
// with its status and cause intact instead of mistaking it for an agent
// rejection of the request itself.
func TestDecodeReplyKeepsRejectedSequence(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(bus.SequenceReply{
		Status: "REJECTED",
		State:  "EMERGENCY_STOP",
		Error:  "trigger permitted only from NORMAL",
	})
	require.NoError(t, err)

	reply, err := decodeReply[bus.SequenceReply](data)
	require.NoError(t, err)
	require.Equal(t, "REJECTED", reply.Status)
	require.Equal(t, "EMERGENCY_STOP", reply.State)
	require.Equal(t, "trigger permitted only from NORMAL", reply.Error)
}

// TestDecodeReplyKeepsFailedSequence decodes a failed sequence reply so the
// CLI can render its relay position and duration.
func TestDecodeReplyKeepsFailedSequence(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(bus.SequenceReply{
		Status:     "FAILED",
		Relay:      "CLOSED",
		State:      "NORMAL",
		DurationMS: 350,
		Error:      "power actuation failed: relay fault",
	})
	require.NoError(t, err)

	reply, err := decodeReply[bus.SequenceReply](data)
	require.NoError(t, err)
	require.Equal(t, "FAILED", reply.Status)
	require.Equal(t, "CLOSED", reply.Relay)
	require.Equal(t, int64(350), reply.DurationMS)
}

// TestDecodeReplyDetectsInvalidRequest surfaces the agent's error reply,
// which carries a cause but no status.
func TestDecodeReplyDetectsInvalidRequest(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(bus.ErrorReply{Error: "invalid request: requested_by is required"})
	require.NoError(t, err)

	_, err = decodeReply[bus.SequenceReply](data)
	require.ErrorContains(t, err, "agent rejected request")
	require.ErrorContains(t, err, "requested_by is required")
}

// TestErrorFromReply folds agent-reported causes into the CLI error.
func TestErrorFromReply(t *testing.T) {
	t.Parallel()

	err := errorFromReply(&bus.SequenceReply{Status: "REJECTED", Error: "trigger permitted only from NORMAL"})
	require.ErrorIs(t, err, ErrSequenceNotCompleted)
	require.Contains(t, err.Error(), "trigger permitted only from NORMAL")

	require.ErrorIs(t, errorFromReply(&bus.SequenceReply{Status: "FAILED"}), ErrSequenceNotCompleted)
}
