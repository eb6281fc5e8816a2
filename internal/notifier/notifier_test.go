package notifier

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
)

// TestEventSubject maps states to their broker subjects.
func TestEventSubject(t *testing.T) {
	t.Parallel()

	require.Equal(t, "estop.GVA-07.event.emergency", EventSubject("GVA-07", safety.StateEmergencyStop))
	require.Equal(t, "estop.GVA-07.event.restore", EventSubject("GVA-07", safety.StateNormal))
	require.Equal(t, "estop.GVA-07.event.state", EventSubject("GVA-07", safety.StateRestoring))
}

// TestEventWirePayload checks the JSON shape consumed by external observers.
func TestEventWirePayload(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	event := Event{
		UnitID:    "GVA-07",
		Sector:    "ALMACEN-3",
		State:     safety.StateEmergencyStop,
		Timestamp: stamp,
		Elapsed:   1050 * time.Millisecond,
	}

	data, err := json.Marshal(event.wirePayload())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, "GVA-07", decoded["unit_id"])
	require.Equal(t, "ALMACEN-3", decoded["sector"])
	require.Equal(t, "EMERGENCY_STOP", decoded["state"])
	require.Equal(t, float64(1050), decoded["elapsed_ms"])
	require.Equal(t, stamp.Format(time.RFC3339), decoded["timestamp"])
}
