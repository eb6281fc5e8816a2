package orchestrator

import "errors"

var (
	// ErrSequenceInFlight is returned when a trigger or reset arrives while
	// another sequence is still running. Only one sequence may be in flight.
	ErrSequenceInFlight = errors.New("safety sequence already in flight")

	// ErrNotNormal rejects a trigger issued while the vehicle is not in
	// NORMAL operation. The duplicate must not re-actuate hardware.
	ErrNotNormal = errors.New("trigger permitted only from NORMAL")

	// ErrNotStopped rejects a reset issued while the vehicle is not in
	// EMERGENCY_STOP.
	ErrNotStopped = errors.New("reset permitted only from EMERGENCY_STOP")

	// ErrPowerActuation means the power controller could not verify the
	// requested actuation. The sequence aborts with the safety state
	// unchanged.
	ErrPowerActuation = errors.New("power actuation failed")

	// ErrStateDesync means a state transition failed after its guard had
	// already been validated. Power and tracked state disagree; this is
	// not recoverable by software and must be surfaced loudly.
	ErrStateDesync = errors.New("safety state diverged from power state")
)
