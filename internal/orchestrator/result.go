package orchestrator

import (
	"time"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
	"github.com/gvarobotics/estop-controller/internal/hal"
	"github.com/gvarobotics/estop-controller/internal/notifier"
)

// TriggerStatus is the aggregate outcome of an emergency-stop sequence.
type TriggerStatus string

const (
	// TriggerActivated means power is verified cut and the safety state is
	// EMERGENCY_STOP. A notification failure does not revoke this status.
	TriggerActivated TriggerStatus = "ACTIVATED"
	// TriggerRejected means a guard refused the call before any side effect.
	TriggerRejected TriggerStatus = "REJECTED"
	// TriggerFailed means a safety-critical step failed mid-sequence.
	TriggerFailed TriggerStatus = "FAILED"
)

// ResetStatus is the aggregate outcome of a recovery sequence.
type ResetStatus string

const (
	// ResetRestored means power is verified restored and the state is NORMAL.
	ResetRestored ResetStatus = "RESTORED"
	// ResetRejected means a guard refused the call before any side effect.
	ResetRejected ResetStatus = "REJECTED"
	// ResetFailed means recovery stopped partway; the vehicle stays in
	// RESTORING until an operator intervenes.
	ResetFailed ResetStatus = "FAILED"
)

// TriggerResult aggregates the outcome of one emergency-stop sequence. It is
// built once per call and never shared across calls.
type TriggerResult struct {
	// Status is the aggregate outcome.
	Status TriggerStatus
	// Power is the relay actuation outcome, nil when the sequence never
	// reached the power step.
	Power *hal.ActuationResult
	// Transition is the committed state change, nil unless it was reached.
	Transition *safety.TransitionRecord
	// Receipt is the broker receipt for the emergency event, nil when
	// publishing was not reached or failed.
	Receipt *notifier.Receipt
	// NotifyErr records a failed notification. It is non-fatal: the stop
	// itself succeeded whenever Status is TriggerActivated.
	NotifyErr error
	// Err is the cause of a rejection or failure.
	Err error
	// Duration is the summed latency of the executed steps.
	Duration time.Duration
	// Timestamp is when the result was produced.
	Timestamp time.Time
}

// ResetResult aggregates the outcome of one recovery sequence.
type ResetResult struct {
	// Status is the aggregate outcome.
	Status ResetStatus
	// Power is the re-energize outcome, nil when that step was not reached.
	Power *hal.ActuationResult
	// NotifyErr records a failed restore notification; non-fatal.
	NotifyErr error
	// Err is the cause of a rejection or failure.
	Err error
	// Duration is the summed latency of the executed steps.
	Duration time.Duration
	// Timestamp is when the result was produced.
	Timestamp time.Time
}
