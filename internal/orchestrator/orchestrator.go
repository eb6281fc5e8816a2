package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
	"github.com/gvarobotics/estop-controller/internal/hal"
	"github.com/gvarobotics/estop-controller/internal/logger"
	"github.com/gvarobotics/estop-controller/internal/notifier"
	"github.com/gvarobotics/estop-controller/internal/state"
)

// Config describes the unit the orchestrator controls. The fields are
// descriptive only: they are carried into notification payloads and never
// drive control-flow decisions.
type Config struct {
	// BrokerAddress is the message bus the unit reports to.
	BrokerAddress string
	// UnitID identifies the vehicle.
	UnitID string
	// Sector is the operating sector of the vehicle.
	Sector string
}

// Orchestrator is the single entry point for triggering an emergency stop
// and resetting back to normal operation. It drives the power controller,
// the state manager and the notifier strictly in that order, fail-safe on
// power and state, fail-soft on notification.
type Orchestrator struct {
	// cfg describes the unit, carried into notification payloads.
	cfg Config
	// state owns the current safety state and transition history.
	state *state.Manager
	// power removes and restores motive power.
	power hal.PowerController
	// publisher announces state changes to external observers.
	publisher notifier.Publisher

	// mu protects inFlight.
	mu sync.Mutex
	// inFlight marks a sequence in progress. It closes the window where a
	// second trigger could slip past the state guard while the first one
	// has cut power but not yet committed the transition.
	inFlight bool
}

// Option customises orchestrator construction.
type Option func(*Orchestrator)

// WithStateManager replaces the orchestrator's state manager. Used to
// configure commit latency; the manager must be freshly constructed.
func WithStateManager(m *state.Manager) Option {
	return func(o *Orchestrator) {
		o.state = m
	}
}

// New wires an orchestrator with its own state manager and the injected
// collaborators. This is the only construction path.
func New(cfg Config, power hal.PowerController, publisher notifier.Publisher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		state:     state.NewManager(),
		power:     power,
		publisher: publisher,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// CurrentState returns the safety state the vehicle is in right now.
func (o *Orchestrator) CurrentState() safety.State {
	return o.state.Current()
}

// History returns a copy of the transition history.
func (o *Orchestrator) History() []safety.TransitionRecord {
	return o.state.History()
}

// Subscribe registers an observer for committed state transitions.
func (o *Orchestrator) Subscribe(observer state.Observer) {
	o.state.Subscribe(observer)
}

// Unsubscribe removes a previously registered observer.
func (o *Orchestrator) Unsubscribe(observer state.Observer) {
	o.state.Unsubscribe(observer)
}

// Trigger runs the emergency-stop sequence: cut power, commit the state
// transition, notify observers. Guards reject the call with no side effects
// when a sequence is already in flight or the vehicle is not in NORMAL
// operation. Once a step has started it runs to completion; steps execute
// strictly in order because each depends causally on the previous one.
//
// The outcome is always reported through the result, never through a
// panic or an error return: operator surfaces must be able to render
// every variant, including the failures.
func (o *Orchestrator) Trigger(ctx context.Context) *TriggerResult {
	ctx = logger.WithName(ctx, "orchestrator")

	if !o.begin() {
		return &TriggerResult{
			Status:    TriggerRejected,
			Err:       ErrSequenceInFlight,
			Timestamp: time.Now(),
		}
	}
	defer o.end()

	if current := o.state.Current(); current != safety.StateNormal {
		logger.WarnKV(ctx, "Trigger rejected", "current_state", current)

		return &TriggerResult{
			Status:    TriggerRejected,
			Err:       fmt.Errorf("%w: current state is %s", ErrNotNormal, current),
			Timestamp: time.Now(),
		}
	}

	logger.Warn(ctx, "Emergency stop sequence started")

	var duration time.Duration

	// Step 1/3: cut motive power. If the cut is not verified the sequence
	// aborts here: the state must never claim EMERGENCY_STOP while power
	// may still be on.
	stepStart := time.Now()
	power, powerErr := o.power.Cut(ctx)
	duration += time.Since(stepStart)

	if powerErr == nil && (power == nil || !power.Success) {
		powerErr = hal.ErrRelayFault
	}

	if powerErr != nil {
		logger.ErrorKV(ctx, "Power cut failed, sequence aborted", "error", powerErr)

		return &TriggerResult{
			Status:    TriggerFailed,
			Power:     power,
			Err:       fmt.Errorf("%w: %v", ErrPowerActuation, powerErr),
			Duration:  duration,
			Timestamp: time.Now(),
		}
	}

	// Step 2/3: commit the state transition. The guard already verified
	// NORMAL and the in-flight flag excludes concurrent writers, so a
	// failure here means power is off while the tracked state disagrees.
	stepStart = time.Now()
	record, transitionErr := o.state.Transition(ctx, safety.StateEmergencyStop)
	duration += time.Since(stepStart)

	if transitionErr != nil {
		logger.ErrorKV(ctx, "State transition failed after power cut, power is OFF but state is stale",
			"error", transitionErr)

		return &TriggerResult{
			Status:    TriggerFailed,
			Power:     power,
			Err:       fmt.Errorf("%w: %v", ErrStateDesync, transitionErr),
			Duration:  duration,
			Timestamp: time.Now(),
		}
	}

	// Step 3/3: announce the stop. A broken broker must never reverse or
	// hide a stop that already happened, so failures here are recorded in
	// the result but the sequence still reports ACTIVATED.
	stepStart = time.Now()
	receipt, notifyErr := o.publisher.Publish(ctx, notifier.Event{
		UnitID:    o.cfg.UnitID,
		Sector:    o.cfg.Sector,
		State:     safety.StateEmergencyStop,
		Timestamp: record.Timestamp,
		Elapsed:   duration,
	})
	duration += time.Since(stepStart)

	if notifyErr != nil {
		logger.ErrorKV(ctx, "Stop is active but notification failed", "error", notifyErr)

		notifyErr = fmt.Errorf("publish emergency event: %w", notifyErr)
	}

	logger.WarnKV(ctx, "Emergency stop completed", "duration", duration)

	return &TriggerResult{
		Status:     TriggerActivated,
		Power:      power,
		Transition: &record,
		Receipt:    receipt,
		NotifyErr:  notifyErr,
		Duration:   duration,
		Timestamp:  time.Now(),
	}
}

// Reset runs the recovery sequence: transition to RESTORING, re-energize
// the relay, transition to NORMAL, then announce the restoration. It is
// valid only from EMERGENCY_STOP. When re-energizing fails the vehicle
// stays in RESTORING and the result reports FAILED; the system must not
// claim NORMAL while power is not confirmed restored. No automatic retry
// is attempted.
func (o *Orchestrator) Reset(ctx context.Context) *ResetResult {
	ctx = logger.WithName(ctx, "orchestrator")

	if !o.begin() {
		return &ResetResult{
			Status:    ResetRejected,
			Err:       ErrSequenceInFlight,
			Timestamp: time.Now(),
		}
	}
	defer o.end()

	if current := o.state.Current(); current != safety.StateEmergencyStop {
		logger.WarnKV(ctx, "Reset rejected", "current_state", current)

		return &ResetResult{
			Status:    ResetRejected,
			Err:       fmt.Errorf("%w: current state is %s", ErrNotStopped, current),
			Timestamp: time.Now(),
		}
	}

	logger.Info(ctx, "Recovery sequence started")

	var duration time.Duration

	stepStart := time.Now()
	_, transitionErr := o.state.Transition(ctx, safety.StateRestoring)
	duration += time.Since(stepStart)

	if transitionErr != nil {
		return &ResetResult{
			Status:    ResetFailed,
			Err:       fmt.Errorf("%w: %v", ErrStateDesync, transitionErr),
			Duration:  duration,
			Timestamp: time.Now(),
		}
	}

	stepStart = time.Now()
	power, powerErr := o.power.Reenergize(ctx)
	duration += time.Since(stepStart)

	if powerErr == nil && (power == nil || !power.Success) {
		powerErr = hal.ErrRelayFault
	}

	if powerErr != nil {
		logger.ErrorKV(ctx, "Re-energize failed, vehicle stays in RESTORING", "error", powerErr)

		return &ResetResult{
			Status:    ResetFailed,
			Power:     power,
			Err:       fmt.Errorf("%w: %v", ErrPowerActuation, powerErr),
			Duration:  duration,
			Timestamp: time.Now(),
		}
	}

	stepStart = time.Now()
	record, transitionErr := o.state.Transition(ctx, safety.StateNormal)
	duration += time.Since(stepStart)

	if transitionErr != nil {
		return &ResetResult{
			Status:    ResetFailed,
			Power:     power,
			Err:       fmt.Errorf("%w: %v", ErrStateDesync, transitionErr),
			Duration:  duration,
			Timestamp: time.Now(),
		}
	}

	// Restoration is announced fail-soft, same policy as the stop itself.
	stepStart = time.Now()
	_, notifyErr := o.publisher.Publish(ctx, notifier.Event{
		UnitID:    o.cfg.UnitID,
		Sector:    o.cfg.Sector,
		State:     safety.StateNormal,
		Timestamp: record.Timestamp,
		Elapsed:   duration,
	})
	duration += time.Since(stepStart)

	if notifyErr != nil {
		logger.ErrorKV(ctx, "Vehicle restored but notification failed", "error", notifyErr)

		notifyErr = fmt.Errorf("publish restore event: %w", notifyErr)
	}

	logger.InfoKV(ctx, "Recovery completed", "duration", duration)

	return &ResetResult{
		Status:    ResetRestored,
		Power:     power,
		NotifyErr: notifyErr,
		Duration:  duration,
		Timestamp: time.Now(),
	}
}

// begin marks a sequence as in flight. It returns false when another
// sequence holds the slot.
func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inFlight {
		return false
	}

	o.inFlight = true

	return true
}

// end releases the in-flight slot.
func (o *Orchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.inFlight = false
}
