package hal

import (
	"context"
	"sync"
	"time"

	"github.com/gvarobotics/estop-controller/internal/logger"
)

// DefaultRelayDelay is the travel time of the electromechanical power relay.
const DefaultRelayDelay = 350 * time.Millisecond

// SimulatedRelay emulates the vehicle's power controller. In production the
// controller talks to the PLC over CANbus or Modbus; the simulation keeps
// the same contract and latency profile so the orchestration above it
// behaves identically.
type SimulatedRelay struct {
	// unitID identifies the vehicle in actuation results.
	unitID string
	// delay is the relay travel time applied to every actuation.
	delay time.Duration
	// failCut forces Cut to report a fault.
	failCut bool
	// failReenergize forces Reenergize to report a fault.
	failReenergize bool

	// mu protects relay.
	mu sync.Mutex
	// relay is the current relay position. Vehicles power up energized.
	relay RelayState
}

// RelayOption customises a SimulatedRelay.
type RelayOption func(*SimulatedRelay)

// WithDelay overrides the relay travel time.
func WithDelay(d time.Duration) RelayOption {
	return func(r *SimulatedRelay) {
		r.delay = d
	}
}

// WithCutFault makes every Cut report a fault without moving the relay.
func WithCutFault() RelayOption {
	return func(r *SimulatedRelay) {
		r.failCut = true
	}
}

// WithReenergizeFault makes every Reenergize report a fault without moving the relay.
func WithReenergizeFault() RelayOption {
	return func(r *SimulatedRelay) {
		r.failReenergize = true
	}
}

// NewSimulatedRelay returns a relay for the given unit, starting closed.
func NewSimulatedRelay(unitID string, opts ...RelayOption) *SimulatedRelay {
	r := &SimulatedRelay{
		unitID: unitID,
		delay:  DefaultRelayDelay,
		relay:  RelayClosed,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// State returns the current relay position.
func (r *SimulatedRelay) State() RelayState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.relay
}

// Cut opens the power relay. The call blocks for the relay travel time and
// is not cancellable once started, mirroring the physical actuation.
func (r *SimulatedRelay) Cut(ctx context.Context) (*ActuationResult, error) {
	logger.InfoKV(ctx, "Sending CUT to power controller", "unit_id", r.unitID)

	return r.actuate(ctx, RelayOpen, r.failCut)
}

// Reenergize closes the power relay, restoring motive power.
func (r *SimulatedRelay) Reenergize(ctx context.Context) (*ActuationResult, error) {
	logger.InfoKV(ctx, "Restoring motive power", "unit_id", r.unitID)

	return r.actuate(ctx, RelayClosed, r.failReenergize)
}

// actuate moves the relay to target after the travel delay, or reports a
// fault leaving the relay where it is.
func (r *SimulatedRelay) actuate(ctx context.Context, target RelayState, fault bool) (*ActuationResult, error) {
	time.Sleep(r.delay)

	r.mu.Lock()
	defer r.mu.Unlock()

	if fault {
		logger.ErrorKV(ctx, "Relay actuation fault", "unit_id", r.unitID, "target", target)

		return &ActuationResult{
			Relay:     r.relay,
			Success:   false,
			UnitID:    r.unitID,
			Timestamp: time.Now(),
		}, ErrRelayFault
	}

	r.relay = target

	logger.InfoKV(ctx, "Relay actuated", "unit_id", r.unitID, "relay", target)

	return &ActuationResult{
		Relay:     target,
		Success:   true,
		UnitID:    r.unitID,
		Timestamp: time.Now(),
	}, nil
}
