package safety

import "errors"

// State is the safety state of the vehicle. The set of values is closed;
// exactly one is current at any time.
type State string

// Safety states of the vehicle.
const (
	// StateNormal means the vehicle operates normally with motive power available.
	StateNormal State = "NORMAL"
	// StateEmergencyStop means motive power has been cut and the vehicle is halted.
	StateEmergencyStop State = "EMERGENCY_STOP"
	// StateRestoring means the vehicle is recovering from an emergency stop.
	StateRestoring State = "RESTORING"
)

// ErrInvalidTransition is returned when a requested state change is not an
// edge of the transition table.
var ErrInvalidTransition = errors.New("invalid state transition")

// transitions is the fixed table of permitted state changes. The safety
// cycle is a strict ring: every state has exactly one successor and no
// other edges exist.
var transitions = map[State]State{
	StateNormal:        StateEmergencyStop,
	StateEmergencyStop: StateRestoring,
	StateRestoring:     StateNormal,
}

// Valid reports whether s is one of the known safety states.
func (s State) Valid() bool {
	_, ok := transitions[s]

	return ok
}

// String returns the wire representation of the state.
func (s State) String() string {
	return string(s)
}

// CanTransition reports whether the edge (from, to) is permitted by the
// transition table.
func CanTransition(from, to State) bool {
	next, ok := transitions[from]

	return ok && next == to
}
