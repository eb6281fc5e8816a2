package safety

import "time"

// TransitionRecord is an immutable entry of the transition history. Records
// are appended on every committed state change and never mutated afterwards.
type TransitionRecord struct {
	// From is the state the vehicle left.
	From State
	// To is the state the vehicle entered.
	To State
	// Timestamp is when the transition was committed. Timestamps are
	// strictly increasing within one history.
	Timestamp time.Time
}
