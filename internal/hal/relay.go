package hal

import (
	"context"
	"errors"
	"time"
)

// RelayState is the position of the motive power relay.
type RelayState string

const (
	// RelayClosed means the relay is energized and the motor has power.
	RelayClosed RelayState = "CLOSED"
	// RelayOpen means the relay is de-energized and motive power is cut.
	RelayOpen RelayState = "OPEN"
)

// ErrRelayFault is returned when the power controller reports that an
// actuation did not complete.
var ErrRelayFault = errors.New("relay actuation fault")

// ActuationResult describes the outcome of one relay actuation.
type ActuationResult struct {
	// Relay is the position the relay is in after the actuation.
	Relay RelayState
	// Success reports whether the actuation was verified complete.
	Success bool
	// UnitID is the vehicle the relay belongs to.
	UnitID string
	// Timestamp is when the actuation finished.
	Timestamp time.Time
}

// PowerController abstracts the hardware that removes and restores motive
// power. Calls are latency-bearing and must run to completion once started;
// implementations own their timeout policy.
type PowerController interface {
	// Cut opens the power relay, removing motive power.
	Cut(ctx context.Context) (*ActuationResult, error)
	// Reenergize closes the power relay, restoring motive power.
	Reenergize(ctx context.Context) (*ActuationResult, error)
}
