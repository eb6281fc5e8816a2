package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
)

// Event is a safety state change to be announced to external observers.
type Event struct {
	// UnitID is the vehicle the event belongs to.
	UnitID string
	// Sector is the operating sector of the vehicle.
	Sector string
	// State is the safety state the vehicle entered.
	State safety.State
	// Timestamp is when the state was entered.
	Timestamp time.Time
	// Elapsed is how long the sequence had been running when the event
	// was emitted.
	Elapsed time.Duration
}

// Receipt reports whether the broker acknowledged taking the event.
type Receipt struct {
	// Acked is true once the broker confirmed the handoff.
	Acked bool
	// Subject is the subject the event was published to.
	Subject string
}

// Publisher announces safety events to external observers. Publishing is
// latency-bearing; a failed publish must never be able to reverse the
// safety action it reports.
type Publisher interface {
	Publish(ctx context.Context, event Event) (*Receipt, error)
}

// payload is the wire representation of an Event.
type payload struct {
	UnitID    string    `json:"unit_id"`
	Sector    string    `json:"sector"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

// wirePayload converts the event to its wire representation.
func (e Event) wirePayload() payload {
	return payload{
		UnitID:    e.UnitID,
		Sector:    e.Sector,
		State:     e.State.String(),
		Timestamp: e.Timestamp,
		ElapsedMS: e.Elapsed.Milliseconds(),
	}
}

// EventSubject returns the broker subject for a state event of the unit.
// Emergency stops and restorations announce on distinct subjects so
// dashboards can subscribe to alarms only.
func EventSubject(unitID string, s safety.State) string {
	switch s {
	case safety.StateEmergencyStop:
		return fmt.Sprintf("estop.%s.event.emergency", unitID)
	case safety.StateNormal:
		return fmt.Sprintf("estop.%s.event.restore", unitID)
	default:
		return fmt.Sprintf("estop.%s.event.state", unitID)
	}
}
