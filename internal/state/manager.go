package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/gvarobotics/estop-controller/internal/domain/safety"
	"github.com/gvarobotics/estop-controller/internal/logger"
)

// Observer receives committed transitions. Dispatch is synchronous and in
// registration order; implementations must not call back into the Manager.
type Observer interface {
	OnTransition(ctx context.Context, record safety.TransitionRecord)
}

// Manager owns the current safety state and its transition history. It is
// the only shared mutable resource of the controller and enforces a
// single-writer discipline: every read and every transition goes through
// one mutex, so current state and history can never be observed out of sync.
type Manager struct {
	// mu protects current, history, observers and lastStamp.
	mu sync.Mutex
	// current is the state the vehicle is in right now. It always equals
	// the To field of the last history entry, or StateNormal when the
	// history is empty.
	current safety.State
	// history is the append-only sequence of committed transitions.
	history []safety.TransitionRecord
	// observers are notified synchronously on every committed transition.
	observers []Observer
	// lastStamp is the timestamp of the last committed record, kept to
	// guarantee strictly increasing record timestamps.
	lastStamp time.Time
	// transitionDelay emulates the commit latency of the embedded state
	// store. Zero in production wiring, non-zero in latency scenarios.
	transitionDelay time.Duration
}

// Option customises a Manager.
type Option func(*Manager)

// WithTransitionDelay makes every transition take at least d before it
// commits, emulating the embedded system's state store latency.
func WithTransitionDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.transitionDelay = d
	}
}

// NewManager returns a Manager starting in StateNormal with an empty history.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		current: safety.StateNormal,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Current returns the state the vehicle is in right now.
func (m *Manager) Current() safety.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.current
}

// Transition validates the edge (current, target) against the transition
// table and commits it. On success it appends a TransitionRecord, updates
// the current state, notifies every observer with the record and returns it.
// On a disallowed edge it returns safety.ErrInvalidTransition and leaves
// the Manager untouched.
//
// A started transition is not cancellable; the context is used for logging
// scope only.
func (m *Manager) Transition(ctx context.Context, target safety.State) (safety.TransitionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !safety.CanTransition(m.current, target) {
		return safety.TransitionRecord{}, fmt.Errorf(
			"%w: %s -> %s", safety.ErrInvalidTransition, m.current, target,
		)
	}

	if m.transitionDelay > 0 {
		time.Sleep(m.transitionDelay)
	}

	// Clamp against the previous record so timestamps are strictly
	// increasing even if the wall clock stalls.
	timestamp := time.Now()
	if !timestamp.After(m.lastStamp) {
		timestamp = m.lastStamp.Add(time.Nanosecond)
	}

	m.lastStamp = timestamp

	record := safety.TransitionRecord{
		From:      m.current,
		To:        target,
		Timestamp: timestamp,
	}

	m.history = append(m.history, record)
	m.current = target

	logger.InfoKV(ctx, "Safety state changed", "from", record.From, "to", record.To)

	m.notify(ctx, record)

	return record, nil
}

// Subscribe appends an observer to the dispatch list. There is no upper
// bound on the number of observers.
func (m *Manager) Subscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.observers = append(m.observers, observer)
}

// Unsubscribe removes an observer by identity. Unknown observers are ignored.
func (m *Manager) Unsubscribe(observer Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, registered := range m.observers {
		if registered == observer {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)

			return
		}
	}
}

// History returns a copy of the transition history. Mutating the returned
// slice does not affect the Manager.
func (m *Manager) History() []safety.TransitionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]safety.TransitionRecord(nil), m.history...)
}

// ResetHistory clears the history and forces the state back to StateNormal
// without validation. It exists for administrative and test setups only and
// must never be reachable from triggering logic.
func (m *Manager) ResetHistory(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
	m.current = safety.StateNormal
	m.lastStamp = time.Time{}

	logger.Warn(ctx, "Safety state history reset to NORMAL")
}

// notify dispatches the record to every observer in registration order.
// A panicking observer is reported and skipped; the transition it observed
// is already committed and is never rolled back.
func (m *Manager) notify(ctx context.Context, record safety.TransitionRecord) {
	for _, observer := range m.observers {
		observer := observer

		if recovered := panics.Try(func() {
			observer.OnTransition(ctx, record)
		}); recovered != nil {
			logger.ErrorKV(ctx, "State observer panicked", "error", recovered.AsError())
		}
	}
}
