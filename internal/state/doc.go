// Package state implements the safety state manager: current state, the
// append-only transition history and synchronous observer dispatch, all
// behind a single mutex so concurrent trigger and reset attempts can never
// observe a half-applied transition.
package state
