// Package orchestrator coordinates the emergency-stop sequence of a cargo
// vehicle: power cut, state transition, notification — strictly in that
// order, with guard clauses that reject invalid calls without side effects.
//
// The policy is fail-safe on power and state (the stop is never claimed
// unless power is verified cut) and fail-soft on notification (a broken
// broker cannot prevent or hide a stop).
package orchestrator
