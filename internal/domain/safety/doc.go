// Package safety contains the core domain types of the emergency-stop
// controller: the closed set of safety states, the fixed transition table,
// and the immutable TransitionRecord history entry.
package safety
