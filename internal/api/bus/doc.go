// Package bus exposes the agent's operable surface over NATS request/reply:
// trigger, reset, state and history, one subject per command and unit.
package bus
