// Package agent wires and runs the on-vehicle e-stop agent: orchestrator,
// simulated relay, bus publisher, command subjects and diagnostics server.
package agent
