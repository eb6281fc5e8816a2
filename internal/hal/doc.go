// Package hal abstracts the vehicle's power relay hardware. It defines the
// PowerController interface consumed by the orchestrator and a simulated
// relay driver with the latency profile of the real electromechanical relay.
package hal
