// Package metrics exposes prometheus collectors for the agent: sequence
// counts and latency plus a one-hot gauge of the current safety state.
package metrics
