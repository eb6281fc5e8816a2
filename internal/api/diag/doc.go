// Package diag serves the agent's diagnostics HTTP surface: liveness and
// readiness probes plus the prometheus metrics endpoint.
package diag
