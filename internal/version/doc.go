// Package version exposes build metadata injected via ldflags and a cobra
// subcommand shared by all e-stop binaries.
package version
