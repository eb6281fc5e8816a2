package version

import "fmt"

// Build metadata, injected through -ldflags by the release pipeline. The
// defaults identify a local developer build.
var (
	// Version is the semantic version of the e-stop toolchain.
	Version = "0.0.0-dev"
	// Commit is the short hash of the git revision the binaries were built from.
	Commit = "unknown"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns the bare semantic version.
func Short() string {
	return Version
}

// Full renders the version with its build provenance, as printed by the
// version subcommand of every e-stop binary.
func Full() string {
	return fmt.Sprintf("estop %s (commit %s, built %s)", Version, Commit, BuildTime)
}
