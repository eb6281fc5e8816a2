package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFullCarriesBuildProvenance checks that the rendered version embeds
// the semantic version and the commit, whatever the build injected.
func TestFullCarriesBuildProvenance(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
	require.Contains(t, Full(), BuildTime)
}
