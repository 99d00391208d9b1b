package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBadgeWrapsText(t *testing.T) {
	require.Contains(t, Badge("info", BadgeInfo), "[info]")
	// Unknown variants fall back to the default style.
	require.Contains(t, Badge("odd", BadgeVariant(99)), "[odd]")
}

func TestPanelContainsTitleAndBody(t *testing.T) {
	out := Panel("runtime", "cpus 8", 30)
	require.Contains(t, out, "runtime")
	require.Contains(t, out, "cpus 8")

	// A nonsense width still renders.
	require.NotEmpty(t, Panel("t", "b", -1))
}
