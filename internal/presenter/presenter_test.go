package presenter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConsole_SingleAction returns immediately without reading input.
func TestConsole_SingleAction(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	c := NewConsole(&out, strings.NewReader(""))

	idx, err := c.Alert(context.Background(), "version 1.0.1 is currently the newest version available.")
	require.NoError(t, err)
	require.Zero(t, idx)
	require.Equal(t, "version 1.0.1 is currently the newest version available.\n", out.String())
}

// TestConsole_Choice reads a 1-based choice and lists the actions.
func TestConsole_Choice(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	c := NewConsole(&out, strings.NewReader("3\n"))

	idx, err := c.Alert(context.Background(), "Preview Widget", "Small", "Medium", "Large", "Cancel")
	require.NoError(t, err)
	require.Equal(t, 2, idx)
	require.Contains(t, out.String(), "  4) Cancel")
}

// TestConsole_InvalidChoice rejects out-of-range and non-numeric input.
func TestConsole_InvalidChoice(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"0\n", "9\n", "large\n", ""} {
		c := NewConsole(new(bytes.Buffer), strings.NewReader(input))

		_, err := c.Alert(context.Background(), "Pick", "a", "b")
		require.Error(t, err, input)
	}
}
