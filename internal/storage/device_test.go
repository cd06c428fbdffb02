package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDetectDevice ensures hostname and username are detected and non-empty.
func TestDetectDevice(t *testing.T) {
	t.Parallel()

	d, err := DetectDevice()
	require.NoError(t, err)
	require.NotEmpty(t, d.Hostname)
	require.NotEmpty(t, d.Username)
	require.Equal(t, d.Username+"@"+d.Hostname, d.String())
}
