package george

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLocatorRoundTrip guards the 12-byte wire format every node
// engine's leaf slot depends on: a wrong offset here corrupts every
// read path simultaneously.
func TestLocatorRoundTrip(t *testing.T) {
	want := locator{Version: 7, Len: 1 << 20, Seek: (1 << 47) - 1}
	enc := encodeLocator(want)
	require.Len(t, enc, locatorSize)

	got := decodeLocator(enc[:])
	require.Equal(t, want, got)
}

func TestLocatorZero(t *testing.T) {
	var z locator
	require.True(t, z.isZero())

	enc := encodeLocator(locator{Seek: 1})
	require.False(t, decodeLocator(enc[:]).isZero())
}
