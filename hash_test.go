package george

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestH64Deterministic: the same (keyType, key) must always hash to
// the same address, or every node engine's get would miss its own
// put.
func TestH64Deterministic(t *testing.T) {
	for _, alg := range []int{AlgXXHash3, AlgFNV1a, AlgBlake2b} {
		a := h64(byte(KeyTypeString), []byte("k1"), alg)
		b := h64(byte(KeyTypeString), []byte("k1"), alg)
		require.Equal(t, a, b, "alg %d", alg)
	}
}

// TestH64KeyTypeSeparation: two indexes hashing the same string but
// tagged with a different key type must not collide, so a Disk index
// over strings and one over ints never alias each other's buckets.
func TestH64KeyTypeSeparation(t *testing.T) {
	a := h64(byte(KeyTypeString), []byte("10"), AlgXXHash3)
	b := h64(byte(KeyTypeInt), []byte("10"), AlgXXHash3)
	require.NotEqual(t, a, b)
}
