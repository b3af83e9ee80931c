package george

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSequence(t *testing.T, unique bool) *sequenceNode {
	t.Helper()
	store, err := openStore(filepath.Join(t.TempDir(), "seq.ge"))
	require.NoError(t, err)
	t.Cleanup(func() { store.close() })
	return openSequenceNode(store, 0, unique)
}

// TestSequencePutGet verifies the dense addressing scheme: slot i
// lives at exactly 12*i, so put(h) then get(h) must round-trip
// without touching any neighbouring hash's slot.
func TestSequencePutGet(t *testing.T) {
	n := newTestSequence(t, true)
	seed := newSeed("k1", []byte("v1"))

	require.NoError(t, n.put(5, "disk", seed, false))
	loc, commitErr := commitSeedForTest(t, n, seed)
	require.NoError(t, commitErr)

	got, err := n.get(5)
	require.NoError(t, err)
	require.Equal(t, loc, got)

	_, err = n.get(6)
	require.ErrorIs(t, err, ErrDataNotFound)
}

// TestSequenceUniqueConflict guards spec S4: a second put to the same
// hash on a unique index without force must fail, and the first
// value must remain readable.
func TestSequenceUniqueConflict(t *testing.T) {
	n := newTestSequence(t, true)

	seed1 := newSeed("k", []byte("v1"))
	require.NoError(t, n.put(9, "disk", seed1, false))
	_, err := commitSeedForTest(t, n, seed1)
	require.NoError(t, err)

	seed2 := newSeed("k", []byte("v2"))
	err = n.put(9, "disk", seed2, false)
	require.ErrorIs(t, err, ErrDataExist)
}

// TestSequenceDel guards invariant-adjacent tombstone behaviour: after
// del, get must report not-found again.
func TestSequenceDel(t *testing.T) {
	n := newTestSequence(t, true)
	seed := newSeed("k", []byte("v1"))
	require.NoError(t, n.put(3, "disk", seed, false))
	_, err := commitSeedForTest(t, n, seed)
	require.NoError(t, err)

	delSeed := newSeed("k", nil)
	require.NoError(t, n.del(3, "disk", delSeed))
	require.NoError(t, patchZero(n.store, delSeed))

	_, err = n.get(3)
	require.ErrorIs(t, err, ErrDataNotFound)
}

// commitSeedForTest drives the same locator-patch step Seed.commit
// performs, without needing a full View — these node tests exercise
// the node in isolation.
func commitSeedForTest(t *testing.T, n *sequenceNode, seed *Seed) (locator, error) {
	t.Helper()
	loc := locator{Version: 1, Len: uint32(len(seed.Value)), Seek: 42}
	enc := encodeLocator(loc)
	for _, p := range seed.policies {
		if err := p.Store.writeAt(enc[:], p.Seek); err != nil {
			return locator{}, err
		}
	}
	return loc, nil
}

func patchZero(store *fileStore, seed *Seed) error {
	var zero [locatorSize]byte
	for _, p := range seed.policies {
		if err := p.Store.writeAt(zero[:], p.Seek); err != nil {
			return err
		}
	}
	return nil
}
