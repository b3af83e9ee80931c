package george

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSeedReserveConcurrent guards that parallel reserve calls from
// sibling index goroutines (the real shape of View.Save's fan-out)
// never race or drop a policy.
func TestSeedReserveConcurrent(t *testing.T) {
	store, err := openStore(filepath.Join(t.TempDir(), "s.ge"))
	require.NoError(t, err)
	defer store.close()

	seed := newSeed("k", []byte("v"))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			seed.reserve("ix", store, int64(i))
		}()
	}
	wg.Wait()

	require.Len(t, seed.policies, 16)
}

// TestSeedSetIncrement guards that setIncrement records the counter
// value on the seed.
func TestSeedSetIncrement(t *testing.T) {
	seed := newSeed("k", nil)
	seed.setIncrement(7)
	require.Equal(t, uint64(7), seed.Increment)
}

// TestSeedCommitPatchesEveryPolicy guards the commit step itself: once
// a payload is appended, every reserved slot across however many
// stores participated gets the same locator.
func TestSeedCommitPatchesEveryPolicy(t *testing.T) {
	v := newTestView(t)

	seed := newSeed("k1", []byte(`{"status":"x"}`))
	storeA, err := openStore(filepath.Join(t.TempDir(), "a.ge"))
	require.NoError(t, err)
	defer storeA.close()
	storeB, err := openStore(filepath.Join(t.TempDir(), "b.ge"))
	require.NoError(t, err)
	defer storeB.close()

	seed.reserve("a", storeA, 0)
	seed.reserve("b", storeB, 0)
	require.NoError(t, storeA.writeAt(make([]byte, locatorSize), 0))
	require.NoError(t, storeB.writeAt(make([]byte, locatorSize), 0))

	loc, err := seed.commit(v, false)
	require.NoError(t, err)
	require.False(t, loc.isZero())

	bufA := make([]byte, locatorSize)
	require.NoError(t, storeA.readAt(bufA, 0))
	bufB := make([]byte, locatorSize)
	require.NoError(t, storeB.readAt(bufB, 0))
	require.Equal(t, decodeLocator(bufA), loc)
	require.Equal(t, decodeLocator(bufB), loc)
}

// TestSeedCommitTombstone guards commit's tombstone (all-zero-locator)
// path used by View.Remove.
func TestSeedCommitTombstone(t *testing.T) {
	v := newTestView(t)
	seed := newSeed("k1", nil)
	loc, err := seed.commit(v, true)
	require.NoError(t, err)
	require.True(t, loc.isZero())
}
