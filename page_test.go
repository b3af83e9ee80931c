package george

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPagePutGetDel exercises the in-memory trie's full round trip;
// Page never touches disk, so no recovery story applies to it.
func TestPagePutGetDel(t *testing.T) {
	p := newPage("scratch", "", AlgXXHash3)

	p.Put("session:1", []byte("payload-1"))
	p.Put("session:2", []byte("payload-2"))

	v, err := p.Get("session:1")
	require.NoError(t, err)
	require.Equal(t, []byte("payload-1"), v)

	v2, err := p.Get("session:2")
	require.NoError(t, err)
	require.Equal(t, []byte("payload-2"), v2)

	require.NoError(t, p.Del("session:1"))
	_, err = p.Get("session:1")
	require.ErrorIs(t, err, ErrDataNotFound)

	v2again, err := p.Get("session:2")
	require.NoError(t, err)
	require.Equal(t, []byte("payload-2"), v2again)
}

func TestPageGetMissing(t *testing.T) {
	p := newPage("scratch", "", AlgXXHash3)
	_, err := p.Get("absent")
	require.ErrorIs(t, err, ErrDataNotFound)
}

func TestPageDelMissing(t *testing.T) {
	p := newPage("scratch", "", AlgXXHash3)
	err := p.Del("absent")
	require.ErrorIs(t, err, ErrDataNotFound)
}

// TestPageOverwrite guards that Put on an existing key replaces the
// value in place rather than chaining a duplicate.
func TestPageOverwrite(t *testing.T) {
	p := newPage("scratch", "", AlgXXHash3)
	p.Put("k", []byte("v1"))
	p.Put("k", []byte("v2"))

	v, err := p.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), v)
}
