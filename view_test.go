package george

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestView(t *testing.T) *View {
	t.Helper()
	dataDir := t.TempDir()
	cfg := Config{Logger: zap.NewNop().Sugar()}.withDefaults()

	v, err := openOrCreateView(dataDir, "db1", "users", cfg, cfg.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { v.close() })

	_, err = v.CreateIndex(dataDir, IndexOptions{
		Name: "primary", Engine: engineDisk, Primary: true, Unique: true, KeyType: KeyTypeString,
	})
	require.NoError(t, err)

	_, err = v.CreateIndex(dataDir, IndexOptions{
		Name: "status", Engine: engineDisk, Unique: false, Null: true, KeyType: KeyTypeString,
	})
	require.NoError(t, err)

	return v
}

// TestViewSaveGet guards the Save fan-out: a write through both the
// primary and a secondary index must be retrievable through either.
func TestViewSaveGet(t *testing.T) {
	v := newTestView(t)

	_, err := v.Save("user:1", []byte(`{"status":"active"}`), false)
	require.NoError(t, err)

	row, err := v.Get("primary", "user:1")
	require.NoError(t, err)
	require.Equal(t, "user:1", row.Key)
	require.JSONEq(t, `{"status":"active"}`, string(row.Value))

	row2, err := v.Get("status", "active")
	require.NoError(t, err)
	require.Equal(t, "user:1", row2.Key)
}

// TestViewSaveUniqueConflict guards spec S4: the primary index is
// unique, so a second Save of the same key without force fails and
// leaves the original value in place.
func TestViewSaveUniqueConflict(t *testing.T) {
	v := newTestView(t)

	_, err := v.Save("user:1", []byte(`{"status":"active"}`), false)
	require.NoError(t, err)

	_, err = v.Save("user:1", []byte(`{"status":"inactive"}`), false)
	require.ErrorIs(t, err, ErrDataExist)

	row, err := v.Get("primary", "user:1")
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"active"}`, string(row.Value))
}

// TestViewSaveMissingFieldNoNull guards OQ2's resolution: a non-null
// secondary index surfaces ErrFieldMissing when the written document
// lacks that field.
func TestViewSaveMissingFieldNoNull(t *testing.T) {
	dataDir := t.TempDir()
	cfg := Config{Logger: zap.NewNop().Sugar()}.withDefaults()
	v, err := openOrCreateView(dataDir, "db1", "users", cfg, cfg.Logger)
	require.NoError(t, err)
	defer v.close()

	_, err = v.CreateIndex(dataDir, IndexOptions{
		Name: "primary", Engine: engineDisk, Primary: true, Unique: true, KeyType: KeyTypeString,
	})
	require.NoError(t, err)
	_, err = v.CreateIndex(dataDir, IndexOptions{
		Name: "status", Engine: engineDisk, Unique: false, Null: false, KeyType: KeyTypeString,
	})
	require.NoError(t, err)

	_, err = v.Save("user:1", []byte(`{}`), false)
	require.ErrorIs(t, err, ErrFieldMissing)
}

// TestViewRemove guards the tombstone path: after Remove, Get through
// the primary index reports not-found.
func TestViewRemove(t *testing.T) {
	v := newTestView(t)

	_, err := v.Save("user:1", []byte(`{"status":"active"}`), false)
	require.NoError(t, err)

	_, err = v.Remove("user:1")
	require.NoError(t, err)

	_, err = v.Get("primary", "user:1")
	require.ErrorIs(t, err, ErrDataNotFound)
}

// TestViewGetAfterCompressedArchive guards that a row written before a
// compressed Archive (Config.CompressArchives) still resolves: the
// locator's version now points at a Zstd-compressed history file,
// which readLocator must decompress before seeking into it.
func TestViewGetAfterCompressedArchive(t *testing.T) {
	v := newTestView(t)

	_, err := v.Save("user:1", []byte(`{"status":"active"}`), false)
	require.NoError(t, err)

	v.cfg.CompressArchives = true
	require.NoError(t, v.Archive(t.TempDir(), 2000))

	row, err := v.Get("primary", "user:1")
	require.NoError(t, err)
	require.Equal(t, "user:1", row.Key)
	require.JSONEq(t, `{"status":"active"}`, string(row.Value))
}
