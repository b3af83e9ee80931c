package george

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestDatabaseCreateAndViewLookup guards the basic collection contract:
// a created view is retrievable by name, and an unknown one reports
// ErrViewNotFound.
func TestDatabaseCreateAndViewLookup(t *testing.T) {
	dataDir := t.TempDir()
	cfg := Config{Logger: zap.NewNop().Sugar()}.withDefaults()

	db, err := openOrCreateDatabase(dataDir, "shop", "test database", cfg, cfg.Logger)
	require.NoError(t, err)
	defer db.close()

	require.Equal(t, "test database", db.Comment)

	_, err = db.CreateView("orders")
	require.NoError(t, err)

	v, err := db.View("orders")
	require.NoError(t, err)
	require.Equal(t, "orders", v.Name)

	_, err = db.View("missing")
	require.ErrorIs(t, err, ErrViewNotFound)
}

// TestDatabaseCreateViewDuplicate guards that re-creating an existing
// view name fails rather than silently replacing it.
func TestDatabaseCreateViewDuplicate(t *testing.T) {
	dataDir := t.TempDir()
	cfg := Config{Logger: zap.NewNop().Sugar()}.withDefaults()

	db, err := openOrCreateDatabase(dataDir, "shop", "", cfg, cfg.Logger)
	require.NoError(t, err)
	defer db.close()

	_, err = db.CreateView("orders")
	require.NoError(t, err)
	_, err = db.CreateView("orders")
	require.ErrorIs(t, err, ErrViewExist)
}

// TestDatabaseRecover guards that closing and reopening the same
// directory restores the database's comment and its view set.
func TestDatabaseRecover(t *testing.T) {
	dataDir := t.TempDir()
	cfg := Config{Logger: zap.NewNop().Sugar()}.withDefaults()

	db, err := openOrCreateDatabase(dataDir, "shop", "persisted comment", cfg, cfg.Logger)
	require.NoError(t, err)
	_, err = db.CreateView("orders")
	require.NoError(t, err)
	require.NoError(t, db.close())

	reopened, err := openOrCreateDatabase(dataDir, "shop", "", cfg, cfg.Logger)
	require.NoError(t, err)
	defer reopened.close()

	require.Equal(t, "persisted comment", reopened.Comment)
	_, err = reopened.View("orders")
	require.NoError(t, err)
}
