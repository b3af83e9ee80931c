package george

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMaster(t *testing.T) (*Master, string) {
	t.Helper()
	dataDir := t.TempDir()
	m, err := Open(dataDir, Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, dataDir
}

func setupOrdersView(t *testing.T, m *Master) *View {
	t.Helper()
	db, err := m.CreateDatabase("d1", "")
	require.NoError(t, err)
	v, err := db.CreateView("v1")
	require.NoError(t, err)

	_, err = v.CreateIndex(m.dataDir, IndexOptions{
		Name: "disk", Engine: engineDisk, Primary: true, Unique: true, KeyType: KeyTypeString,
	})
	require.NoError(t, err)
	_, err = v.CreateIndex(m.dataDir, IndexOptions{
		Name: "increment", Engine: engineIncrement,
	})
	require.NoError(t, err)
	return v
}

// TestMasterScenarioS1 mirrors spec scenario S1: writing through the
// primary index resolves identically through the increment index.
func TestMasterScenarioS1(t *testing.T) {
	m, _ := newTestMaster(t)
	v := setupOrdersView(t, m)

	_, err := v.Save("k1", []byte(`{"name":"a","age":20}`), false)
	require.NoError(t, err)

	row, err := v.Get("disk", "k1")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"a","age":20}`, string(row.Value))

	row2, err := v.Get("increment", "1")
	require.NoError(t, err)
	require.Equal(t, row.Value, row2.Value)
}

// TestMasterScenarioS4 mirrors spec scenario S4: a second put without
// force on a unique index fails and the original value survives.
func TestMasterScenarioS4(t *testing.T) {
	m, _ := newTestMaster(t)
	setupOrdersView(t, m)

	require.NoError(t, m.Put("d1", "v1", "k", []byte("v1"), false))
	err := m.Put("d1", "v1", "k", []byte("v2"), false)
	require.ErrorIs(t, err, ErrDataExist)

	row, err := m.Get("d1", "v1", "disk", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), row.Value)
}

// TestMasterScenarioS5 mirrors spec scenario S5: rows written before
// and after an archive both remain retrievable, the former resolving
// through pigeonhole history and the latter through the current file.
func TestMasterScenarioS5(t *testing.T) {
	m, _ := newTestMaster(t)
	v := setupOrdersView(t, m)

	for i := 0; i < 20; i++ {
		_, err := v.Save(fmt.Sprintf("k%d", i), []byte(fmt.Sprintf(`{"n":%d}`, i)), false)
		require.NoError(t, err)
	}

	archiveDir := t.TempDir()
	require.NoError(t, v.Archive(archiveDir, now()))

	for i := 20; i < 40; i++ {
		_, err := v.Save(fmt.Sprintf("k%d", i), []byte(fmt.Sprintf(`{"n":%d}`, i)), false)
		require.NoError(t, err)
	}

	for i := 0; i < 40; i++ {
		row, err := v.Get("disk", fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		require.JSONEq(t, fmt.Sprintf(`{"n":%d}`, i), string(row.Value))
	}
}

// TestMasterScenarioS6 mirrors spec scenario S6: renaming a database
// relocates it under the new name and the old name stops resolving.
func TestMasterScenarioS6(t *testing.T) {
	m, _ := newTestMaster(t)
	v := setupOrdersView(t, m)
	_, err := v.Save("k1", []byte(`{"name":"a"}`), false)
	require.NoError(t, err)

	require.NoError(t, m.RenameDatabase("d1", "d2"))

	row, err := m.Get("d2", "v1", "disk", "k1")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"a"}`, string(row.Value))

	_, err = m.Get("d1", "v1", "disk", "k1")
	require.ErrorIs(t, err, ErrDatabaseNotFound)
}

// TestMasterRenameView guards the view-level counterpart of scenario
// S6: renaming a view relocates its directory and data keeps resolving
// under the new name.
func TestMasterRenameView(t *testing.T) {
	m, _ := newTestMaster(t)
	v := setupOrdersView(t, m)
	_, err := v.Save("k1", []byte(`{"name":"a"}`), false)
	require.NoError(t, err)

	require.NoError(t, m.RenameView("d1", "v1", "v2"))

	row, err := m.Get("d1", "v2", "disk", "k1")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"a"}`, string(row.Value))

	_, err = m.Get("d1", "v1", "disk", "k1")
	require.ErrorIs(t, err, ErrViewNotFound)
}

// TestMasterRecovery guards universal property 5: reopening Master
// against the same data directory restores every previously written
// row.
func TestMasterRecovery(t *testing.T) {
	dataDir := t.TempDir()
	m1, err := Open(dataDir, Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	v := setupOrdersView(t, m1)
	_, err = v.Save("k1", []byte(`{"name":"a"}`), false)
	require.NoError(t, err)
	require.NoError(t, m1.Close())

	m2, err := Open(dataDir, Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer m2.Close()

	row, err := m2.Get("d1", "v1", "disk", "k1")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"a"}`, string(row.Value))
}

// TestMasterDatabaseNotFound guards the Master-layer translation from
// a missing lookup into the appropriate NotFound kind (spec §7).
func TestMasterDatabaseNotFound(t *testing.T) {
	m, _ := newTestMaster(t)
	_, err := m.Database("absent")
	require.ErrorIs(t, err, ErrDatabaseNotFound)
}

// TestMasterPageLifecycle guards the Page collection surface: created
// pages are retrievable, duplicates rejected.
func TestMasterPageLifecycle(t *testing.T) {
	m, _ := newTestMaster(t)
	_, err := m.CreatePage("cache", "")
	require.NoError(t, err)

	_, err = m.CreatePage("cache", "")
	require.ErrorIs(t, err, ErrPageExist)

	p, err := m.Page("cache")
	require.NoError(t, err)
	p.Put("k", []byte("v"))
	v, err := p.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}
