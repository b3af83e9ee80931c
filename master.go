// Master owns every Page and Database opened against one data
// directory. It is always explicitly constructed via Open — spec §9's
// design note prefers injection over a hidden package-level
// singleton.
package george

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

type Master struct {
	dataDir         string
	defaultPageName string
	createTime      int64
	cfg             Config

	mu        sync.RWMutex
	pages     map[string]*Page
	databases map[string]*Database

	log *zap.SugaredLogger
}

// Open bootstraps a fresh data directory or recovers an existing one.
func Open(dataDir string, cfg Config) (*Master, error) {
	cfg = cfg.withDefaults()

	fresh, err := bootstrap(dataDir)
	if err != nil {
		return nil, err
	}

	m := &Master{
		dataDir: dataDir, defaultPageName: bootstrapDefaultName,
		createTime: now(), cfg: cfg,
		pages: make(map[string]*Page), databases: make(map[string]*Database),
		log: cfg.Logger.Named("master"),
	}

	if fresh {
		if err := m.initFresh(); err != nil {
			return nil, err
		}
		return m, nil
	}

	if err := m.recover(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Master) initFresh() error {
	db, err := openOrCreateDatabase(m.dataDir, bootstrapDefaultName, "", m.cfg, m.log)
	if err != nil {
		return err
	}
	m.databases[bootstrapDefaultName] = db

	if err := ensureDir(pageDir(m.dataDir, bootstrapDefaultName)); err != nil {
		return err
	}
	m.pages[bootstrapDefaultName] = newPage(bootstrapDefaultName, "", m.cfg.HashAlgorithm)

	return writeBootstrapMarker(m.dataDir)
}

func (m *Master) recover() error {
	dbRoot := m.dataDir + "/database"
	if entries, err := os.ReadDir(dbRoot); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			db, err := openOrCreateDatabase(m.dataDir, e.Name(), "", m.cfg, m.log)
			if err != nil {
				m.log.Warnw("skipping unrecoverable database", "db", e.Name(), "err", err)
				continue
			}
			m.databases[e.Name()] = db
		}
	}

	pageRoot := m.dataDir + "/page"
	if entries, err := os.ReadDir(pageRoot); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			// Page contents are RAM-only (spec §3); recovery only
			// restores the name, not any prior key/value data.
			m.pages[e.Name()] = newPage(e.Name(), "", m.cfg.HashAlgorithm)
		}
	}
	return nil
}

// Database returns an already-open database, translating a missing
// one into ErrDatabaseNotFound (spec §7: Master converts None lookups
// into the appropriate NotFound kind).
func (m *Master) Database(name string) (*Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	db, ok := m.databases[name]
	if !ok {
		return nil, ErrDatabaseNotFound
	}
	return db, nil
}

func (m *Master) CreateDatabase(name, comment string) (*Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.databases[name]; exists {
		return nil, ErrDatabaseExist
	}
	db, err := openOrCreateDatabase(m.dataDir, name, comment, m.cfg, m.log)
	if err != nil {
		return nil, err
	}
	m.databases[name] = db
	return db, nil
}

// RenameDatabase implements spec S6.
func (m *Master) RenameDatabase(oldName, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.databases[oldName]
	if !ok {
		return ErrDatabaseNotFound
	}
	if _, exists := m.databases[newName]; exists {
		return ErrDatabaseExist
	}
	if err := db.rename(newName); err != nil {
		return err
	}
	delete(m.databases, oldName)
	m.databases[newName] = db
	return nil
}

// RenameView implements spec S6's view-level counterpart, per
// SPEC_FULL.md §7.
func (m *Master) RenameView(dbName, oldName, newName string) error {
	db, err := m.Database(dbName)
	if err != nil {
		return err
	}
	return db.RenameView(oldName, newName)
}

func (m *Master) Page(name string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pages[name]
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

func (m *Master) CreatePage(name, comment string) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.pages[name]; exists {
		return nil, ErrPageExist
	}
	if err := ensureDir(pageDir(m.dataDir, name)); err != nil {
		return nil, err
	}
	p := newPage(name, comment, m.cfg.HashAlgorithm)
	m.pages[name] = p
	return p, nil
}

// Put is the top of the write control flow from spec §2:
// Master.Put -> Database.View -> View.Save.
func (m *Master) Put(dbName, viewName, key string, value []byte, force bool) error {
	db, err := m.Database(dbName)
	if err != nil {
		return err
	}
	v, err := db.View(viewName)
	if err != nil {
		return err
	}
	_, err = v.Save(key, value, force)
	return err
}

// Get is the top of the read control flow from spec §2.
func (m *Master) Get(dbName, viewName, indexName, key string) (DataReal, error) {
	db, err := m.Database(dbName)
	if err != nil {
		return DataReal{}, err
	}
	v, err := db.View(viewName)
	if err != nil {
		return DataReal{}, err
	}
	return v.Get(indexName, key)
}

func (m *Master) Remove(dbName, viewName, key string) error {
	db, err := m.Database(dbName)
	if err != nil {
		return err
	}
	v, err := db.View(viewName)
	if err != nil {
		return err
	}
	_, err = v.Remove(key)
	return err
}

func (m *Master) Select(dbName, viewName string, c Constraint) (Expectation, error) {
	db, err := m.Database(dbName)
	if err != nil {
		return Expectation{}, err
	}
	v, err := db.View(viewName)
	if err != nil {
		return Expectation{}, err
	}
	return v.Select(c)
}

// Close releases every open database's file handles. Pages need no
// teardown since they never touch disk.
func (m *Master) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first error
	for _, db := range m.databases {
		if err := db.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
