// Database is a named collection of Views persisted under its own
// directory; its description file records name/comment/create_time
// and its views subdirectory is scanned on recovery (spec §3).
package george

import (
	"os"

	"go.uber.org/zap"
)

type Database struct {
	Name       string
	Comment    string
	createTime int64

	dataDir string
	store   *fileStore
	views   map[string]*View
	cfg     Config
	log     *zap.SugaredLogger
}

func openOrCreateDatabase(dataDir, name, comment string, cfg Config, log *zap.SugaredLogger) (*Database, error) {
	if err := ensureDir(databaseDir(dataDir, name)); err != nil {
		return nil, err
	}

	path := databaseFilePath(dataDir, name)
	fresh := true
	if _, err := os.Stat(path); err == nil {
		fresh = false
	}

	store, err := openStore(path)
	if err != nil {
		return nil, err
	}

	db := &Database{
		Name: name, Comment: comment, dataDir: dataDir,
		store: store, views: make(map[string]*View), cfg: cfg,
		log: log.Named("database").With("db", name),
	}

	if fresh {
		db.createTime = now()
		// The description tuple is shaped for view/index use; a
		// database only needs two fields, so Comment rides in the
		// slot View would otherwise occupy (spec §6.3's tuple shape
		// already varies per tag, this just reuses one Go struct for
		// all of them instead of three near-identical ones).
		if _, err := writeHeader(store.writer, metadata{Version: 1, Timestamp: db.createTime},
			description{Database: name, View: comment, Index: ""}); err != nil {
			return nil, err
		}
		return db, nil
	}

	_, d, _, err := readHeader(store.reader)
	if err != nil {
		return nil, err
	}
	db.Comment = d.View

	entries, err := os.ReadDir(databaseDir(dataDir, name))
	if err != nil {
		return nil, ioErr("scan views", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := openOrCreateView(dataDir, name, e.Name(), cfg, log)
		if err != nil {
			db.log.Warnw("skipping unrecoverable view", "view", e.Name(), "err", err)
			continue
		}
		db.views[e.Name()] = v
	}
	return db, nil
}

func (db *Database) CreateView(name string) (*View, error) {
	if _, exists := db.views[name]; exists {
		return nil, ErrViewExist
	}
	v, err := openOrCreateView(db.dataDir, db.Name, name, db.cfg, db.log)
	if err != nil {
		return nil, err
	}
	db.views[name] = v
	return v, nil
}

func (db *Database) View(name string) (*View, error) {
	v, ok := db.views[name]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

// rename renames the database's directory, per spec S6 and
// SPEC_FULL.md §7. The description file inside is left as-is: recovery
// (openOrCreateDatabase) derives a database's name from its directory
// entry, never from the stored description, so the rename is a single
// os.Rename with no follow-up description rewrite to keep atomic.
func (db *Database) rename(newName string) error {
	oldDir := databaseDir(db.dataDir, db.Name)
	newDir := databaseDir(db.dataDir, newName)
	if err := os.Rename(oldDir, newDir); err != nil {
		return ioErr("rename database dir", err)
	}
	db.Name = newName
	return nil
}

// RenameView renames a view's directory within this database.
// Open index file handles stay valid across the rename (the kernel
// tracks them by inode, not path), so only the in-memory View and the
// database's view map need updating.
func (db *Database) RenameView(oldName, newName string) error {
	v, ok := db.views[oldName]
	if !ok {
		return ErrViewNotFound
	}
	if _, exists := db.views[newName]; exists {
		return ErrViewExist
	}

	newDir := viewDir(db.dataDir, db.Name, newName)
	if err := os.Rename(v.dir, newDir); err != nil {
		return ioErr("rename view dir", err)
	}

	v.Name = newName
	v.dir = newDir
	delete(db.views, oldName)
	db.views[newName] = v
	return nil
}

func (db *Database) close() error {
	var first error
	for _, v := range db.views {
		if err := v.close(); err != nil && first == nil {
			first = err
		}
	}
	if err := db.store.close(); err != nil && first == nil {
		first = err
	}
	return first
}
