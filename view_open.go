// Construction and recovery for View: the view.ge file carries the
// header, the pigeonhole-encoded description, and then the payload
// log itself, in that order (spec §6.1: "view metadata+payload log,
// same file").
package george

import (
	"os"

	"go.uber.org/zap"
)

func openOrCreateView(dataDir, db, name string, cfg Config, log *zap.SugaredLogger) (*View, error) {
	dir := viewDir(dataDir, db, name)
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	path := viewFilePath(dataDir, db, name)
	fresh := true
	if _, err := os.Stat(path); err == nil {
		fresh = false
	}

	store, err := openStore(path)
	if err != nil {
		return nil, err
	}

	var headerLen int64
	var createTime int64
	var ph *Pigeonhole

	if fresh {
		createTime = now()
		ph = newPigeonhole(path, createTime)
		headerLen, err = writeHeader(store.writer, metadata{
			Version: 1, Engine: 0, Timestamp: createTime,
		}, description{Database: db, View: name, Index: ph.encode()})
		if err != nil {
			return nil, err
		}
		store.tail.Store(headerLen)
	} else {
		m, d, hl, err := readHeader(store.reader)
		if err != nil {
			return nil, err
		}
		headerLen = hl
		createTime = m.Timestamp
		ph, err = decodePigeonhole(d.Index)
		if err != nil {
			return nil, err
		}
		ph.now.Filepath = path
	}

	v := &View{
		DatabaseName: db, Name: name, createTime: createTime,
		store: store, headerLen: headerLen, pigeonhole: ph,
		indexes: make(map[string]*Index), dir: dir, cfg: cfg,
		log: log.Named("view").With("db", db, "view", name),
	}

	if !fresh {
		if err := v.recoverIndexes(dataDir); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// recoverIndexes restores every index subdirectory under dir, using
// each index's own persisted header for engine/unique/null/keytype —
// View only needs the name to locate the directory.
func (v *View) recoverIndexes(dataDir string) error {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return ioErr("scan indexes", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ix, err := openOrCreateIndex(dataDir, v.DatabaseName, v.Name, IndexOptions{Name: e.Name()}, v.cfg, v.log)
		if err != nil {
			v.log.Warnw("skipping unrecoverable index", "index", e.Name(), "err", err)
			continue
		}
		v.indexes[e.Name()] = ix
	}
	return nil
}

// CreateIndex registers a new index against this view, persisting its
// own file set under dir/<index>/.
func (v *View) CreateIndex(dataDir string, opts IndexOptions) (*Index, error) {
	if _, exists := v.indexes[opts.Name]; exists {
		return nil, ErrIndexExist
	}
	ix, err := openOrCreateIndex(dataDir, v.DatabaseName, v.Name, opts, v.cfg, v.log)
	if err != nil {
		return nil, err
	}
	v.indexes[opts.Name] = ix
	return ix, nil
}

func (v *View) close() error {
	var first error
	for _, ix := range v.indexes {
		if err := ix.node.close(); err != nil && first == nil {
			first = err
		}
	}
	if err := v.store.close(); err != nil && first == nil {
		first = err
	}
	return first
}
