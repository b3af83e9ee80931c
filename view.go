// View is the table analogue: an append-only payload log plus the
// set of indexes kept in sync with it via the seed-based fan-out
// (spec §4.6).
package george

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// View owns one payload log and every index registered against it.
type View struct {
	DatabaseName string
	Name         string
	createTime   int64

	store      *fileStore
	headerLen  int64
	pigeonhole *Pigeonhole
	indexes    map[string]*Index
	dir        string
	cfg        Config
	log        *zap.SugaredLogger
}

// Save fans a write out across every registered index, then commits
// the payload and patches every index's reserved slot. force mirrors
// spec S4: a unique index already holding this key fails the whole
// write with ErrDataExist and nothing is appended to the payload log.
func (v *View) Save(key string, value []byte, force bool) (locator, error) {
	seed := newSeed(key, value)

	g, _ := errgroup.WithContext(context.Background())
	for name, ix := range v.indexes {
		name, ix := name, ix
		g.Go(func() error {
			raw, ok := rawKeyFor(ix, key, value)
			if !ok {
				if ix.Null {
					v.log.Debugw("skipping index put, field missing", "index", name)
					return nil
				}
				return wrapErr(KindFieldMissing, "field "+name+" missing from value", nil)
			}
			return ix.Put(raw, seed, force)
		})
	}
	if err := g.Wait(); err != nil {
		// spec §4.6: policies already reserved are left as tombstones,
		// to be overwritten by a later successful write to this key.
		return locator{}, err
	}

	return seed.commit(v, false)
}

// Remove tombstones key across every index (Seed.commit with
// tombstone=true writes an all-zero locator instead of a real
// payload). A secondary index's
// slot was keyed by a JSON field extracted from the original value,
// not by key itself, so Remove first resolves the existing row
// through whichever index is Primary to recover that value — the
// same rawKeyFor used by Save then derives each index's address.
func (v *View) Remove(key string) (locator, error) {
	value, err := v.primaryValue(key)
	if err != nil {
		return locator{}, err
	}

	seed := newSeed(key, nil)

	g, _ := errgroup.WithContext(context.Background())
	for name, ix := range v.indexes {
		name, ix := name, ix
		g.Go(func() error {
			raw, ok := rawKeyFor(ix, key, value)
			if !ok {
				if ix.Null {
					v.log.Debugw("skipping index del, field missing", "index", name)
					return nil
				}
				return ErrFieldMissing
			}
			return ix.Del(raw, seed)
		})
	}
	if err := g.Wait(); err != nil {
		return locator{}, err
	}
	return seed.commit(v, true)
}

func (v *View) primaryValue(key string) ([]byte, error) {
	for _, ix := range v.indexes {
		if ix.Primary {
			row, err := ix.Get([]byte(key), v)
			if err != nil {
				return nil, err
			}
			return row.Value, nil
		}
	}
	return nil, ErrIndexNotFound
}

// rawKeyFor returns the bytes an index should hash for this write:
// the raw key itself for disk/increment, or the JSON-extracted field
// value for any other index.
func rawKeyFor(ix *Index, key string, value []byte) ([]byte, bool) {
	if ix.Primary || ix.Engine == engineIncrement {
		return []byte(key), true
	}
	field, ok := extractField(value, ix.Name)
	if !ok {
		return nil, false
	}
	return []byte(field), true
}

// Get resolves key through the named index and returns the decoded
// payload.
func (v *View) Get(indexName, key string) (DataReal, error) {
	ix, ok := v.indexes[indexName]
	if !ok {
		return DataReal{}, ErrIndexNotFound
	}
	return ix.Get([]byte(key), v)
}

// Select runs the planner (planner.go) to pick an index, computes its
// hash bounds, and asks that index to scan.
func (v *View) Select(c Constraint) (Expectation, error) {
	return plan(v, c)
}

// readLocator resolves a locator to its DataReal, following
// pigeonhole to the file the locator's version was written into. An
// archived version whose file was Zstd-compressed on rotation
// (compress.go) is read by decompressing the whole file into memory
// first, since compressed byte offsets no longer line up with the
// locator's seek.
func (v *View) readLocator(loc locator) (DataReal, error) {
	if loc.isZero() {
		return DataReal{}, ErrDataNotFound
	}

	path, err := v.pigeonhole.resolve(loc.Version)
	if err != nil {
		return DataReal{}, err
	}

	if path == v.pigeonhole.now.Filepath {
		return readRecord(v.store, int64(loc.Seek))
	}

	if strings.HasSuffix(path, ".zst") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return DataReal{}, ioErr("read archived version", err)
		}
		data, err := decompressArchive(raw)
		if err != nil {
			return DataReal{}, err
		}
		return readRecordBytes(data, int64(loc.Seek))
	}

	archived, err := openStore(path)
	if err != nil {
		return DataReal{}, err
	}
	defer archived.close()
	return readRecord(archived, int64(loc.Seek))
}

// Archive rotates the current payload file into targetDir and starts
// a fresh one (spec S5). Writes during the rotation are not
// serialized against Save by design (spec §9 design note 4: archive
// assumes quiescence).
func (v *View) Archive(targetDir string, now int64) error {
	freshPath := v.dir + "/view.ge.data"
	if err := v.pigeonhole.archive(targetDir, freshPath, now, v.cfg.CompressArchives); err != nil {
		return err
	}
	fresh, err := openStore(freshPath)
	if err != nil {
		return err
	}
	old := v.store
	v.store = fresh
	return old.close()
}
