// Seed is the transient per-write object that aggregates every
// index's slot reservation until the payload itself is known, per
// spec §4.6. A node's put/del never writes a locator directly — it
// appends an IndexPolicy to the seed, and Seed.commit patches every
// reserved slot once the payload has been placed in the view's file
// (or, for a remove, writes the all-zero tombstone locator).
package george

import "sync"

// IndexPolicy names exactly one slot that must be patched with the
// final locator once the seed commits.
type IndexPolicy struct {
	IndexName string
	Store     *fileStore
	Seek      int64
}

// Seed collects policies for one View.save/View.remove call. Indexes
// run concurrently during the fan-out, so policies is guarded by mu.
type Seed struct {
	Key       string
	Value     []byte
	Increment uint64

	mu       sync.Mutex
	policies []IndexPolicy
}

func newSeed(key string, value []byte) *Seed {
	return &Seed{Key: key, Value: value}
}

// reserve records that index has staked out one slot to be patched
// on commit. Called by a node's put/del while seed.mu may be
// contended by sibling indexes running in the same fan-out.
func (s *Seed) reserve(indexName string, store *fileStore, seek int64) {
	s.mu.Lock()
	s.policies = append(s.policies, IndexPolicy{IndexName: indexName, Store: store, Seek: seek})
	s.mu.Unlock()
}

// setIncrement records the counter value produced by the increment
// index so DataReal.Increment can embed it once assembled.
func (s *Seed) setIncrement(v uint64) {
	s.mu.Lock()
	s.Increment = v
	s.mu.Unlock()
}

// commit appends a DataReal payload to the view's payload store, then
// patches every reserved slot with the resulting locator. With
// tombstone=true (remove) nothing is appended and every reserved slot
// gets the all-zero locator. It is the only place a locator slot is ever
// written, which is what makes partial fan-out failures safe: no
// index slot is touched until every participant has reserved one.
func (s *Seed) commit(view *View, tombstone bool) (locator, error) {
	s.mu.Lock()
	policies := append([]IndexPolicy(nil), s.policies...)
	s.mu.Unlock()

	var loc locator
	if !tombstone {
		record := DataReal{Increment: s.Increment, Key: s.Key, Value: s.Value}
		framed := frameRecord(record)

		seek, err := view.store.append(framed)
		if err != nil {
			return locator{}, err
		}
		if view.cfg.SyncWrites {
			if err := view.store.sync(); err != nil {
				return locator{}, ioErr("sync payload", err)
			}
		}
		loc = locator{Version: view.pigeonhole.now.Version, Len: uint32(len(framed)), Seek: uint64(seek)}
	}

	enc := encodeLocator(loc)
	for _, p := range policies {
		if err := p.Store.writeAt(enc[:], p.Seek); err != nil {
			return locator{}, err
		}
		if view.cfg.SyncWrites {
			if err := p.Store.sync(); err != nil {
				return locator{}, ioErr("sync index slot", err)
			}
		}
	}
	return loc, nil
}
