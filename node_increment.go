// incrementNode assigns a monotonically increasing counter to every
// put and stores the usual 12-byte locator at offset
// headerLen+(counter-1)*12 — the
// same addressing scheme sequenceNode uses, except the "hash" is
// never derived from the key: it's simply the next integer. This is
// what lets spec S1's get("increment","1") resolve a locator the same
// way get("disk","k1") does, while Seed.Increment carries the raw
// counter for embedding in DataReal.
package george

type incrementNode struct {
	store     *fileStore
	headerLen int64
}

func openIncrementNode(store *fileStore, headerLen int64) *incrementNode {
	return &incrementNode{store: store, headerLen: headerLen}
}

func (n *incrementNode) slotCount() int64 {
	return (n.store.size() - n.headerLen) / locatorSize
}

// put ignores keyHash entirely: the next slot is always tail+1.
func (n *incrementNode) put(_ uint64, indexName string, seed *Seed, _ bool) error {
	next := uint64(n.slotCount()) + 1
	seek := n.headerLen + int64(next-1)*locatorSize

	if n.store.size() < seek+locatorSize {
		if _, err := n.store.append(make([]byte, seek+locatorSize-n.store.size())); err != nil {
			return err
		}
	}

	seed.setIncrement(next)
	seed.reserve(indexName, n.store, seek)
	return nil
}

// get treats keyHash as the 1-based counter value directly (callers
// route through Index, which skips hashing for the increment engine).
func (n *incrementNode) get(counter uint64) (locator, error) {
	if counter == 0 {
		return locator{}, ErrDataNotFound
	}
	seek := n.headerLen + int64(counter-1)*locatorSize
	buf := make([]byte, locatorSize)
	if err := n.store.readAt(buf, seek); err != nil {
		return locator{}, ErrDataNotFound
	}
	loc := decodeLocator(buf)
	if loc.isZero() {
		return locator{}, ErrDataNotFound
	}
	return loc, nil
}

func (n *incrementNode) del(_ uint64, _ string, _ *Seed) error {
	return ErrMethodNotSupport
}

// scan walks counter slots in file order; left-to-right is ascending
// insertion order, the reverse is newest-first.
func (n *incrementNode) scan(leftToRight bool, start, end uint64) ([]locator, error) {
	count := n.slotCount()
	if count == 0 {
		return nil, nil
	}
	lo, hi := start, end
	if hi == 0 || hi > uint64(count) {
		hi = uint64(count)
	}
	if lo == 0 {
		lo = 1
	}

	out := make([]locator, 0, hi-lo+1)
	buf := make([]byte, locatorSize)
	step := func(i uint64) {
		seek := n.headerLen + int64(i-1)*locatorSize
		if err := n.store.readAt(buf, seek); err != nil {
			return
		}
		loc := decodeLocator(buf)
		if !loc.isZero() {
			out = append(out, loc)
		}
	}
	if leftToRight {
		for i := lo; i <= hi; i++ {
			step(i)
		}
	} else {
		for i := hi; i >= lo; i-- {
			step(i)
		}
	}
	return out, nil
}

// supportsRange is false: slots are addressed by the literal counter,
// never by the bias/bit-encoded value hashBound produces, so the
// planner must not feed it a translated hash-space bound.
func (n *incrementNode) supportsRange() bool { return false }

func (n *incrementNode) close() error { return n.store.close() }
