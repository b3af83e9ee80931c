// sequenceNode is the dense primary index: slot i lives at a fixed
// offset 12*i, so it supports true ordered range scans (spec §4.4),
// unlike Disk's hash-trie which cannot order by key.
package george

type sequenceNode struct {
	store     *fileStore
	headerLen int64
	unique    bool
}

func openSequenceNode(store *fileStore, headerLen int64, unique bool) *sequenceNode {
	return &sequenceNode{store: store, headerLen: headerLen, unique: unique}
}

func (n *sequenceNode) seekFor(keyHash uint64) int64 {
	return n.headerLen + int64(keyHash)*locatorSize
}

func (n *sequenceNode) readSlot(seek int64) (locator, error) {
	buf := make([]byte, locatorSize)
	if err := n.store.readAt(buf, seek); err != nil {
		return locator{}, err
	}
	return decodeLocator(buf), nil
}

func (n *sequenceNode) put(keyHash uint64, indexName string, seed *Seed, force bool) error {
	seek := n.seekFor(keyHash)

	if n.unique && !force {
		if existing, err := n.readSlot(seek); err == nil && !existing.isZero() {
			return ErrDataExist
		}
	}

	// Ensure the slot exists on disk before the seed patches it;
	// growing the file here keeps invariant 4 (size is a multiple of
	// the slot width) true even for sparse, far-apart hashes.
	if n.store.size() < seek+locatorSize {
		zero := make([]byte, seek+locatorSize-n.store.size())
		if _, err := n.store.append(zero); err != nil {
			return err
		}
	}

	seed.reserve(indexName, n.store, seek)
	return nil
}

func (n *sequenceNode) get(keyHash uint64) (locator, error) {
	loc, err := n.readSlot(n.seekFor(keyHash))
	if err != nil {
		return locator{}, ErrDataNotFound
	}
	if loc.isZero() {
		return locator{}, ErrDataNotFound
	}
	return loc, nil
}

func (n *sequenceNode) del(keyHash uint64, indexName string, seed *Seed) error {
	seek := n.seekFor(keyHash)
	loc, err := n.readSlot(seek)
	if err != nil || loc.isZero() {
		return ErrDataNotFound
	}
	seed.reserve(indexName, n.store, seek)
	return nil
}

func (n *sequenceNode) scan(leftToRight bool, start, end uint64) ([]locator, error) {
	slotCount := uint64(n.store.size()-n.headerLen) / locatorSize
	lo, hi := start, end
	if hi == 0 || hi > slotCount {
		hi = slotCount
	}
	if slotCount == 0 {
		return nil, nil
	}

	var out []locator
	step := func(h uint64) {
		loc, err := n.readSlot(n.seekFor(h))
		if err == nil && !loc.isZero() {
			out = append(out, loc)
		}
	}
	if leftToRight {
		for h := lo; h <= hi; h++ {
			step(h)
		}
	} else {
		for h := hi; h >= lo && h <= hi; h-- {
			step(h)
			if h == 0 {
				break
			}
		}
	}
	return out, nil
}

func (n *sequenceNode) supportsRange() bool { return true }

func (n *sequenceNode) close() error { return n.store.close() }
