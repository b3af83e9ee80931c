// diskNode is the hash-trie B+Tree described in spec §4.5: a 4-level
// descent over fixed-width slabs of child pointers, terminating in a
// leaf pointer into a "linked" file holding 12-byte locators (plus a
// 4-byte next-chain pointer for non-unique indexes).
//
// Each trie level lives in its own growable fileStore rather than one
// file per path-prefix directory entry — the original's per-prefix
// filename scheme is a filesystem-layout detail; the slab-pointer
// semantics spec §4.5 actually tests (zero=absent, append-and-patch
// on first touch) are preserved exactly, just inside fewer, larger
// files. See DESIGN.md.
package george

import (
	"encoding/binary"
)

// ptrSize is the width of one child pointer / leaf pointer.
const ptrSize = 8

// linkedEntrySize is 12 bytes of locator plus a 4-byte next pointer.
const linkedEntrySize = locatorSize + 4

// diskFanout selects 256-way (small, 32-bit hash) or 65536-way
// (large, 64-bit hash) addressing, per spec §4.5.
type diskFanout struct {
	digitBits int // 8 (small) or 16 (large)
	slabSize  int64
}

var (
	diskFanoutSmall = diskFanout{digitBits: 8, slabSize: 256 * ptrSize}
	diskFanoutLarge = diskFanout{digitBits: 16, slabSize: 65536 * ptrSize}
)

type diskNode struct {
	root      *fileStore // "node": exactly one root slab at headerLen
	level1    *fileStore
	level2    *fileStore
	level3    *fileStore // leaf level: slots point into linked
	linked    *fileStore
	headerLen int64
	fanout    diskFanout
	unique    bool
}

func openDiskNode(root, level1, level2, level3, linked *fileStore, headerLen int64, fanout diskFanout, unique bool) (*diskNode, error) {
	n := &diskNode{
		root: root, level1: level1, level2: level2, level3: level3, linked: linked,
		headerLen: headerLen, fanout: fanout, unique: unique,
	}
	if n.root.isEmpty() || n.root.size() < headerLen+fanout.slabSize {
		if _, err := n.root.append(make([]byte, headerLen+fanout.slabSize-n.root.size())); err != nil {
			return nil, err
		}
	}
	// Offset 0 of every child and linked file is taken by a zero-filled
	// pad, so a stored pointer of 0 always means "absent".
	for _, s := range []*fileStore{n.level1, n.level2, n.level3} {
		if s.isEmpty() {
			if _, err := s.append(make([]byte, fanout.slabSize)); err != nil {
				return nil, err
			}
		}
	}
	if n.linked.isEmpty() {
		if _, err := n.linked.append(make([]byte, linkedEntrySize)); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// splitDigits breaks h into four digits of fanout.digitBits width,
// most significant first (d0 indexes the root slab, d3 the leaf).
func (f diskFanout) splitDigits(h uint64) [4]uint64 {
	mask := uint64(1)<<uint(f.digitBits) - 1
	total := f.digitBits * 4
	var out [4]uint64
	for i := 0; i < 4; i++ {
		shift := total - f.digitBits*(i+1)
		out[i] = (h >> uint(shift)) & mask
	}
	return out
}

func readPtr(fs *fileStore, offset int64) (uint64, error) {
	buf := make([]byte, ptrSize)
	if err := fs.readAt(buf, offset); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func writePtr(fs *fileStore, offset int64, v uint64) error {
	buf := make([]byte, ptrSize)
	binary.BigEndian.PutUint64(buf, v)
	return fs.writeAt(buf, offset)
}

// followOrAllocate reads the child pointer at parentSlot; if zero, it
// appends a fresh zero-filled slab to child and patches parentSlot to
// point at it (spec §4.5 step 1).
func followOrAllocate(parent *fileStore, parentSlot int64, child *fileStore, slabSize int64) (int64, error) {
	ptr, err := readPtr(parent, parentSlot)
	if err != nil {
		return 0, err
	}
	if ptr != 0 {
		return int64(ptr), nil
	}

	off, err := child.append(make([]byte, slabSize))
	if err != nil {
		return 0, err
	}
	if err := writePtr(parent, parentSlot, uint64(off)); err != nil {
		return 0, err
	}
	return off, nil
}

// descend walks all four levels, allocating slabs lazily, and returns
// the byte offset of the leaf slot (within level3) that addresses the
// linked-file chain for h. allocate=false stops and reports "absent"
// instead of creating slabs, for read-only lookups.
func (n *diskNode) descend(h uint64, allocate bool) (leafSlot int64, ok bool, err error) {
	digits := n.fanout.splitDigits(h)
	slab := n.headerLen // root slab base

	slot0 := slab + int64(digits[0])*ptrSize
	off1, ok, err := n.step(n.root, slot0, n.level1, allocate)
	if err != nil || !ok {
		return 0, ok, err
	}

	slot1 := off1 + int64(digits[1])*ptrSize
	off2, ok, err := n.step(n.level1, slot1, n.level2, allocate)
	if err != nil || !ok {
		return 0, ok, err
	}

	slot2 := off2 + int64(digits[2])*ptrSize
	off3, ok, err := n.step(n.level2, slot2, n.level3, allocate)
	if err != nil || !ok {
		return 0, ok, err
	}

	return off3 + int64(digits[3])*ptrSize, true, nil
}

func (n *diskNode) step(parent *fileStore, slot int64, child *fileStore, allocate bool) (int64, bool, error) {
	if !allocate {
		ptr, err := readPtr(parent, slot)
		if err != nil {
			return 0, false, err
		}
		if ptr == 0 {
			return 0, false, nil
		}
		return int64(ptr), true, nil
	}
	off, err := followOrAllocate(parent, slot, child, n.fanout.slabSize)
	if err != nil {
		return 0, false, err
	}
	return off, true, nil
}

func (n *diskNode) put(h uint64, indexName string, seed *Seed, force bool) error {
	leafSlot, _, err := n.descend(h, true)
	if err != nil {
		return err
	}

	leafPtr, err := readPtr(n.level3, leafSlot)
	if err != nil {
		return err
	}

	if leafPtr == 0 {
		entry := make([]byte, linkedEntrySize)
		seek, err := n.linked.append(entry)
		if err != nil {
			return err
		}
		if err := writePtr(n.level3, leafSlot, uint64(seek)); err != nil {
			return err
		}
		seed.reserve(indexName, n.linked, seek)
		return nil
	}

	if n.unique {
		if !force {
			loc, err := n.readLocatorAt(int64(leafPtr))
			if err != nil {
				return err
			}
			if !loc.isZero() {
				return ErrDataExist
			}
		}
		seed.reserve(indexName, n.linked, int64(leafPtr))
		return nil
	}

	// Non-unique: walk the next chain to its tail, append a fresh
	// entry, and patch the previous tail's next pointer.
	seek := int64(leafPtr)
	for {
		nextBuf := make([]byte, 4)
		if err := n.linked.readAt(nextBuf, seek+locatorSize); err != nil {
			return err
		}
		next := binary.BigEndian.Uint32(nextBuf)
		if next == 0 {
			break
		}
		seek = int64(next)
	}

	entry := make([]byte, linkedEntrySize)
	newSeek, err := n.linked.append(entry)
	if err != nil {
		return err
	}
	nextBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(nextBuf, uint32(newSeek))
	if err := n.linked.writeAt(nextBuf, seek+locatorSize); err != nil {
		return err
	}
	seed.reserve(indexName, n.linked, newSeek)
	return nil
}

func (n *diskNode) readLocatorAt(seek int64) (locator, error) {
	buf := make([]byte, locatorSize)
	if err := n.linked.readAt(buf, seek); err != nil {
		return locator{}, err
	}
	return decodeLocator(buf), nil
}

func (n *diskNode) get(h uint64) (locator, error) {
	leafSlot, ok, err := n.descend(h, false)
	if err != nil {
		return locator{}, err
	}
	if !ok {
		return locator{}, ErrDataNotFound
	}
	leafPtr, err := readPtr(n.level3, leafSlot)
	if err != nil {
		return locator{}, err
	}
	if leafPtr == 0 {
		return locator{}, ErrDataNotFound
	}
	loc, err := n.readLocatorAt(int64(leafPtr))
	if err != nil {
		return locator{}, err
	}
	if loc.isZero() {
		return locator{}, ErrDataNotFound
	}
	return loc, nil
}

func (n *diskNode) del(h uint64, indexName string, seed *Seed) error {
	leafSlot, ok, err := n.descend(h, false)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDataNotFound
	}
	leafPtr, err := readPtr(n.level3, leafSlot)
	if err != nil {
		return err
	}
	if leafPtr == 0 {
		return ErrDataNotFound
	}
	loc, err := n.readLocatorAt(int64(leafPtr))
	if err != nil {
		return err
	}
	if loc.isZero() {
		return ErrDataNotFound
	}
	seed.reserve(indexName, n.linked, int64(leafPtr))
	return nil
}

// scan iterates every leaf slab across every allocated level1/level2
// root path and follows every chain, per spec §4.5: a Disk index is
// not range-ordered, so select against it always walks everything.
func (n *diskNode) scan(leftToRight bool, _, _ uint64) ([]locator, error) {
	var out []locator

	level3Size := n.level3.size()
	for slabOff := int64(0); slabOff < level3Size; slabOff += n.fanout.slabSize {
		for digit := int64(0); digit < n.fanout.slabSize/ptrSize; digit++ {
			slot := slabOff + digit*ptrSize
			leafPtr, err := readPtr(n.level3, slot)
			if err != nil || leafPtr == 0 {
				continue
			}
			seek := int64(leafPtr)
			for seek != 0 {
				loc, err := n.readLocatorAt(seek)
				if err == nil && !loc.isZero() {
					out = append(out, loc)
				}
				nextBuf := make([]byte, 4)
				if err := n.linked.readAt(nextBuf, seek+locatorSize); err != nil {
					break
				}
				next := binary.BigEndian.Uint32(nextBuf)
				if next == 0 {
					break
				}
				seek = int64(next)
			}
		}
	}

	if !leftToRight {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (n *diskNode) supportsRange() bool { return false }

func (n *diskNode) close() error {
	var first error
	for _, s := range []*fileStore{n.root, n.level1, n.level2, n.level3, n.linked} {
		if err := s.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
