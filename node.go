// node is the closed tagged variant spec §9's design notes call for:
// the three engines (incrementNode, sequenceNode, diskNode) share
// this shape but differ enough in storage layout that a shared base
// struct would hide more than it would share.
package george

// node is implemented by incrementNode, sequenceNode and diskNode.
// keyHash is the address Index.addressOf computes: h64(keyType, rawKey)
// for string and untyped keys, addressForKeyType's encoding for
// int/uint/float/bool keys, and the literal counter for the increment
// engine. The node never sees the raw key.
type node interface {
	// put reserves a slot for keyHash in seed, to be patched once the
	// seed commits. force=false on a unique node fails with
	// ErrDataExist if the slot is already occupied.
	put(keyHash uint64, indexName string, seed *Seed, force bool) error

	// get resolves keyHash to the locator stored for it, or
	// ErrDataNotFound if no slot has ever been filled.
	get(keyHash uint64) (locator, error)

	// del reserves a zeroing write for keyHash's slot, or returns
	// ErrDataNotFound if the key was never present. incrementNode
	// does not support del and returns ErrMethodNotSupport.
	del(keyHash uint64, indexName string, seed *Seed) error

	// scan walks the node's hash space from start to end (inclusive)
	// in the given direction, returning every non-empty locator it
	// finds. Disk nodes ignore start/end ordering semantics and walk
	// every leaf (spec §4.5: "not range-ordered by key").
	scan(leftToRight bool, start, end uint64) ([]locator, error)

	// supportsRange reports whether start/end in scan are meaningful
	// range bounds (true for Sequence, false for Disk and Increment,
	// which the planner must not pick as a range-bound source).
	supportsRange() bool

	// close releases the node's file handles.
	close() error
}
