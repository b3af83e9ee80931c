// Hash functions used to place keys in a Disk or Sequence node's
// address space. Every index picks one algorithm at creation time via
// Config.HashAlgorithm; all engines key off the resulting uint64.
package george

import (
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants, selectable via Config.HashAlgorithm.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// h64 reduces a key's bytes to a 64-bit address. keyType is the
// index's KeyType tag, hashed ahead of the key so the same bytes keyed
// as a string and as an int produce different addresses.
func h64(keyType byte, key []byte, alg int) uint64 {
	switch alg {
	case AlgXXHash3:
		var h xxh3.Hasher
		h.Write([]byte{keyType})
		h.Write(key)
		return h.Sum64()
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write([]byte{keyType})
		h.Write(key)
		return h.Sum64()
	case AlgBlake2b:
		d, _ := blake2b.New(8, nil)
		d.Write([]byte{keyType})
		d.Write(key)
		var out uint64
		for _, b := range d.Sum(nil) {
			out = out<<8 | uint64(b)
		}
		return out
	default:
		var h xxh3.Hasher
		h.Write([]byte{keyType})
		h.Write(key)
		return h.Sum64()
	}
}
