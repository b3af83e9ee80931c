package george

import (
	"encoding/binary"
)

// locatorSize is the on-disk width of a locator: 2 bytes version, 4
// bytes payload length, 6 bytes seek (48 bits, enough for a 256TB
// view file).
const locatorSize = 12

// locator points at one payload record inside a View's data file.
type locator struct {
	Version uint16
	Len     uint32
	Seek    uint64 // high 16 bits must be zero; stored as 48 bits on disk
}

// zeroLocator is the sentinel written into an index slot that has
// never been filled, or that was reserved by a Seed but whose write
// never completed.
var zeroLocator = locator{}

func (l locator) isZero() bool { return l == zeroLocator }

func encodeLocator(l locator) [locatorSize]byte {
	var b [locatorSize]byte
	binary.BigEndian.PutUint16(b[0:2], l.Version)
	binary.BigEndian.PutUint32(b[2:6], l.Len)
	var seek [8]byte
	binary.BigEndian.PutUint64(seek[:], l.Seek<<16)
	copy(b[6:12], seek[0:6])
	return b
}

func decodeLocator(b []byte) locator {
	_ = b[locatorSize-1] // bounds check hint
	var seek [8]byte
	copy(seek[2:8], b[6:12])
	return locator{
		Version: binary.BigEndian.Uint16(b[0:2]),
		Len:     binary.BigEndian.Uint32(b[2:6]),
		Seek:    binary.BigEndian.Uint64(seek[:]),
	}
}
