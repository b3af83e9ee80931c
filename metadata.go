// Fixed binary header and variable description block that prefix
// every node/index/view file George writes, per spec §6.2.
//
// Layout: [0:32) metadata, fixed width, binary (not JSON — unlike the
// teacher's header.go, the trie math in node_disk.go needs to compute
// slab offsets from fields here without ever invoking a parser).
// [32:40) an 8-byte big-endian total header length. The description
// block follows immediately at offset 40 and ends at that length: a
// hex-encoded string of ":#?"-joined fields.
package george

import (
	"encoding/binary"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
)

// metadataSize is the fixed width of the binary header.
const metadataSize = 32

// descriptionPtrSize is the width of the pointer that follows it.
const descriptionPtrSize = 8

// engine tags which node implementation backs an index file.
type engine uint8

const (
	engineDisk engine = iota + 1
	engineSequence
	engineIncrement
)

// metadata is the fixed-size header written at offset 0 of every
// index file. Dirty is a one-byte flag at offset 6 that markDirty can
// flip in place; no open or close path calls markDirty, so it stays
// as writeHeader wrote it.
type metadata struct {
	Version   uint8
	Engine    engine
	KeyType   uint8
	HashAlg   uint8
	Unique    bool
	Null      bool
	Dirty     bool
	Primary   bool
	Large     bool
	Timestamp int64
}

func (m metadata) encode() [metadataSize]byte {
	var b [metadataSize]byte
	b[0] = m.Version
	b[1] = byte(m.Engine)
	b[2] = m.KeyType
	b[3] = m.HashAlg
	if m.Unique {
		b[4] = 1
	}
	if m.Null {
		b[5] = 1
	}
	if m.Dirty {
		b[6] = 1
	}
	if m.Primary {
		b[7] = 1
	}
	if m.Large {
		b[16] = 1
	}
	binary.BigEndian.PutUint64(b[8:16], uint64(m.Timestamp))
	return b
}

func decodeMetadata(b []byte) metadata {
	_ = b[metadataSize-1]
	return metadata{
		Version:   b[0],
		Engine:    engine(b[1]),
		KeyType:   b[2],
		HashAlg:   b[3],
		Unique:    b[4] != 0,
		Null:      b[5] != 0,
		Dirty:     b[6] != 0,
		Primary:   b[7] != 0,
		Large:     b[16] != 0,
		Timestamp: int64(binary.BigEndian.Uint64(b[8:16])),
	}
}

// description is the small tuple of human-meaningful names recorded
// alongside the binary header: the owning database, view and index
// name. It is stored hex-encoded so the header region never contains
// a byte that could be mistaken for a locator or trie slab.
type description struct {
	Database string
	View     string
	Index    string
}

const descriptionSep = ":#?"

func (d description) encode() []byte {
	joined := strings.Join([]string{d.Database, d.View, d.Index}, descriptionSep)
	dst := make([]byte, hex.EncodedLen(len(joined)))
	hex.Encode(dst, []byte(joined))
	return dst
}

func decodeDescription(b []byte) (description, error) {
	raw := make([]byte, hex.DecodedLen(len(b)))
	n, err := hex.Decode(raw, b)
	if err != nil {
		return description{}, parseErr("decode description", err)
	}
	parts := strings.Split(string(raw[:n]), descriptionSep)
	if len(parts) != 3 {
		return description{}, parseErr("malformed description tuple: "+strconv.Itoa(len(parts))+" fields", nil)
	}
	return description{Database: parts[0], View: parts[1], Index: parts[2]}, nil
}

// writeHeader writes the metadata block, the description pointer and
// the description itself starting at offset 0 of f. It returns the
// total byte length of the combined header region.
func writeHeader(f *os.File, m metadata, d description) (int64, error) {
	enc := m.encode()
	desc := d.encode()

	headerLen := int64(metadataSize + descriptionPtrSize + len(desc))

	buf := make([]byte, headerLen)
	copy(buf[0:metadataSize], enc[:])
	binary.BigEndian.PutUint64(buf[metadataSize:metadataSize+descriptionPtrSize], uint64(headerLen))
	copy(buf[metadataSize+descriptionPtrSize:], desc)

	if _, err := f.WriteAt(buf, 0); err != nil {
		return 0, ioErr("write header", err)
	}
	return headerLen, nil
}

// readHeader recovers the metadata and description from f, returning
// also the total header length so callers know where the node's own
// data region begins.
func readHeader(f *os.File) (metadata, description, int64, error) {
	fixed := make([]byte, metadataSize+descriptionPtrSize)
	if _, err := f.ReadAt(fixed, 0); err != nil {
		return metadata{}, description{}, 0, ioErr("read header", err)
	}
	m := decodeMetadata(fixed[0:metadataSize])
	headerLen := int64(binary.BigEndian.Uint64(fixed[metadataSize : metadataSize+descriptionPtrSize]))
	if headerLen <= int64(len(fixed)) {
		return metadata{}, description{}, 0, parseErr("corrupt header pointer", nil)
	}

	descBuf := make([]byte, headerLen-int64(len(fixed)))
	if _, err := f.ReadAt(descBuf, int64(len(fixed))); err != nil {
		return metadata{}, description{}, 0, ioErr("read description", err)
	}
	d, err := decodeDescription(descBuf)
	if err != nil {
		return metadata{}, description{}, 0, err
	}
	return m, d, headerLen, nil
}

// markDirty flips the dirty byte in place without rewriting the whole
// header. Nothing in the open, write or close paths calls it.
func markDirty(f *os.File, dirty bool) error {
	b := byte(0)
	if dirty {
		b = 1
	}
	_, err := f.WriteAt([]byte{b}, 6)
	return err
}
