// DataReal is the canonical record written to a View's payload log.
// On the wire it is a hex-encoded, ":#?"-separated tuple of
// increment, base64 key and base64 value (spec §6.5), itself prefixed
// by a 4-byte little-endian length when appended to the log.
package george

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
)

// DataReal is the value type returned by every read path: Index.get,
// View.get, and the query planner's row evaluation all terminate in
// one of these.
type DataReal struct {
	Increment uint64
	Key       string
	Value     []byte
}

const dataRealSep = ":#?"

func (d DataReal) encode() []byte {
	joined := strings.Join([]string{
		strconv.FormatUint(d.Increment, 10),
		base64.StdEncoding.EncodeToString([]byte(d.Key)),
		base64.StdEncoding.EncodeToString(d.Value),
	}, dataRealSep)

	dst := make([]byte, hex.EncodedLen(len(joined)))
	hex.Encode(dst, []byte(joined))
	return dst
}

func decodeDataReal(b []byte) (DataReal, error) {
	raw := make([]byte, hex.DecodedLen(len(b)))
	n, err := hex.Decode(raw, b)
	if err != nil {
		return DataReal{}, parseErr("decode data record", err)
	}
	parts := strings.Split(string(raw[:n]), dataRealSep)
	if len(parts) != 3 {
		return DataReal{}, parseErr("malformed data record", nil)
	}

	inc, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return DataReal{}, parseErr("parse increment", err)
	}
	key, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return DataReal{}, parseErr("decode key", err)
	}
	value, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return DataReal{}, parseErr("decode value", err)
	}
	return DataReal{Increment: inc, Key: string(key), Value: value}, nil
}

// frameRecord prepends the 4-byte little-endian length spec §3
// requires before every payload-log entry.
func frameRecord(d DataReal) []byte {
	body := d.encode()
	out := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(body)))
	copy(out[4:], body)
	return out
}

// readRecord reads one length-framed DataReal from fs starting at
// seek and returns the decoded record.
func readRecord(fs *fileStore, seek int64) (DataReal, error) {
	lenBuf := make([]byte, 4)
	if err := fs.readAt(lenBuf, seek); err != nil {
		return DataReal{}, err
	}
	bodyLen := binary.LittleEndian.Uint32(lenBuf)

	body := make([]byte, bodyLen)
	if err := fs.readAt(body, seek+4); err != nil {
		return DataReal{}, err
	}
	return decodeDataReal(body)
}

// readRecordBytes is readRecord's counterpart for an archived payload
// file already fully decompressed into memory (compress.go), where
// there is no fileStore to flock-and-seek through.
func readRecordBytes(data []byte, seek int64) (DataReal, error) {
	if seek < 0 || seek+4 > int64(len(data)) {
		return DataReal{}, ErrDataNotFound
	}
	bodyLen := binary.LittleEndian.Uint32(data[seek : seek+4])
	start := seek + 4
	end := start + int64(bodyLen)
	if end > int64(len(data)) {
		return DataReal{}, ErrDataNotFound
	}
	return decodeDataReal(data[start:end])
}
