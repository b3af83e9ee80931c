// Compression for archived (rotated) view payload files.
//
// When a View's pigeonhole retires a payload file during archiving, the
// retired file is optionally Zstd-compressed so cold history does not
// carry the full cost of the raw append log. Ascii85 is not used here —
// unlike the teacher's inline per-record history field, the archive is
// a whole binary file, so there is no line-delimited-text constraint
// forcing a printable encoding.
package george

import (
	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder — both are documented as safe for concurrent
// use. Allocated once because construction is expensive and archiving
// is infrequent relative to the write path it must not slow down.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

func compressArchive(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return zstdEncoder.EncodeAll(data, nil)
}

func decompressArchive(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, ioErr("decompress archive", err)
	}
	return out, nil
}
