package george

import "go.uber.org/zap"

// Config holds the tunables shared by every Master, Database, View and
// Index opened in a data directory. The zero value is valid: it is
// filled in with the defaults below by Open. A YAML or flag
// parsed form of this struct is out of scope here — callers build one
// however suits their binary and pass it in.
type Config struct {
	// HashAlgorithm selects AlgXXHash3 (default), AlgFNV1a or
	// AlgBlake2b for every Disk/Sequence index created under this
	// Master.
	HashAlgorithm int

	// ReadBuffer is defaulted to 64KB by withDefaults. No read path in
	// this package consults it: payload reads are unbuffered ReadAt
	// calls.
	ReadBuffer int

	// MaxRecordSize is defaulted to 16MB by withDefaults. View.Save does
	// not check a record's size against it.
	MaxRecordSize int

	// SyncWrites calls fsync after every payload append and index
	// slot write. Off by default; George's durability story is
	// "crash loses at most the last unsynced write", not a WAL.
	SyncWrites bool

	// CompressArchives zstd-compresses a view payload file when the
	// pigeonhole retires it during rotation.
	CompressArchives bool

	// Logger receives structured events from every layer. A no-op
	// logger is substituted when nil.
	Logger *zap.SugaredLogger
}

func (c Config) withDefaults() Config {
	if c.HashAlgorithm == 0 {
		c.HashAlgorithm = AlgXXHash3
	}
	if c.ReadBuffer == 0 {
		c.ReadBuffer = 64 * 1024
	}
	if c.MaxRecordSize == 0 {
		c.MaxRecordSize = 16 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	return c
}
