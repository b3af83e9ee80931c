// Construction and recovery for Index: wires a node engine to its
// file(s), writing the fixed header on first creation and replaying
// it as ground truth on recovery.
package george

import (
	"os"

	"go.uber.org/zap"
)

// IndexOptions describes a new index at creation time. Large selects
// the 64-bit/65536-fanout Disk variant over the default 32-bit/256.
type IndexOptions struct {
	Name    string
	Engine  engine
	Primary bool
	Unique  bool
	Null    bool
	KeyType KeyType
	Large   bool
}

func openOrCreateIndex(dataDir, db, view string, opts IndexOptions, cfg Config, log *zap.SugaredLogger) (*Index, error) {
	dir := indexDir(dataDir, db, view, opts.Name)
	if err := ensureDir(dir); err != nil {
		return nil, err
	}

	metaPath := indexFilePath(dataDir, db, view, opts.Name)
	fresh := true
	if _, err := os.Stat(metaPath); err == nil {
		fresh = false
	}

	metaStore, err := openStore(metaPath)
	if err != nil {
		return nil, err
	}

	var headerLen int64
	var createTime int64
	if fresh {
		createTime = now()
		headerLen, err = writeHeader(metaStore.writer, metadata{
			Version: 1, Engine: opts.Engine, KeyType: byte(opts.KeyType),
			HashAlg: uint8(cfg.HashAlgorithm), Unique: opts.Unique, Null: opts.Null,
			Primary: opts.Primary, Large: opts.Large, Timestamp: createTime,
		}, description{Database: db, View: view, Index: opts.Name})
		if err != nil {
			return nil, err
		}
		metaStore.tail.Store(headerLen)
	} else {
		m, _, hl, err := readHeader(metaStore.reader)
		if err != nil {
			return nil, err
		}
		headerLen = hl
		opts.Engine = m.Engine
		opts.Unique = m.Unique
		opts.Null = m.Null
		opts.Primary = m.Primary
		opts.Large = m.Large
		opts.KeyType = KeyType(m.KeyType)
		if m.HashAlg != 0 {
			cfg.HashAlgorithm = int(m.HashAlg)
		}
		createTime = m.Timestamp
	}

	var nd node
	switch opts.Engine {
	case engineIncrement:
		nd = openIncrementNode(metaStore, headerLen)
	case engineSequence:
		nd = openSequenceNode(metaStore, headerLen, opts.Unique)
	case engineDisk:
		fanout := diskFanoutSmall
		if opts.Large {
			fanout = diskFanoutLarge
		}
		root, err := openStore(dir + "/node")
		if err != nil {
			return nil, err
		}
		level1, err := openStore(dir + "/level1")
		if err != nil {
			return nil, err
		}
		level2, err := openStore(dir + "/level2")
		if err != nil {
			return nil, err
		}
		level3, err := openStore(dir + "/level3")
		if err != nil {
			return nil, err
		}
		linked, err := openStore(dir + "/linked")
		if err != nil {
			return nil, err
		}
		dn, err := openDiskNode(root, level1, level2, level3, linked, 0, fanout, opts.Unique)
		if err != nil {
			return nil, err
		}
		nd = dn
	default:
		return nil, parseErr("unknown engine tag", nil)
	}

	return &Index{
		Name: opts.Name, Engine: opts.Engine, Primary: opts.Primary,
		Unique: opts.Unique, Null: opts.Null, KeyType: opts.KeyType,
		createTime: createTime, store: metaStore, node: nd,
		alg: cfg.HashAlgorithm, log: log.Named("index").With("index", opts.Name),
	}, nil
}
