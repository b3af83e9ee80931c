// Master bootstrap vs. recover, grounded on original_source's
// task/master.rs: a fresh data directory gets a default database and
// page plus a marker file; an existing one is walked and every
// database/page recovered from its own header+description.
package george

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
)

const bootstrapDefaultName = "default"

// bootstrap decides whether dataDir is being initialized for the
// first time or recovered, and returns whether it was fresh.
func bootstrap(dataDir string) (fresh bool, err error) {
	if err := ensureDir(dataDir); err != nil {
		return false, err
	}
	marker := bootstrapMarkerPath(dataDir)
	if _, err := os.Stat(marker); err == nil {
		return false, nil
	}
	return true, nil
}

// writeBootstrapMarker atomically writes the 1-byte marker file so a
// crash mid-write never leaves a corrupt marker that looks "present
// but unreadable" on the next Open.
func writeBootstrapMarker(dataDir string) error {
	if err := atomic.WriteFile(bootstrapMarkerPath(dataDir), bytes.NewReader([]byte{1})); err != nil {
		return ioErr("write bootstrap marker", err)
	}
	return nil
}
