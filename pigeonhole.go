// Pigeonhole is a View's version registry (spec §3): the payload log
// currently being appended to, plus a history of filepaths the log
// was rotated out to by Archive. Every locator carries a version, and
// pigeonhole is what turns that version back into a filepath.
package george

import (
	"fmt"
	"os"
	"strings"
)

// Record names one payload file: the version it was active for, its
// path, and when it was created.
type Record struct {
	Version    uint16
	Filepath   string
	CreateTime int64
}

// Pigeonhole resolves a locator's version to the file it lives in.
// Invariant (spec §3): for any locator stored in any index of this
// view, pigeonhole can resolve version -> filepath.
type Pigeonhole struct {
	now     Record
	history map[uint16]Record
}

func newPigeonhole(path string, createTime int64) *Pigeonhole {
	return &Pigeonhole{
		now:     Record{Version: 1, Filepath: path, CreateTime: createTime},
		history: make(map[uint16]Record),
	}
}

// resolve returns the filepath backing version, or ErrDataNotFound if
// no record (current or archived) covers it.
func (p *Pigeonhole) resolve(version uint16) (string, error) {
	if version == p.now.Version {
		return p.now.Filepath, nil
	}
	if r, ok := p.history[version]; ok {
		return r.Filepath, nil
	}
	return "", ErrDataNotFound
}

// archive retires the current payload file to targetDir, bumps the
// version, and starts a fresh current file at freshPath. Spec S5: all
// rows written before the call keep resolving through history, rows
// after resolve through the new current record.
func (p *Pigeonhole) archive(targetDir, freshPath string, now int64, compress bool) error {
	retiredPath, err := p.moveToHistory(targetDir, compress)
	if err != nil {
		return err
	}
	p.history[p.now.Version] = Record{Version: p.now.Version, Filepath: retiredPath, CreateTime: p.now.CreateTime}
	p.now = Record{Version: p.now.Version + 1, Filepath: freshPath, CreateTime: now}
	return nil
}

func (p *Pigeonhole) moveToHistory(targetDir string, compress bool) (string, error) {
	dest := fmt.Sprintf("%s/v%d.ge", strings.TrimSuffix(targetDir, "/"), p.now.Version)
	if !compress {
		if err := os.Rename(p.now.Filepath, dest); err != nil {
			return "", ioErr("archive rename", err)
		}
		return dest, nil
	}

	raw, err := os.ReadFile(p.now.Filepath)
	if err != nil {
		return "", ioErr("read archive source", err)
	}
	dest += ".zst"
	if err := os.WriteFile(dest, compressArchive(raw), 0o644); err != nil {
		return "", ioErr("write compressed archive", err)
	}
	if err := os.Remove(p.now.Filepath); err != nil {
		return "", ioErr("remove archived source", err)
	}
	return dest, nil
}

// encode serialises the pigeonhole for inclusion in the view's
// hex-encoded description tuple (spec §6.3's "pigeonhole_string").
func (p *Pigeonhole) encode() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d,%s,%d", p.now.Version, p.now.Filepath, p.now.CreateTime)
	for v, r := range p.history {
		fmt.Fprintf(&sb, ";%d,%s,%d", v, r.Filepath, r.CreateTime)
		_ = v
	}
	return sb.String()
}

func decodePigeonhole(s string) (*Pigeonhole, error) {
	parts := strings.Split(s, ";")
	if len(parts) == 0 || parts[0] == "" {
		return nil, parseErr("empty pigeonhole string", nil)
	}
	p := &Pigeonhole{history: make(map[uint16]Record)}
	for i, part := range parts {
		fields := strings.SplitN(part, ",", 3)
		if len(fields) != 3 {
			return nil, parseErr("malformed pigeonhole record", nil)
		}
		var version uint16
		var createTime int64
		if _, err := fmt.Sscanf(fields[0], "%d", &version); err != nil {
			return nil, parseErr("pigeonhole version", err)
		}
		if _, err := fmt.Sscanf(fields[2], "%d", &createTime); err != nil {
			return nil, parseErr("pigeonhole timestamp", err)
		}
		r := Record{Version: version, Filepath: fields[1], CreateTime: createTime}
		if i == 0 {
			p.now = r
		} else {
			p.history[version] = r
		}
	}
	return p, nil
}
