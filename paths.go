// Filesystem layout, per spec §6.1:
//
//	<data>/
//	  bootstrap.sr
//	  database/<db>/database.ge
//	    <view>/view.ge
//	      <index>/index.ge, node, level1, level2, level3, linked
//	  page/<page>/   (directory only; nothing writes page.ge)
package george

import (
	"os"
	"path/filepath"
)

func bootstrapMarkerPath(dataDir string) string { return filepath.Join(dataDir, "bootstrap.sr") }

func databaseDir(dataDir, db string) string { return filepath.Join(dataDir, "database", db) }

func databaseFilePath(dataDir, db string) string {
	return filepath.Join(databaseDir(dataDir, db), "database.ge")
}

func viewDir(dataDir, db, view string) string {
	return filepath.Join(databaseDir(dataDir, db), view)
}

func viewFilePath(dataDir, db, view string) string {
	return filepath.Join(viewDir(dataDir, db, view), "view.ge")
}

func indexDir(dataDir, db, view, index string) string {
	return filepath.Join(viewDir(dataDir, db, view), index)
}

func indexFilePath(dataDir, db, view, index string) string {
	return filepath.Join(indexDir(dataDir, db, view, index), "index.ge")
}

func pageDir(dataDir, page string) string { return filepath.Join(dataDir, "page", page) }

func pageFilePath(dataDir, page string) string {
	return filepath.Join(pageDir(dataDir, page), "page.ge")
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return ioErr("mkdir "+path, err)
	}
	return nil
}
