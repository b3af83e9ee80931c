// Package george is an embedded, schema-light document store with
// pluggable index engines, optional in-memory pages, and a coordinated
// multi-index write path.
//
// The hierarchy is Master -> Page/Database -> View -> Index -> Node.
// A Master owns every Page and Database opened in a data directory. A
// Database is a named collection of Views; a View is an append-only
// payload log ("the table") plus a set of secondary Indexes kept in
// sync with it. Writes fan out across a View's indexes and commit the
// payload only once every index has reserved a slot for it (see
// seed.go); reads resolve an index hit to a byte range in the View's
// payload log.
package george
