package george

import "time"

// now stamps create_time/timestamp fields throughout the store.
// Isolated to one function so tests can see exactly where wall-clock
// time enters the package.
func now() int64 { return time.Now().UnixNano() }
