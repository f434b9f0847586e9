package domain

import "time"

// LogEntry is one immutable activity log record. Entries are appended by the
// snapshot/reset procedures in the database; this service only reads them.
// Details carries an open key set, so the column list is derived from the
// data, not from a struct.
type LogEntry struct {
	ID       int64
	UserID   int64
	LoggedAt time.Time
	Details  map[string]any
}
