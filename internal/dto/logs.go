package dto

import "time"

// LogRowResponse is one activity log entry with its open value set.
type LogRowResponse struct {
	LoggedAt time.Time      `json:"logged_at"`
	Details  map[string]any `json:"details"`
}

// LogsResponse carries the filtered entries plus the derived column order, so
// the client renders the same table the CSV export would produce.
type LogsResponse struct {
	Columns []string         `json:"columns"`
	Rows    []LogRowResponse `json:"rows"`
}
