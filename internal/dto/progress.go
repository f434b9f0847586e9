package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Day parses a date from JSON or query input as either date-only
// ("2006-01-02") or RFC3339. Either form normalizes to midnight UTC of that
// day, since board rows are keyed per day.
type Day struct{ t *time.Time }

func (d *Day) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	return d.set(*raw)
}

// Parse fills the day from a query-string value.
func (d *Day) Parse(s string) error {
	if strings.TrimSpace(s) == "" {
		d.t = nil
		return nil
	}
	return d.set(s)
}

func (d *Day) set(s string) error {
	s = strings.TrimSpace(s)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			parsed = parsed.UTC()
			day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			d.t = &day
			return nil
		}
	}
	return fmt.Errorf("date: use YYYY-MM-DD or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d Day) Ptr() *time.Time { return d.t }

// Or returns the parsed day, or fallback if none was given.
func (d Day) Or(fallback time.Time) time.Time {
	if d.t == nil {
		return fallback
	}
	return *d.t
}

// EditRequest is the JSON body for PATCH /progress/{characterID}.
type EditRequest struct {
	Date  Day    `json:"date"` // optional: defaults to today
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// RowResponse is one editable board row.
type RowResponse struct {
	CharacterID     int64             `json:"character_id"`
	Name            string            `json:"name"`
	Class           string            `json:"class"`
	Fields          map[string]string `json:"fields"`
	BlessingSince   *time.Time        `json:"blessing_since,omitempty"`
	BlessingExpired bool              `json:"blessing_expired"`
	Saving          bool              `json:"saving"`
	LastError       string            `json:"last_error,omitempty"`
}

// BoardResponse is the full board for one day.
type BoardResponse struct {
	Date string        `json:"date"`
	Rows []RowResponse `json:"rows"`
}
