package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/repo"
)

var (
	ErrInvalidRange = errors.New("invalid date range: start is after end")
	ErrUpstream     = errors.New("activity log unavailable")
	ErrExport       = errors.New("export failed")
)

// preferredColumns come first in the log table and CSV, in this order.
// Anything else observed in the data sorts alphabetically after them.
var preferredColumns = []string{
	"date", "character", "event",
	string(dom.FieldDailyQuest),
	string(dom.FieldNestRaid),
	string(dom.FieldWorldBoss),
	string(dom.FieldBlessing),
}

// LogService reads and exports the activity log. It never writes entries;
// the snapshot/reset procedures own that.
type LogService struct {
	repo repo.LogRepo
}

func NewLogService(r repo.LogRepo) *LogService {
	return &LogService{repo: r}
}

// Fetch returns the user's entries inside the range, newest first. The range
// is validated before any store call; an empty result is not an error.
func (s *LogService) Fetch(ctx context.Context, userID int64, r dom.DateRange) ([]dom.LogEntry, error) {
	if !r.Valid() {
		return nil, ErrInvalidRange
	}
	from, to := r.Bounds()
	entries, err := s.repo.Range(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return entries, nil
}

// OrderColumns derives the display column order from the union of keys seen
// across the entries. The result depends only on the key set, never on entry
// order.
func (s *LogService) OrderColumns(entries []dom.LogEntry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		for k := range e.Details {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for _, p := range preferredColumns {
		if seen[p] {
			cols = append(cols, p)
			delete(seen, p)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

// ExportCSV re-fetches with the same filter semantics as Fetch and writes the
// whole document to w: header first, then one record per entry, absent values
// empty. On any fetch error nothing is written, so a failed export never
// leaves a partial document behind.
func (s *LogService) ExportCSV(ctx context.Context, userID int64, r dom.DateRange, w io.Writer) error {
	entries, err := s.Fetch(ctx, userID, r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExport, err)
	}
	cols := s.OrderColumns(entries)
	if len(cols) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	record := make([]string, len(cols))
	for _, e := range entries {
		for i, col := range cols {
			record[i] = formatValue(e.Details[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// formatValue renders one schema-less log value as CSV text. JSON numbers
// arrive as float64.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
