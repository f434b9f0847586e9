package domain

import "time"

// DateRange is an inclusive date filter. Either bound may be absent.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Valid reports whether the range is usable: if both bounds are set, From
// must not be after To.
func (r DateRange) Valid() bool {
	if r.From == nil || r.To == nil {
		return true
	}
	return !r.From.After(*r.To)
}

// Bounds normalizes date-only bounds to timestamp bounds: From becomes the
// start of its day and To the end of its day, both UTC, so timestamp
// comparisons stay inclusive on both ends.
func (r DateRange) Bounds() (from, to *time.Time) {
	if r.From != nil {
		t := startOfDay(*r.From)
		from = &t
	}
	if r.To != nil {
		t := startOfDay(*r.To).Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
