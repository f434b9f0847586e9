// Package tracker keeps the in-memory editable board for one user and day in
// sync with the remote state store. Edits apply locally first so the UI stays
// responsive; every edit triggers a full-row upsert in the background, and a
// failed upsert puts the snapshotted value back and attaches the error to the
// row. A row is therefore always either "edit accepted" or "edit fully
// reverted", never half-applied.
package tracker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
)

var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrUnknownField     = errors.New("unknown field")
	ErrBadValue         = errors.New("value not allowed for field")
)

// Store persists one board row. Implementations must be safe for concurrent
// use; the board issues one Upsert goroutine per edit.
type Store interface {
	Upsert(ctx context.Context, state domain.ProgressState) error
}

// Row is one character's editable state. Saving is true exactly while at
// least one persistence attempt for the row is in flight; LastError holds the
// message of the most recent failed attempt.
type Row struct {
	Character domain.Character
	State     domain.ProgressState
	Saving    bool
	LastError string

	pending int
}

// Board holds the editable rows for one user and day.
type Board struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
	day   time.Time
	rows  map[int64]*Row
}

// New builds a board from the character list and whatever persisted states
// exist for the day. Characters without a state row start from defaults.
func New(store Store, day time.Time, chars []domain.Character, states []domain.ProgressState) *Board {
	byChar := make(map[int64]domain.ProgressState, len(states))
	for _, st := range states {
		byChar[st.CharacterID] = st
	}
	b := &Board{
		store: store,
		now:   time.Now,
		day:   day,
		rows:  make(map[int64]*Row, len(chars)),
	}
	for _, c := range chars {
		st, ok := byChar[c.ID]
		if !ok {
			st = domain.ProgressState{CharacterID: c.ID, Date: day, Fields: domain.DefaultFields()}
		}
		b.rows[c.ID] = &Row{Character: c, State: st.Clone()}
	}
	return b
}

// WithClock replaces the board's time source. Used by tests.
func (b *Board) WithClock(now func() time.Time) *Board {
	b.now = now
	return b
}

// Day returns the day this board tracks.
func (b *Board) Day() time.Time { return b.day }

// Rows returns a copy of all rows ordered by character name, then ID.
func (b *Board) Rows() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Row, 0, len(b.rows))
	for _, r := range b.rows {
		out = append(out, r.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Character.Name != out[j].Character.Name {
			return out[i].Character.Name < out[j].Character.Name
		}
		return out[i].Character.ID < out[j].Character.ID
	})
	return out
}

// Row returns a copy of one row.
func (b *Board) Row(characterID int64) (Row, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.rows[characterID]
	if !ok {
		return Row{}, false
	}
	return r.snapshot(), true
}

// ApplyEdit validates the edit, applies it to the row immediately, and starts
// a background upsert of the full row. It returns the optimistic row view and
// a channel that is closed when the persistence attempt settles. Persistence
// failures never surface here; they land in the row's LastError.
func (b *Board) ApplyEdit(ctx context.Context, characterID int64, field domain.Field, value string) (Row, <-chan struct{}, error) {
	b.mu.Lock()
	row, ok := b.rows[characterID]
	if !ok {
		b.mu.Unlock()
		return Row{}, nil, ErrUnknownCharacter
	}
	if !domain.KnownField(field) {
		b.mu.Unlock()
		return Row{}, nil, ErrUnknownField
	}
	if !domain.ValidValue(field, value) {
		b.mu.Unlock()
		return Row{}, nil, ErrBadValue
	}

	// Rollback snapshot, captured before the speculative commit.
	prevValue := row.State.Fields[field]
	prevSince := row.State.BlessingSince

	since := row.State.BlessingSince
	if field == domain.FieldBlessing {
		if value == string(domain.BlessingActive) {
			t := b.now().UTC()
			since = &t
		} else {
			since = nil
		}
	}

	row.State.Fields[field] = value
	row.State.BlessingSince = since
	row.pending++
	row.Saving = true
	row.LastError = ""

	payload := row.State.Clone()
	view := row.snapshot()
	b.mu.Unlock()

	// An in-flight upsert always runs to completion; the request that issued
	// it may finish first.
	ctx = context.WithoutCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := b.store.Upsert(ctx, payload)

		b.mu.Lock()
		defer b.mu.Unlock()
		row.pending--
		if row.pending == 0 {
			row.Saving = false
		}
		if err == nil {
			return
		}
		// Revert to the snapshot, unless a newer edit already owns the field:
		// a stale failure must not clobber a fresher optimistic value.
		if row.State.Fields[field] == value {
			row.State.Fields[field] = prevValue
		}
		if field == domain.FieldBlessing && sameInstant(row.State.BlessingSince, since) {
			row.State.BlessingSince = prevSince
		}
		row.LastError = err.Error()
	}()

	return view, done, nil
}

func (r *Row) snapshot() Row {
	out := *r
	out.State = r.State.Clone()
	return out
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
