package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Selalualwayskadangkidding/dn-tracker/internal/cache"
	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/repo"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/tracker"

	"golang.org/x/sync/singleflight"
)

// ProgressService owns the live boards. Each (user, day) pair gets one
// in-memory tracker board seeded from the store; edits go through the board
// so the optimistic apply/rollback discipline is enforced in one place.
type ProgressService struct {
	chars repo.CharacterRepo
	state repo.StateRepo
	cache *cache.BoardCache
	sf    singleflight.Group
	now   func() time.Time

	mu     sync.Mutex
	boards map[boardKey]*tracker.Board
}

type boardKey struct {
	userID int64
	day    string
}

// NewProgressService creates a ProgressService. If c is nil, caching is disabled.
func NewProgressService(chars repo.CharacterRepo, state repo.StateRepo, c *cache.BoardCache) *ProgressService {
	return &ProgressService{
		chars:  chars,
		state:  state,
		cache:  c,
		now:    time.Now,
		boards: make(map[boardKey]*tracker.Board),
	}
}

// Board returns the editable rows for the user's board on the given day,
// loading and seeding it on first access.
func (s *ProgressService) Board(ctx context.Context, userID int64, day time.Time) ([]tracker.Row, error) {
	b, err := s.board(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return b.Rows(), nil
}

// Edit applies one optimistic field edit and returns the row as it looks
// right after the speculative commit, plus a channel closed once the upsert
// settles. Validation errors return synchronously; persistence failures show
// up in the row's LastError.
func (s *ProgressService) Edit(ctx context.Context, userID int64, day time.Time, characterID int64, field, value string) (tracker.Row, <-chan struct{}, error) {
	b, err := s.board(ctx, userID, day)
	if err != nil {
		return tracker.Row{}, nil, err
	}
	return b.ApplyEdit(ctx, characterID, dom.Field(field), value)
}

// Forget drops the user's in-memory boards and cached states. Called after
// anything that changes progress behind the boards' back (character create,
// daily reset).
func (s *ProgressService) Forget(ctx context.Context, userID int64) {
	s.mu.Lock()
	for key := range s.boards {
		if key.userID == userID {
			delete(s.boards, key)
		}
	}
	s.mu.Unlock()
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}

// TODO: evict boards for past days once the scheduled daily reset is wired up.
func (s *ProgressService) board(ctx context.Context, userID int64, day time.Time) (*tracker.Board, error) {
	key := boardKey{userID: userID, day: day.Format("2006-01-02")}
	s.mu.Lock()
	if b, ok := s.boards[key]; ok {
		s.mu.Unlock()
		return b, nil
	}
	s.mu.Unlock()

	sfKey := "board:" + strconv.FormatInt(userID, 10) + ":" + key.day
	v, err, _ := s.sf.Do(sfKey, func() (interface{}, error) {
		chars, err := s.chars.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		states, err := s.loadStates(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		store := &boardStore{state: s.state, cache: s.cache, userID: userID}
		return tracker.New(store, day, chars, states).WithClock(s.now), nil
	})
	if err != nil {
		return nil, err
	}
	b := v.(*tracker.Board)

	// Another request may have installed a board meanwhile; the installed one
	// wins, since it may already carry edits.
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.boards[key]; ok {
		return cur, nil
	}
	s.boards[key] = b
	return b, nil
}

func (s *ProgressService) loadStates(ctx context.Context, userID int64, day time.Time) ([]dom.ProgressState, error) {
	if s.cache != nil {
		if states, err := s.cache.Get(ctx, userID, day); err == nil && states != nil {
			return states, nil
		}
	}
	states, err := s.state.ForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && states != nil {
		_ = s.cache.Set(ctx, userID, day, states)
	}
	return states, nil
}

// boardStore binds the acting user to the state repo and keeps the Redis
// cache honest after every successful write.
type boardStore struct {
	state  repo.StateRepo
	cache  *cache.BoardCache
	userID int64
}

func (bs *boardStore) Upsert(ctx context.Context, st dom.ProgressState) error {
	if err := bs.state.Upsert(ctx, bs.userID, st); err != nil {
		return err
	}
	if bs.cache != nil {
		_ = bs.cache.Invalidate(ctx, bs.userID, st.Date)
	}
	return nil
}
