package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
)

// stubStore records every upsert and answers with a fixed error.
type stubStore struct {
	mu    sync.Mutex
	err   error
	saved []dom.ProgressState
}

func (s *stubStore) Upsert(ctx context.Context, st dom.ProgressState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, st)
	return s.err
}

func (s *stubStore) savedStates() []dom.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dom.ProgressState(nil), s.saved...)
}

type storeCall struct {
	state dom.ProgressState
	reply chan error
}

// gateStore blocks every Upsert until the test releases it, so tests control
// the order in which persistence attempts settle.
type gateStore struct {
	mu    sync.Mutex
	calls []*storeCall
}

func (s *gateStore) Upsert(ctx context.Context, st dom.ProgressState) error {
	call := &storeCall{state: st, reply: make(chan error)}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
	return <-call.reply
}

func (s *gateStore) waitCalls(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.calls) >= n
	}, time.Second, time.Millisecond)
}

func (s *gateStore) release(t *testing.T, i int, err error) {
	t.Helper()
	s.mu.Lock()
	require.Less(t, i, len(s.calls))
	call := s.calls[i]
	s.mu.Unlock()
	call.reply <- err
}

var testDay = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func testChars() []dom.Character {
	return []dom.Character{
		{ID: 1, UserID: 7, Name: "Arwen", Class: "Moonlord"},
		{ID: 2, UserID: 7, Name: "Beleth", Class: "Saint"},
	}
}

func TestNewSeedsDefaultsAndOverlaysStates(t *testing.T) {
	since := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)
	states := []dom.ProgressState{{
		CharacterID: 2,
		Date:        testDay,
		Fields: map[dom.Field]string{
			dom.FieldDailyQuest: string(dom.DailyCompleted),
			dom.FieldNestRaid:   string(dom.NestCleared),
			dom.FieldWorldBoss:  string(dom.BossNotCleared),
			dom.FieldBlessing:   string(dom.BlessingActive),
		},
		BlessingSince: &since,
	}}
	b := New(&stubStore{}, testDay, testChars(), states)

	rows := b.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Arwen", rows[0].Character.Name)
	assert.Equal(t, string(dom.DailyNotStarted), rows[0].State.Fields[dom.FieldDailyQuest])
	assert.Nil(t, rows[0].State.BlessingSince)

	assert.Equal(t, string(dom.DailyCompleted), rows[1].State.Fields[dom.FieldDailyQuest])
	require.NotNil(t, rows[1].State.BlessingSince)
	assert.True(t, since.Equal(*rows[1].State.BlessingSince))
}

func TestApplyEditVisibleBeforeSaveSettles(t *testing.T) {
	store := &gateStore{}
	b := New(store, testDay, testChars(), nil)

	view, done, err := b.ApplyEdit(context.Background(), 1, dom.FieldDailyQuest, string(dom.DailyCompleted))
	require.NoError(t, err)
	assert.Equal(t, string(dom.DailyCompleted), view.State.Fields[dom.FieldDailyQuest])
	assert.True(t, view.Saving)
	assert.Empty(t, view.LastError)

	// The board shows the optimistic value while the upsert is still pending.
	row, ok := b.Row(1)
	require.True(t, ok)
	assert.Equal(t, string(dom.DailyCompleted), row.State.Fields[dom.FieldDailyQuest])
	assert.True(t, row.Saving)

	store.waitCalls(t, 1)
	store.release(t, 0, nil)
	<-done
}

func TestApplyEditCommitOnSuccess(t *testing.T) {
	store := &stubStore{}
	b := New(store, testDay, testChars(), nil)

	_, done, err := b.ApplyEdit(context.Background(), 1, dom.FieldNestRaid, string(dom.NestCleared))
	require.NoError(t, err)
	<-done

	row, ok := b.Row(1)
	require.True(t, ok)
	assert.Equal(t, string(dom.NestCleared), row.State.Fields[dom.FieldNestRaid])
	assert.False(t, row.Saving)
	assert.Empty(t, row.LastError)
}

func TestApplyEditRollbackOnFailure(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	b := New(store, testDay, testChars(), nil)

	_, done, err := b.ApplyEdit(context.Background(), 1, dom.FieldWorldBoss, string(dom.BossCleared))
	require.NoError(t, err)
	<-done

	row, ok := b.Row(1)
	require.True(t, ok)
	assert.Equal(t, string(dom.BossNotCleared), row.State.Fields[dom.FieldWorldBoss])
	assert.False(t, row.Saving)
	assert.Contains(t, row.LastError, "connection refused")
}

func TestApplyEditRejectsInvalidInput(t *testing.T) {
	store := &stubStore{}
	b := New(store, testDay, testChars(), nil)
	ctx := context.Background()

	_, _, err := b.ApplyEdit(ctx, 99, dom.FieldDailyQuest, string(dom.DailyCompleted))
	assert.ErrorIs(t, err, ErrUnknownCharacter)

	_, _, err = b.ApplyEdit(ctx, 1, dom.Field("mount_level"), "5")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, _, err = b.ApplyEdit(ctx, 1, dom.FieldDailyQuest, "Done")
	assert.ErrorIs(t, err, ErrBadValue)

	// Nothing reached the store and the row is untouched.
	assert.Empty(t, store.savedStates())
	row, _ := b.Row(1)
	assert.Equal(t, string(dom.DailyNotStarted), row.State.Fields[dom.FieldDailyQuest])
	assert.False(t, row.Saving)
}

func TestUpsertCarriesFullRow(t *testing.T) {
	store := &stubStore{}
	b := New(store, testDay, testChars(), nil)

	_, done, err := b.ApplyEdit(context.Background(), 1, dom.FieldDailyQuest, string(dom.DailyInProgress))
	require.NoError(t, err)
	<-done

	saved := store.savedStates()
	require.Len(t, saved, 1)
	st := saved[0]
	assert.Equal(t, int64(1), st.CharacterID)
	assert.True(t, testDay.Equal(st.Date))
	// All fields travel with the edit, not just the one that changed.
	assert.Equal(t, string(dom.DailyInProgress), st.Fields[dom.FieldDailyQuest])
	assert.Equal(t, string(dom.NestNotCleared), st.Fields[dom.FieldNestRaid])
	assert.Equal(t, string(dom.BossNotCleared), st.Fields[dom.FieldWorldBoss])
	assert.Equal(t, string(dom.BlessingInactive), st.Fields[dom.FieldBlessing])
}

func TestBlessingEditStampsAndClearsTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 4, 5, 0, time.UTC)
	store := &stubStore{}
	b := New(store, testDay, testChars(), nil).WithClock(func() time.Time { return now })
	ctx := context.Background()

	_, done, err := b.ApplyEdit(ctx, 1, dom.FieldBlessing, string(dom.BlessingActive))
	require.NoError(t, err)
	<-done
	row, _ := b.Row(1)
	require.NotNil(t, row.State.BlessingSince)
	assert.True(t, now.Equal(*row.State.BlessingSince))

	// Editing an unrelated field leaves the activation time alone.
	_, done, err = b.ApplyEdit(ctx, 1, dom.FieldDailyQuest, string(dom.DailyCompleted))
	require.NoError(t, err)
	<-done
	row, _ = b.Row(1)
	require.NotNil(t, row.State.BlessingSince)
	assert.True(t, now.Equal(*row.State.BlessingSince))

	_, done, err = b.ApplyEdit(ctx, 1, dom.FieldBlessing, string(dom.BlessingInactive))
	require.NoError(t, err)
	<-done
	row, _ = b.Row(1)
	assert.Nil(t, row.State.BlessingSince)
}

func TestBlessingRollbackRestoresTimestamp(t *testing.T) {
	store := &stubStore{err: errors.New("boom")}
	b := New(store, testDay, testChars(), nil)

	_, done, err := b.ApplyEdit(context.Background(), 1, dom.FieldBlessing, string(dom.BlessingActive))
	require.NoError(t, err)
	<-done

	row, _ := b.Row(1)
	assert.Equal(t, string(dom.BlessingInactive), row.State.Fields[dom.FieldBlessing])
	assert.Nil(t, row.State.BlessingSince)
	assert.NotEmpty(t, row.LastError)
}

// Edit A and edit B touch different fields of the same row; A fails after B
// was issued. B's field must survive and A's field must revert.
func TestConcurrentEditsSettleIndependently(t *testing.T) {
	store := &gateStore{}
	b := New(store, testDay, testChars(), nil)
	ctx := context.Background()

	_, doneA, err := b.ApplyEdit(ctx, 1, dom.FieldDailyQuest, string(dom.DailyCompleted))
	require.NoError(t, err)
	store.waitCalls(t, 1)

	_, doneB, err := b.ApplyEdit(ctx, 1, dom.FieldNestRaid, string(dom.NestCleared))
	require.NoError(t, err)
	store.waitCalls(t, 2)

	// B's payload was built on A's optimistic value.
	assert.Equal(t, string(dom.DailyCompleted), store.calls[1].state.Fields[dom.FieldDailyQuest])

	store.release(t, 0, errors.New("write conflict"))
	<-doneA
	store.release(t, 1, nil)
	<-doneB

	row, _ := b.Row(1)
	assert.Equal(t, string(dom.DailyNotStarted), row.State.Fields[dom.FieldDailyQuest])
	assert.Equal(t, string(dom.NestCleared), row.State.Fields[dom.FieldNestRaid])
	assert.False(t, row.Saving)
	assert.Contains(t, row.LastError, "write conflict")
}

// Two edits to the same field: the first fails after the second already
// applied. The stale failure must not clobber the newer optimistic value.
func TestStaleFailureKeepsNewerValue(t *testing.T) {
	store := &gateStore{}
	b := New(store, testDay, testChars(), nil)
	ctx := context.Background()

	_, doneA, err := b.ApplyEdit(ctx, 1, dom.FieldDailyQuest, string(dom.DailyInProgress))
	require.NoError(t, err)
	store.waitCalls(t, 1)

	_, doneB, err := b.ApplyEdit(ctx, 1, dom.FieldDailyQuest, string(dom.DailyCompleted))
	require.NoError(t, err)
	store.waitCalls(t, 2)

	store.release(t, 0, errors.New("timeout"))
	<-doneA

	row, _ := b.Row(1)
	assert.Equal(t, string(dom.DailyCompleted), row.State.Fields[dom.FieldDailyQuest])

	store.release(t, 1, nil)
	<-doneB
	row, _ = b.Row(1)
	assert.Equal(t, string(dom.DailyCompleted), row.State.Fields[dom.FieldDailyQuest])
	assert.False(t, row.Saving)
}

func TestSavingStaysSetWhileAnyAttemptInFlight(t *testing.T) {
	store := &gateStore{}
	b := New(store, testDay, testChars(), nil)
	ctx := context.Background()

	_, doneA, err := b.ApplyEdit(ctx, 1, dom.FieldDailyQuest, string(dom.DailyCompleted))
	require.NoError(t, err)
	store.waitCalls(t, 1)
	_, doneB, err := b.ApplyEdit(ctx, 1, dom.FieldNestRaid, string(dom.NestSkipped))
	require.NoError(t, err)
	store.waitCalls(t, 2)

	store.release(t, 0, nil)
	<-doneA
	row, _ := b.Row(1)
	assert.True(t, row.Saving)

	store.release(t, 1, nil)
	<-doneB
	row, _ = b.Row(1)
	assert.False(t, row.Saving)
}

func TestRowsAreCopies(t *testing.T) {
	b := New(&stubStore{}, testDay, testChars(), nil)
	row, ok := b.Row(1)
	require.True(t, ok)
	row.State.Fields[dom.FieldDailyQuest] = string(dom.DailyCompleted)

	fresh, _ := b.Row(1)
	assert.Equal(t, string(dom.DailyNotStarted), fresh.State.Fields[dom.FieldDailyQuest])
}
