package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidValue(t *testing.T) {
	assert.True(t, ValidValue(FieldDailyQuest, "Completed"))
	assert.True(t, ValidValue(FieldNestRaid, "Skipped"))
	assert.True(t, ValidValue(FieldBlessing, "Active"))

	assert.False(t, ValidValue(FieldDailyQuest, "Cleared"))
	assert.False(t, ValidValue(FieldBlessing, "true"))
	assert.False(t, ValidValue(Field("mount_level"), "5"))
}

func TestKnownField(t *testing.T) {
	for _, f := range Fields() {
		assert.True(t, KnownField(f))
	}
	assert.False(t, KnownField(Field("gold")))
}

func TestDefaultFieldsCoversEveryField(t *testing.T) {
	defaults := DefaultFields()
	require.Len(t, defaults, len(Fields()))
	for _, f := range Fields() {
		v, ok := defaults[f]
		require.True(t, ok, "missing default for %s", f)
		assert.True(t, ValidValue(f, v))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	since := time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC)
	orig := ProgressState{
		CharacterID:   1,
		Date:          time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Fields:        DefaultFields(),
		BlessingSince: &since,
	}
	clone := orig.Clone()
	clone.Fields[FieldDailyQuest] = string(DailyCompleted)
	*clone.BlessingSince = clone.BlessingSince.Add(time.Hour)

	assert.Equal(t, string(DailyNotStarted), orig.Fields[FieldDailyQuest])
	assert.True(t, since.Equal(*orig.BlessingSince))
}

func TestBlessingExpired(t *testing.T) {
	activated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := ProgressState{BlessingSince: &activated}

	assert.False(t, st.BlessingExpired(activated.Add(6*24*time.Hour)))
	// Exactly at the window edge the blessing still holds.
	assert.False(t, st.BlessingExpired(activated.Add(BlessingWindow)))
	assert.True(t, st.BlessingExpired(activated.Add(BlessingWindow+time.Second)))

	none := ProgressState{}
	assert.False(t, none.BlessingExpired(activated.Add(30*24*time.Hour)))
}
