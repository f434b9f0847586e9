package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDateRangeValid(t *testing.T) {
	assert.True(t, DateRange{}.Valid())
	assert.True(t, DateRange{From: day(2024, 5, 1)}.Valid())
	assert.True(t, DateRange{To: day(2024, 5, 1)}.Valid())
	assert.True(t, DateRange{From: day(2024, 5, 1), To: day(2024, 5, 10)}.Valid())
	assert.True(t, DateRange{From: day(2024, 5, 1), To: day(2024, 5, 1)}.Valid())

	assert.False(t, DateRange{From: day(2024, 5, 10), To: day(2024, 5, 1)}.Valid())
}

func TestDateRangeBounds(t *testing.T) {
	r := DateRange{From: day(2024, 5, 1), To: day(2024, 5, 10)}
	from, to := r.Bounds()
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *from)
	// Inclusive upper bound: anything logged on May 10 is inside.
	assert.Equal(t, time.Date(2024, 5, 10, 23, 59, 59, 999999999, time.UTC), *to)
}

func TestDateRangeBoundsOpenEnds(t *testing.T) {
	from, to := DateRange{}.Bounds()
	assert.Nil(t, from)
	assert.Nil(t, to)
}
