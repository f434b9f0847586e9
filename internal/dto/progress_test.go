package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayParse(t *testing.T) {
	var d Day
	require.NoError(t, d.Parse("2024-05-10"))
	require.NotNil(t, d.Ptr())
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), *d.Ptr())

	// RFC3339 input collapses to midnight UTC of that day.
	require.NoError(t, d.Parse("2024-05-10T18:30:00Z"))
	require.NotNil(t, d.Ptr())
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), *d.Ptr())

	require.NoError(t, d.Parse(""))
	assert.Nil(t, d.Ptr())

	assert.Error(t, d.Parse("10/05/2024"))
}

func TestDayUnmarshalJSON(t *testing.T) {
	var req EditRequest
	body := `{"date":"2024-05-10","field":"daily_quest","value":"Completed"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NotNil(t, req.Date.Ptr())
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), *req.Date.Ptr())

	var noDate EditRequest
	require.NoError(t, json.Unmarshal([]byte(`{"field":"blessing","value":"Active"}`), &noDate))
	assert.Nil(t, noDate.Date.Ptr())
	fallback := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, noDate.Date.Or(fallback))
}
