package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey_UsesBusinessDay(t *testing.T) {
	require.NoError(t, Init("America/Sao_Paulo"))

	// 01:30 UTC on the 15th is still the 14th in Sao Paulo (UTC-3).
	ts := time.Date(2025, 3, 15, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "20250314", DateKey(ts))
}

func TestDayBoundaries(t *testing.T) {
	require.NoError(t, Init("America/Sao_Paulo"))

	ts := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	start := StartOfDayUTC(ts)
	end := EndOfDayUTC(ts)

	assert.Equal(t, time.Date(2025, 3, 15, 3, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(24*time.Hour-time.Nanosecond), end)
}

func TestParseFlexible(t *testing.T) {
	require.NoError(t, Init("UTC"))

	d, err := ParseFlexible("2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), d)

	ts, err := ParseFlexible("2025-01-02T10:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 2, 13, 0, 0, 0, time.UTC), ts)

	_, err = ParseFlexible("02/01/2025")
	assert.Error(t, err)
}
