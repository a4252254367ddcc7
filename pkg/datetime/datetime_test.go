package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateUsesUTC(t *testing.T) {
	stored := time.Date(2025, time.May, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "13/05/2025", FormatDate(stored))

	// Same instant seen from a zone west of UTC is still the 13th.
	buenosAires := time.FixedZone("ART", -3*3600)
	assert.Equal(t, "13/05/2025", FormatDate(stored.In(buenosAires)))

	// Late evening local time east of UTC is the previous UTC day.
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "12/05/2025", FormatDate(time.Date(2025, time.May, 13, 8, 0, 0, 0, tokyo)))
}

func TestFormatTimeUsesUTC(t *testing.T) {
	stored := time.Date(1970, time.January, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "09:05 hs", FormatTime(stored))
	assert.Equal(t, "09:05 hs", FormatTime(stored.In(time.FixedZone("X", 5*3600))))
}

func TestParseClockRoundTrip(t *testing.T) {
	for _, raw := range []string{"14:30", "14:30:59", "2031-12-24T14:30:00Z", " 14:30 "} {
		parsed, err := ParseClock(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "14:30 hs", FormatTime(parsed), raw)
		assert.Equal(t, ReferenceDay.Year(), parsed.Year())
		assert.Equal(t, time.January, parsed.Month())
		assert.Equal(t, 1, parsed.Day())
	}
}

func TestParseClockRejectsGarbage(t *testing.T) {
	_, err := ParseClock("25:99")
	assert.Error(t, err)
	_, err = ParseClock("")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-05-13")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.May, 13, 0, 0, 0, 0, time.UTC), parsed)
	assert.Equal(t, "13/05/2025", FormatDate(parsed))

	fromTimestamp, err := ParseDate("2025-05-13T23:30:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC), fromTimestamp)

	_, err = ParseDate("13/05/2025")
	assert.Error(t, err)
}

func TestNormalizeClockDiscardsDate(t *testing.T) {
	in := time.Date(2024, time.February, 29, 18, 45, 12, 99, time.UTC)
	out := NormalizeClock(in)
	assert.Equal(t, time.Date(1970, time.January, 1, 18, 45, 0, 0, time.UTC), out)
}

func TestFormatISODate(t *testing.T) {
	assert.Equal(t, "2025-05-10", FormatISODate(time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)))
}
