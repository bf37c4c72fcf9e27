package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDailyBucketer(t *testing.T) *DailyBucketer {
	t.Helper()
	return NewDailyBucketer(fixtureCalendar(t), fixtureSessions(t))
}

func TestDailyRangeNoNight(t *testing.T) {
	daily := fixtureDailyBucketer(t)
	got, err := daily.Range("IC", dt(2022, time.June, 20, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 20, 9, 31, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 20, 15, 0, 0), got.End)
}

func TestDailyRangeNightBreed(t *testing.T) {
	daily := fixtureDailyBucketer(t)
	cases := []struct {
		in    time.Time
		start time.Time
		end   time.Time
	}{
		// Friday evening opens the Monday trading day's candle
		{dt(2022, time.June, 17, 21, 5, 0), dt(2022, time.June, 17, 21, 1, 0), dt(2022, time.June, 20, 15, 0, 0)},
		// Saturday small hours stay in that candle
		{dt(2022, time.June, 18, 1, 0, 0), dt(2022, time.June, 17, 21, 1, 0), dt(2022, time.June, 20, 15, 0, 0)},
		// Monday daytime reaches back to the Friday open
		{dt(2022, time.June, 20, 10, 0, 0), dt(2022, time.June, 17, 21, 1, 0), dt(2022, time.June, 20, 15, 0, 0)},
		// weekday small hours open on the previous evening
		{dt(2022, time.June, 21, 1, 30, 0), dt(2022, time.June, 20, 21, 1, 0), dt(2022, time.June, 21, 15, 0, 0)},
		{dt(2022, time.June, 21, 10, 0, 0), dt(2022, time.June, 20, 21, 1, 0), dt(2022, time.June, 21, 15, 0, 0)},
	}
	for _, tc := range cases {
		got, err := daily.Range("ag", tc.in)
		require.NoError(t, err, "%s", tc.in)
		assert.Equal(t, tc.start, got.Start, "%s start", tc.in)
		assert.Equal(t, tc.end, got.End, "%s end", tc.in)
	}
}

func TestDailyRangeUnknownBreed(t *testing.T) {
	daily := fixtureDailyBucketer(t)
	var breedErr *UnknownBreedError
	_, err := daily.Range("zz", dt(2022, time.June, 20, 10, 0, 0))
	assert.ErrorAs(t, err, &breedErr)
}
