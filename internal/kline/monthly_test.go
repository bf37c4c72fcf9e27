package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureMonthlyBucketer(t *testing.T) *MonthlyBucketer {
	t.Helper()
	return NewMonthlyBucketer(fixtureCalendar(t), fixtureSessions(t))
}

func TestMonthlyRangeNoNight(t *testing.T) {
	monthly := fixtureMonthlyBucketer(t)

	got, err := monthly.Range("IC", dt(2022, time.June, 15, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 1, 9, 31, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 30, 15, 0, 0), got.End)

	// July ends on a Sunday, the close pulls back to the 29th
	got, err = monthly.Range("IC", dt(2022, time.July, 15, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.July, 1, 9, 31, 0), got.Start)
	assert.Equal(t, dt(2022, time.July, 29, 15, 0, 0), got.End)
}

func TestMonthlyRangeNightBreed(t *testing.T) {
	monthly := fixtureMonthlyBucketer(t)

	// the open sits on the last trading evening of the prior month
	got, err := monthly.Range("ag", dt(2022, time.June, 15, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.May, 31, 21, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 30, 15, 0, 0), got.End)
}

func TestMonthlyRangeNightRollover(t *testing.T) {
	monthly := fixtureMonthlyBucketer(t)

	// the night session after the month's last close opens July's candle
	got, err := monthly.Range("ag", dt(2022, time.June, 30, 21, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 30, 21, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.July, 29, 15, 0, 0), got.End)

	// and so do the small hours that follow it
	got, err = monthly.Range("ag", dt(2022, time.July, 1, 1, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 30, 21, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.July, 29, 15, 0, 0), got.End)
}

func TestMonthlyRangeUnknownBreed(t *testing.T) {
	monthly := fixtureMonthlyBucketer(t)
	var breedErr *UnknownBreedError
	_, err := monthly.Range("zz", dt(2022, time.June, 15, 10, 0, 0))
	assert.ErrorAs(t, err, &breedErr)
}
