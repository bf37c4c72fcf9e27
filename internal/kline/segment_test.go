package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSegmentBucketer(t *testing.T) *SegmentBucketer {
	t.Helper()
	seg, err := NewSegmentBucketer(fixtureCalendar(t), fixtureSegmentRows())
	require.NoError(t, err)
	return seg
}

func TestSegmentRangeDaytime(t *testing.T) {
	seg := fixtureSegmentBucketer(t)
	cases := []struct {
		in    time.Time
		start time.Time
		end   time.Time
	}{
		{dt(2022, time.June, 20, 10, 0, 0), dt(2022, time.June, 20, 9, 31, 0), dt(2022, time.June, 20, 10, 30, 0)},
		{dt(2022, time.June, 20, 10, 30, 0), dt(2022, time.June, 20, 9, 31, 0), dt(2022, time.June, 20, 10, 30, 0)},
		{dt(2022, time.June, 20, 10, 31, 0), dt(2022, time.June, 20, 10, 31, 0), dt(2022, time.June, 20, 11, 30, 0)},
		{dt(2022, time.June, 20, 13, 30, 0), dt(2022, time.June, 20, 13, 1, 0), dt(2022, time.June, 20, 14, 0, 0)},
		{dt(2022, time.June, 20, 15, 0, 0), dt(2022, time.June, 20, 14, 1, 0), dt(2022, time.June, 20, 15, 0, 0)},
	}
	for _, tc := range cases {
		got, err := seg.Range("IC", Period60m, tc.in)
		require.NoError(t, err, "%s", tc.in)
		assert.Equal(t, tc.start, got.Start, "%s start", tc.in)
		assert.Equal(t, tc.end, got.End, "%s end", tc.in)
	}
}

func TestSegmentRangeMidnightWrap(t *testing.T) {
	seg := fixtureSegmentBucketer(t)

	// before midnight the window end rolls forward a day
	got, err := seg.Range("ag", Period120m, dt(2022, time.June, 20, 23, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 20, 23, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 21, 1, 0, 0), got.End)

	// after midnight the window start rolls back a day
	got, err = seg.Range("ag", Period120m, dt(2022, time.June, 21, 0, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 20, 23, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 21, 1, 0, 0), got.End)
}

func TestSegmentRangeNightIntoDay(t *testing.T) {
	seg := fixtureSegmentBucketer(t)

	// weekday small hours: the window closes on the same date
	got, err := seg.Range("ag", Period120m, dt(2022, time.June, 21, 1, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 21, 1, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 21, 9, 31, 0), got.End)

	// Saturday small hours: the close sits on Monday
	got, err = seg.Range("ag", Period120m, dt(2022, time.June, 18, 1, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 18, 1, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 20, 9, 31, 0), got.End)

	// Monday morning: the open reaches back to Saturday small hours
	got, err = seg.Range("ag", Period120m, dt(2022, time.June, 20, 9, 15, 0))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 18, 1, 1, 0), got.Start)
	assert.Equal(t, dt(2022, time.June, 20, 9, 31, 0), got.End)
}

func TestSegmentRangeErrors(t *testing.T) {
	seg := fixtureSegmentBucketer(t)

	var sessErr *OutOfSessionError
	_, err := seg.Range("IC", Period60m, dt(2022, time.June, 20, 12, 0, 0))
	assert.ErrorAs(t, err, &sessErr)

	var perErr *UnsupportedPeriodError
	_, err = seg.Range("IC", Period120m, dt(2022, time.June, 20, 10, 0, 0))
	assert.ErrorAs(t, err, &perErr)

	var breedErr *UnknownBreedError
	_, err = seg.Range("zz", Period60m, dt(2022, time.June, 20, 10, 0, 0))
	assert.ErrorAs(t, err, &breedErr)
}

func TestNewSegmentBucketerRejectsBadRows(t *testing.T) {
	cal := fixtureCalendar(t)

	_, err := NewSegmentBucketer(cal, []SegmentRow{{Breed: "IC", Period: "7m", RangeList: "[(931,1030)]"}})
	assert.Error(t, err)

	_, err = NewSegmentBucketer(cal, []SegmentRow{{Breed: "IC", Period: "60m", RangeList: "[(931)]"}})
	assert.Error(t, err)
}
