package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type minuteCase struct {
	in   string // raw tick time, the date doubles as the day argument
	want string // expected 1m bar
}

func runMinuteCases(t *testing.T, byTradingDay bool, breed string, cases []minuteCase) {
	t.Helper()
	snap := fixtureSnapshot(t)
	for _, tc := range cases {
		in, err := time.Parse("2006-01-02T15:04:05", tc.in)
		require.NoError(t, err)
		in = in.UTC()
		day := YmdOf(in).YYYYMMDD

		var bar time.Time
		if byTradingDay {
			bar, _, err = snap.Minute.BucketWithTradingDay(breed, day, in)
		} else {
			bar, _, err = snap.Minute.BucketWithSessionDay(breed, day, in)
		}
		require.NoError(t, err, "%s %s", breed, tc.in)
		assert.Equal(t, tc.want, bar.Format(dateTimeLayout), "%s %s", breed, tc.in)
	}
}

func TestMinuteIC(t *testing.T) {
	cases := []minuteCase{
		{"2022-06-10T09:29:00", "2022-06-10 09:31:00"},
		{"2022-06-10T10:15:00", "2022-06-10 10:16:00"},
		{"2022-06-10T13:00:00", "2022-06-10 13:01:00"},
		{"2022-06-10T13:00:59", "2022-06-10 13:01:00"},
		{"2022-06-13T14:59:00", "2022-06-13 15:00:00"},
		{"2022-06-13T14:59:59", "2022-06-13 15:00:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, false, "IC", cases)
	runMinuteCases(t, true, "IC", cases)
}

func TestMinuteTF(t *testing.T) {
	cases := []minuteCase{
		{"2022-06-10T09:29:00", "2022-06-10 09:31:00"},
		{"2022-06-10T10:15:00", "2022-06-10 10:16:00"},
		{"2022-06-13T14:59:59", "2022-06-13 15:00:00"},
		// 15:00 is not the TF close, the generic rule applies
		{"2022-06-13T15:00:00", "2022-06-13 15:01:00"},
		{"2022-06-13T15:14:59", "2022-06-13 15:15:00"},
		{"2022-06-13T15:15:00", "2022-06-13 15:15:00"},
	}
	runMinuteCases(t, false, "TF", cases)
	runMinuteCases(t, true, "TF", cases)
}

func TestMinuteAP(t *testing.T) {
	cases := []minuteCase{
		{"2022-06-13T08:59:00", "2022-06-13 09:01:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
		{"2022-06-13T09:01:00", "2022-06-13 09:02:00"},
		{"2022-06-13T10:14:59", "2022-06-13 10:15:00"},
		{"2022-06-13T10:15:00", "2022-06-13 10:15:00"},
		{"2022-06-13T10:30:00", "2022-06-13 10:31:00"},
		{"2022-06-13T10:30:59", "2022-06-13 10:31:00"},
		{"2022-06-13T11:29:59", "2022-06-13 11:30:00"},
		{"2022-06-13T11:30:00", "2022-06-13 11:30:00"},
		{"2022-06-13T13:30:00", "2022-06-13 13:31:00"},
		{"2022-06-13T14:59:59", "2022-06-13 15:00:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, false, "AP", cases)
	runMinuteCases(t, true, "AP", cases)
}

func TestMinuteNightBreedA(t *testing.T) {
	bySessionDay := []minuteCase{
		{"2022-06-10T20:59:59", "2022-06-10 21:01:00"},
		{"2022-06-10T21:00:00", "2022-06-10 21:01:00"},
		{"2022-06-10T22:00:00", "2022-06-10 22:01:00"},
		{"2022-06-10T22:59:00", "2022-06-10 23:00:00"},
		{"2022-06-10T23:00:00", "2022-06-10 23:00:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
		{"2022-06-13T10:15:00", "2022-06-13 10:15:00"},
		{"2022-06-13T11:30:00", "2022-06-13 11:30:00"},
		{"2022-06-13T13:30:00", "2022-06-13 13:31:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, false, "a", bySessionDay)

	// keyed by trading day the evening ticks land on the prior
	// trading day's date
	byTradingDay := []minuteCase{
		{"2022-06-13T20:59:59", "2022-06-10 21:01:00"},
		{"2022-06-13T21:00:00", "2022-06-10 21:01:00"},
		{"2022-06-13T22:00:00", "2022-06-10 22:01:00"},
		{"2022-06-13T22:59:00", "2022-06-10 23:00:00"},
		{"2022-06-13T23:00:00", "2022-06-10 23:00:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, true, "a", byTradingDay)
}

func TestMinuteNightBreedAg(t *testing.T) {
	bySessionDay := []minuteCase{
		{"2022-06-10T20:59:59", "2022-06-10 21:01:00"},
		{"2022-06-10T21:00:00", "2022-06-10 21:01:00"},
		{"2022-06-10T23:58:33", "2022-06-10 23:59:00"},
		{"2022-06-10T23:59:33", "2022-06-11 00:00:00"},
		{"2022-06-10T00:00:00", "2022-06-11 00:00:00"},
		{"2022-06-10T00:00:33", "2022-06-11 00:01:00"},
		{"2022-06-10T00:01:00", "2022-06-11 00:02:00"},
		{"2022-06-10T00:59:00", "2022-06-11 01:00:00"},
		{"2022-06-10T00:59:59", "2022-06-11 01:00:00"},
		{"2022-06-10T01:30:59", "2022-06-11 01:31:00"},
		{"2022-06-10T01:59:59", "2022-06-11 02:00:00"},
		{"2022-06-10T02:00:33", "2022-06-11 02:01:00"},
		{"2022-06-10T02:29:33", "2022-06-11 02:30:00"},
		{"2022-06-10T02:30:00", "2022-06-11 02:30:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
		{"2022-06-13T10:15:00", "2022-06-13 10:15:00"},
		{"2022-06-13T11:29:59", "2022-06-13 11:30:00"},
		{"2022-06-13T13:30:00", "2022-06-13 13:31:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, false, "ag", bySessionDay)

	byTradingDay := []minuteCase{
		{"2022-06-13T20:59:59", "2022-06-10 21:01:00"},
		{"2022-06-13T21:00:00", "2022-06-10 21:01:00"},
		{"2022-06-13T23:58:33", "2022-06-10 23:59:00"},
		{"2022-06-13T23:59:33", "2022-06-11 00:00:00"},
		{"2022-06-13T00:00:00", "2022-06-11 00:00:00"},
		{"2022-06-13T00:00:33", "2022-06-11 00:01:00"},
		{"2022-06-13T02:29:33", "2022-06-11 02:30:00"},
		{"2022-06-13T02:30:00", "2022-06-11 02:30:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, true, "ag", byTradingDay)
}

func TestMinuteNightBreedAl(t *testing.T) {
	bySessionDay := []minuteCase{
		{"2022-06-10T20:59:59", "2022-06-10 21:01:00"},
		{"2022-06-10T23:59:33", "2022-06-11 00:00:00"},
		{"2022-06-10T00:59:59", "2022-06-11 01:00:00"},
		{"2022-06-10T01:00:00", "2022-06-11 01:00:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
		{"2022-06-13T15:00:00", "2022-06-13 15:00:00"},
	}
	runMinuteCases(t, false, "al", bySessionDay)

	byTradingDay := []minuteCase{
		{"2022-06-13T20:59:59", "2022-06-10 21:01:00"},
		{"2022-06-13T00:59:59", "2022-06-11 01:00:00"},
		{"2022-06-13T01:00:00", "2022-06-11 01:00:00"},
		{"2022-06-13T09:00:00", "2022-06-13 09:01:00"},
	}
	runMinuteCases(t, true, "al", byTradingDay)
}

func TestMinuteOutOfSession(t *testing.T) {
	snap := fixtureSnapshot(t)
	var sessErr *OutOfSessionError
	_, _, err := snap.Minute.BucketWithSessionDay("IC", 20220627, dt(2022, time.June, 27, 15, 40, 38))
	require.ErrorAs(t, err, &sessErr)
	assert.Equal(t, "IC", sessErr.Breed)
}

func TestMinuteUnknownBreed(t *testing.T) {
	snap := fixtureSnapshot(t)
	var breedErr *UnknownBreedError
	_, _, err := snap.Minute.BucketWithSessionDay("zz", 20220613, dt(2022, time.June, 13, 10, 0, 0))
	assert.ErrorAs(t, err, &breedErr)
}

func TestMinuteTickTimeRebase(t *testing.T) {
	snap := fixtureSnapshot(t)
	// a small-hours tick carries the session day's date; the returned
	// tick time sits on the following calendar date
	bar, tick, err := snap.Minute.BucketWithSessionDay("ag", 20220610, dt(2022, time.June, 10, 1, 30, 59))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 11, 1, 31, 0), bar)
	assert.Equal(t, dt(2022, time.June, 11, 1, 30, 59), tick)
}
