package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntradayRange(t *testing.T) {
	cases := []struct {
		period Period
		in     time.Time
		start  time.Time
		end    time.Time
	}{
		{Period3m, dt(2022, time.June, 16, 11, 25, 0), dt(2022, time.June, 16, 11, 25, 0), dt(2022, time.June, 16, 11, 27, 0)},
		{Period3m, dt(2022, time.June, 16, 11, 28, 0), dt(2022, time.June, 16, 11, 28, 0), dt(2022, time.June, 16, 11, 30, 0)},
		{Period3m, dt(2022, time.June, 16, 11, 30, 0), dt(2022, time.June, 16, 11, 28, 0), dt(2022, time.June, 16, 11, 30, 0)},
		{Period5m, dt(2022, time.June, 16, 11, 26, 0), dt(2022, time.June, 16, 11, 26, 0), dt(2022, time.June, 16, 11, 30, 0)},
		{Period5m, dt(2022, time.June, 16, 11, 30, 0), dt(2022, time.June, 16, 11, 26, 0), dt(2022, time.June, 16, 11, 30, 0)},
		{Period15m, dt(2022, time.June, 16, 11, 25, 0), dt(2022, time.June, 16, 11, 16, 0), dt(2022, time.June, 16, 11, 30, 0)},
		{Period15m, dt(2022, time.June, 16, 23, 0, 0), dt(2022, time.June, 16, 22, 46, 0), dt(2022, time.June, 16, 23, 0, 0)},
		// an on-boundary bar closes its own candle, even across midnight
		{Period15m, dt(2022, time.June, 17, 0, 0, 0), dt(2022, time.June, 16, 23, 46, 0), dt(2022, time.June, 17, 0, 0, 0)},
	}
	for _, tc := range cases {
		got, err := IntradayRange(tc.period, tc.in)
		require.NoError(t, err, "%s %s", tc.period, tc.in)
		assert.Equal(t, tc.start, got.Start, "%s %s start", tc.period, tc.in)
		assert.Equal(t, tc.end, got.End, "%s %s end", tc.period, tc.in)
	}
}

func TestIntradayRangeRejectsOtherPeriods(t *testing.T) {
	var perErr *UnsupportedPeriodError
	for _, p := range []Period{Period1m, Period30m, Period60m, Period1d} {
		_, err := IntradayRange(p, dt(2022, time.June, 16, 11, 25, 0))
		assert.ErrorAs(t, err, &perErr, "%s", p)
	}
}
