package kline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"1m", "3m", "5m", "15m", "30m", "60m", "120m", "1d", "1w", "1month"} {
		p, err := ParsePeriod(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, p.String())
	}

	p, err := ParsePeriod("1mth")
	require.NoError(t, err)
	assert.Equal(t, Period1Month, p)

	var perErr *UnsupportedPeriodError
	_, err = ParsePeriod("7m")
	require.ErrorAs(t, err, &perErr)
	assert.Equal(t, "7m", perErr.Period)
}

func TestPeriodMinutes(t *testing.T) {
	want := map[Period]uint16{
		Period1m:     1,
		Period3m:     3,
		Period5m:     5,
		Period15m:    15,
		Period30m:    30,
		Period60m:    60,
		Period120m:   120,
		Period1d:     1440,
		Period1w:     10080,
		Period1Month: 43200,
	}
	for p, mins := range want {
		assert.Equal(t, mins, p.Minutes(), p.String())
	}
	assert.Equal(t, uint16(0), Period(0).Minutes())
}
