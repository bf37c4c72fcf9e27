package kline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarNext(t *testing.T) {
	cal := fixtureCalendar(t)
	want := map[uint32]uint32{
		20220607: 20220608,
		20220608: 20220609,
		20220609: 20220610,
		20220610: 20220613,
		20220611: 20220613,
		20220612: 20220613,
		20220613: 20220614,
		20220614: 20220615,
	}
	for day, next := range want {
		got, err := cal.Next(day)
		require.NoError(t, err, "next of %d", day)
		assert.Equal(t, next, got.YYYYMMDD, "next of %d", day)
	}
}

func TestCalendarPrev(t *testing.T) {
	cal := fixtureCalendar(t)
	want := map[uint32]uint32{
		20220607: 20220606,
		20220608: 20220607,
		20220609: 20220608,
		20220610: 20220609,
		20220611: 20220610,
		20220612: 20220610,
		20220613: 20220610,
		20220614: 20220613,
	}
	for day, prev := range want {
		got, err := cal.Prev(day)
		require.NoError(t, err, "prev of %d", day)
		assert.Equal(t, prev, got.YYYYMMDD, "prev of %d", day)
	}
}

func TestCalendarOutOfRange(t *testing.T) {
	cal := fixtureCalendar(t)

	_, err := cal.Prev(cal.First().YYYYMMDD)
	var dateErr *UnknownDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "prev", dateErr.Op)

	_, err = cal.Next(cal.Last().YYYYMMDD)
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "next", dateErr.Op)

	_, err = cal.Next(19700101)
	assert.ErrorAs(t, err, &dateErr)
}

func TestCalendarHasNight(t *testing.T) {
	cal := fixtureCalendar(t)
	// 2022-06-02 follows 06-01 directly; 06-06 sits after the 06-03
	// holiday so its night session never opened
	assert.True(t, cal.HasNight(20220602))
	assert.False(t, cal.HasNight(20220606))
	// plain weekend gap keeps the night session
	assert.True(t, cal.HasNight(20220613))
}

func TestCalendarSessionBounds(t *testing.T) {
	cal := fixtureCalendar(t)
	start, end, ok := cal.SessionBounds(20220611)
	require.True(t, ok)
	assert.Equal(t, uint32(20220610), start.YYYYMMDD)
	assert.Equal(t, uint32(20220613), end.YYYYMMDD)

	_, _, ok = cal.SessionBounds(0)
	assert.False(t, ok)
}

func TestCalendarTradingDayOf(t *testing.T) {
	cal := fixtureCalendar(t)

	td, err := cal.TradingDayOf(dt(2022, time.August, 5, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(20220805), td.YYYYMMDD)

	td, err = cal.TradingDayOf(dt(2022, time.August, 5, 21, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(20220808), td.YYYYMMDD)

	// Monday small hours belong to the trading day after Friday
	td, err = cal.TradingDayOf(dt(2022, time.August, 8, 2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(20220808), td.YYYYMMDD)

	// Saturday small hours too
	td, err = cal.TradingDayOf(dt(2022, time.August, 6, 1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(20220808), td.YYYYMMDD)

	var timeErr *UnsupportedTimeError
	_, err = cal.TradingDayOf(dt(2022, time.August, 5, 17, 0, 0))
	assert.ErrorAs(t, err, &timeErr)
}

func TestNewCalendarValidation(t *testing.T) {
	_, err := NewCalendar(nil)
	assert.Error(t, err)

	_, err = NewCalendar([]CalendarRow{
		{TradingDay: 20220613, NextTradingDay: 20220614},
		{TradingDay: 20220613, NextTradingDay: 20220615},
	})
	assert.Error(t, err)

	_, err = NewCalendar([]CalendarRow{
		{TradingDay: 20220613, NextTradingDay: 20220615},
		{TradingDay: 20220614, NextTradingDay: 20220615},
	})
	assert.Error(t, err)
}

func TestDeriveCalendarRows(t *testing.T) {
	rows := DeriveCalendarRows([]uint32{20220601, 20220602, 20220606, 20220607})
	require.Len(t, rows, 4)
	assert.True(t, rows[0].HasNight) // first row defaults to true
	assert.True(t, rows[1].HasNight)
	assert.False(t, rows[2].HasNight) // four-day holiday gap
	assert.True(t, rows[3].HasNight)
	assert.Equal(t, uint32(20220602), rows[0].NextTradingDay)
	assert.Equal(t, uint32(0), rows[3].NextTradingDay)
}
