package kline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dt(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

// fixtureTradingDays covers mid-2022 plus June 2023. Holidays: the
// 2022-06-03 Dragon Boat Festival, the 2022 National Day week and the
// 2023-06-22/23 Dragon Boat Festival.
func fixtureTradingDays() []uint32 {
	holidays := map[uint32]bool{
		20220603: true,
		20221003: true, 20221004: true, 20221005: true, 20221006: true, 20221007: true,
		20230622: true, 20230623: true,
	}
	var days []uint32
	addRange := func(from, to time.Time) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			day := YmdOf(d).YYYYMMDD
			if holidays[day] {
				continue
			}
			days = append(days, day)
		}
	}
	addRange(date(2022, time.May, 30), date(2022, time.October, 28))
	addRange(date(2023, time.June, 1), date(2023, time.June, 30))
	return days
}

func fixtureCalendar(t *testing.T) *Calendar {
	t.Helper()
	cal, err := NewCalendar(DeriveCalendarRows(fixtureTradingDays()))
	require.NoError(t, err)
	return cal
}

func fixtureSessionRows() []SessionRow {
	return []SessionRow{
		{Breed: "IC", RangeList: "[(931,1130),(1301,1500)]"},
		{Breed: "TF", RangeList: "[(931,1130),(1301,1515)]"},
		{Breed: "AP", RangeList: "[(901,1015),(1031,1130),(1331,1500)]"},
		{Breed: "LR", RangeList: "[(901,1015),(1031,1130),(1331,1500)]"},
		{Breed: "a", RangeList: "[(2101,2300),(901,1015),(1031,1130),(1331,1500)]"},
		{Breed: "al", RangeList: "[(2101,100),(901,1015),(1031,1130),(1331,1500)]"},
		{Breed: "ag", RangeList: "[(2101,230),(901,1015),(1031,1130),(1331,1500)]"},
	}
}

func fixtureSegmentRows() []SegmentRow {
	return []SegmentRow{
		{Breed: "IC", Period: "60m", RangeList: "[(931,1030),(1031,1130),(1301,1400),(1401,1500)]"},
		{Breed: "ag", Period: "120m", RangeList: "[(2101,2300),(2301,100),(101,931),(932,1131),(1332,1500)]"},
	}
}

func fixtureSessions(t *testing.T) *Sessions {
	t.Helper()
	ses, err := NewSessions(fixtureCalendar(t), fixtureSessionRows())
	require.NoError(t, err)
	return ses
}

func fixtureSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := BuildSnapshot(DeriveCalendarRows(fixtureTradingDays()),
		fixtureSessionRows(), fixtureSegmentRows())
	require.NoError(t, err)
	return snap
}

// memorySource feeds an Engine from fixture slices and counts loads.
type memorySource struct {
	calRows []CalendarRow
	sesRows []SessionRow
	segRows []SegmentRow
	loads   int
	err     error
}

func (s *memorySource) CalendarRows(context.Context) ([]CalendarRow, error) {
	s.loads++
	return s.calRows, s.err
}

func (s *memorySource) SessionRows(context.Context) ([]SessionRow, error) {
	return s.sesRows, s.err
}

func (s *memorySource) SegmentRows(context.Context) ([]SegmentRow, error) {
	return s.segRows, s.err
}

func fixtureSource() *memorySource {
	return &memorySource{
		calRows: DeriveCalendarRows(fixtureTradingDays()),
		sesRows: fixtureSessionRows(),
		segRows: fixtureSegmentRows(),
	}
}
