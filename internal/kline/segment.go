package kline

import (
	"fmt"
	"strings"
	"time"
)

// SegmentRow is one breed+period window list as stored for the 30m,
// 60m and 120m periods, in the same bar-minute convention as sessions.
type SegmentRow struct {
	Breed     string
	Period    string
	RangeList string
}

// SegmentBucketer resolves 30m/60m/120m candles from precomputed
// window tables. Unlike the intraday periods these windows may span a
// session break or midnight, so the tables are data, not arithmetic.
type SegmentBucketer struct {
	cal    *Calendar
	ranges map[string]map[Period][]TimeRange
}

// NewSegmentBucketer parses the window rows against the calendar.
func NewSegmentBucketer(cal *Calendar, rows []SegmentRow) (*SegmentBucketer, error) {
	ranges := make(map[string]map[Period][]TimeRange)
	for _, row := range rows {
		p, err := ParsePeriod(row.Period)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", row.Breed, err)
		}
		trs, err := parseRangeList(row.RangeList)
		if err != nil {
			return nil, fmt.Errorf("segment %s %s: %w", row.Breed, row.Period, err)
		}
		breed := strings.ToUpper(row.Breed)
		byPeriod, ok := ranges[breed]
		if !ok {
			byPeriod = make(map[Period][]TimeRange)
			ranges[breed] = byPeriod
		}
		byPeriod[p] = trs
	}
	return &SegmentBucketer{cal: cal, ranges: ranges}, nil
}

// Range returns the candle window holding the normalized bar time t.
//
// The window dates need fixing in two shapes: a window that wraps
// midnight keeps its start on the prior date, and a window that spans
// from the night session into the day session (seven hours or more)
// anchors its night part to the next trading day and its day part to
// the previous trading day plus one.
func (s *SegmentBucketer) Range(breed string, p Period, t time.Time) (DateTimeRange, error) {
	byPeriod, ok := s.ranges[strings.ToUpper(breed)]
	if !ok {
		return DateTimeRange{}, &UnknownBreedError{Breed: breed, Scope: "SegmentBucketer"}
	}
	trs, ok := byPeriod[p]
	if !ok {
		return DateTimeRange{}, &UnsupportedPeriodError{Period: p.String(), Scope: "SegmentBucketer"}
	}

	hms := HmsOf(t)
	var tr TimeRange
	found := false
	for _, r := range trs {
		if r.Contains(hms.HHMMSS) {
			tr = r
			found = true
			break
		}
	}
	if !found {
		return DateTimeRange{}, &OutOfSessionError{Breed: strings.ToUpper(breed), Time: t}
	}

	sdate := YmdOf(t).Date()
	edate := sdate
	switch {
	case tr.Start.HHMMSS > tr.End.HHMMSS:
		if hms.HHMMSS >= tr.Start.HHMMSS && hms.HHMMSS < 235959 {
			edate = edate.AddDate(0, 0, 1)
		} else if hms.HHMMSS <= tr.End.HHMMSS {
			sdate = sdate.AddDate(0, 0, -1)
		}
	case int(tr.End.Hour)-int(tr.Start.Hour) >= 7:
		day := YmdOf(t).YYYYMMDD
		if hms.HHMMSS < 30000 {
			if !s.cal.IsTradingDay(day) {
				next, err := s.cal.Next(day)
				if err != nil {
					return DateTimeRange{}, err
				}
				edate = next.Date()
			}
		} else if hms.Hour > 8 {
			prev, err := s.cal.Prev(day)
			if err != nil {
				return DateTimeRange{}, err
			}
			sdate = prev.Date().AddDate(0, 0, 1)
		}
	}
	return DateTimeRange{Start: tr.Start.At(sdate), End: tr.End.At(edate)}, nil
}
