package kline

import (
	"fmt"
	"strings"
	"time"
)

// MinuteBucketer stamps raw tick times onto 1m bars.
//
// The generic rule drops seconds and rounds up one minute: ticks in
// hh:mm:00..hh:mm:59 belong to the hh:(mm+1):00 bar. A per-breed table
// covers the exceptions: the minute before an open and the open minute
// both belong to the first bar, a window's closing minute belongs to
// itself, and 00:00:00 stays 00:00:00.
type MinuteBucketer struct {
	cal      *Calendar
	sessions *Sessions
	special  map[string]map[uint16]Hms
}

// NewMinuteBucketer precomputes the special-minute table for every
// loaded breed. A breed whose first window does not open at 09:01,
// 09:31 or 21:01 fails construction.
func NewMinuteBucketer(cal *Calendar, sessions *Sessions) (*MinuteBucketer, error) {
	special := make(map[string]map[uint16]Hms, len(sessions.breeds))
	for breed, bs := range sessions.breeds {
		marks := make(map[uint16]Hms, len(bs.ranges)+1)
		first := bs.ranges[0].Start
		switch first.HHMMSS {
		case 90100:
			marks[859] = first
		case 93100:
			marks[929] = first
		case 210100:
			marks[2059] = first
		default:
			return nil, fmt.Errorf("minute bucketer %s: unexpected open %d", breed, first.HHMMSS)
		}
		for _, r := range bs.ranges {
			marks[r.End.HHMM] = r.End
		}
		special[breed] = marks
	}
	return &MinuteBucketer{cal: cal, sessions: sessions, special: special}, nil
}

// BucketWithSessionDay stamps a tick given the natural date its data
// day started on. For night breeds that date is the evening's date
// until the day session takes over, so clock hours before 03:00 roll
// to the following calendar date. Returns the bar time and the tick
// time rebased onto the resolved date.
func (m *MinuteBucketer) BucketWithSessionDay(breed string, sessionDay uint32, t time.Time) (bar, tick time.Time, err error) {
	date := YmdFromInt(sessionDay).Date()
	if t.Hour() < 3 {
		date = date.AddDate(0, 0, 1)
	}
	return m.bucketOn(breed, date, t)
}

// BucketWithTradingDay stamps a tick given its trading day. Evening
// clock times map to the previous trading day's date, small hours to
// the date after it, daytime to the trading day itself.
func (m *MinuteBucketer) BucketWithTradingDay(breed string, tradingDay uint32, t time.Time) (bar, tick time.Time, err error) {
	hhmm := uint16(t.Hour())*100 + uint16(t.Minute())
	var date time.Time
	switch {
	case hhmm >= 2058:
		prev, perr := m.cal.Prev(tradingDay)
		if perr != nil {
			return time.Time{}, time.Time{}, perr
		}
		date = prev.Date()
	case hhmm < 300:
		prev, perr := m.cal.Prev(tradingDay)
		if perr != nil {
			return time.Time{}, time.Time{}, perr
		}
		date = prev.Date().AddDate(0, 0, 1)
	default:
		date = YmdFromInt(tradingDay).Date()
	}
	return m.bucketOn(breed, date, t)
}

func (m *MinuteBucketer) bucketOn(breed string, date, t time.Time) (bar, tick time.Time, err error) {
	bar, err = m.toMinute(breed, date, t)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	tick = time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return bar, tick, nil
}

func (m *MinuteBucketer) toMinute(breed string, date, t time.Time) (time.Time, error) {
	hms := HmsFromClock(t.Hour(), t.Minute(), t.Second())
	if hms.HHMMSS == 0 {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	marks, ok := m.special[strings.ToUpper(breed)]
	if !ok {
		return time.Time{}, &UnknownBreedError{Breed: breed, Scope: "MinuteBucketer"}
	}
	var bar time.Time
	if v, ok := marks[hms.HHMM]; ok {
		bar = v.At(date)
	} else {
		bar = time.Date(date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0, time.UTC).Add(time.Minute)
	}
	if !m.sessions.IsTradingTime(breed, bar) {
		return time.Time{}, &OutOfSessionError{Breed: breed, Time: bar}
	}
	return bar, nil
}
