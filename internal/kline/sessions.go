package kline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SessionRow is one breed's trading windows as stored, e.g.
// "[(2101,230),(901,1015),(1031,1130),(1331,1500)]". Values are
// bar minutes: 901 is the 09:01 bar of an 09:00 open.
type SessionRow struct {
	Breed     string
	RangeList string
}

type breedSessions struct {
	breed    string
	hasNight bool
	// ranges keeps storage order: the night window first when present.
	ranges []TimeRange
	// rangesFix splits a midnight-wrapping window in two so plain
	// interval checks work.
	rangesFix []TimeRange
	closes    map[uint32]struct{}
}

// Sessions holds the per-breed trading windows. Breeds are matched
// case-insensitively.
type Sessions struct {
	cal    *Calendar
	breeds map[string]*breedSessions
}

// NewSessions parses the session rows against the given calendar.
// Malformed range lists fail construction.
func NewSessions(cal *Calendar, rows []SessionRow) (*Sessions, error) {
	breeds := make(map[string]*breedSessions, len(rows))
	for _, row := range rows {
		bs, err := newBreedSessions(row)
		if err != nil {
			return nil, fmt.Errorf("sessions %s: %w", row.Breed, err)
		}
		breeds[bs.breed] = bs
	}
	return &Sessions{cal: cal, breeds: breeds}, nil
}

var rangeListCleaner = strings.NewReplacer(" ", "", "[", "", "]", "", "(", "", ")", "")

func parseRangeList(s string) ([]TimeRange, error) {
	parts := strings.Split(rangeListCleaner.Replace(s), ",")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return nil, fmt.Errorf("range list %q: want an even number of minute marks", s)
	}
	ranges := make([]TimeRange, 0, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		start, err := strconv.ParseUint(parts[i], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("range list %q: %w", s, err)
		}
		end, err := strconv.ParseUint(parts[i+1], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("range list %q: %w", s, err)
		}
		ranges = append(ranges, NewTimeRange(uint32(start)*100, uint32(end)*100))
	}
	return ranges, nil
}

func newBreedSessions(row SessionRow) (*breedSessions, error) {
	ranges, err := parseRangeList(row.RangeList)
	if err != nil {
		return nil, err
	}
	bs := &breedSessions{
		breed:    strings.ToUpper(row.Breed),
		hasNight: ranges[0].Start.HHMM == 2101,
		ranges:   ranges,
		closes:   make(map[uint32]struct{}, len(ranges)),
	}
	if bs.hasNight && len(ranges) < 2 {
		return nil, fmt.Errorf("range list %q: night session without a day session", row.RangeList)
	}
	for i, r := range ranges {
		if i == 0 && r.Start.HHMMSS > r.End.HHMMSS {
			bs.rangesFix = append(bs.rangesFix,
				TimeRange{Start: r.Start, End: HmsFromInt(235959)},
				TimeRange{Start: HmsFromInt(0), End: r.End})
		} else {
			bs.rangesFix = append(bs.rangesFix, r)
		}
		bs.closes[r.End.HHMMSS] = struct{}{}
	}
	return bs, nil
}

func (s *Sessions) breedOf(breed string) (*breedSessions, error) {
	bs, ok := s.breeds[strings.ToUpper(breed)]
	if !ok {
		return nil, &UnknownBreedError{Breed: breed, Scope: "Sessions"}
	}
	return bs, nil
}

// Ranges returns the breed's windows in storage order.
func (s *Sessions) Ranges(breed string) ([]TimeRange, error) {
	bs, err := s.breedOf(breed)
	if err != nil {
		return nil, err
	}
	return bs.ranges, nil
}

// HasNight reports whether the breed trades a night session. Unknown
// breeds report false.
func (s *Sessions) HasNight(breed string) bool {
	bs, ok := s.breeds[strings.ToUpper(breed)]
	return ok && bs.hasNight
}

// Breeds returns the loaded breed codes, upper-cased.
func (s *Sessions) Breeds() []string {
	out := make([]string, 0, len(s.breeds))
	for breed := range s.breeds {
		out = append(out, breed)
	}
	return out
}

// IsTradingTime reports whether the time of day of t falls inside one
// of the breed's windows. t must already be a normalized bar time.
func (s *Sessions) IsTradingTime(breed string, t time.Time) bool {
	bs, ok := s.breeds[strings.ToUpper(breed)]
	if !ok {
		return false
	}
	hhmmss := HmsOf(t).HHMMSS
	for _, r := range bs.rangesFix {
		if hhmmss >= r.Start.HHMMSS && hhmmss <= r.End.HHMMSS {
			return true
		}
	}
	return false
}

// IsFirstMinute reports whether t is the first bar of the trading day.
// For night breeds that depends on whether the trading day actually
// opened with a night session.
func (s *Sessions) IsFirstMinute(breed string, tradingDay uint32, t time.Time) bool {
	bs, ok := s.breeds[strings.ToUpper(breed)]
	if !ok {
		return false
	}
	hhmmss := HmsOf(t).HHMMSS
	if bs.hasNight {
		if s.cal.HasNight(tradingDay) {
			return hhmmss == bs.ranges[0].Start.HHMMSS
		}
		return hhmmss == bs.ranges[1].Start.HHMMSS
	}
	return hhmmss == bs.ranges[0].Start.HHMMSS
}

// IsSessionClose reports whether t is the closing bar of one of the
// breed's windows.
func (s *Sessions) IsSessionClose(breed string, t time.Time) bool {
	bs, ok := s.breeds[strings.ToUpper(breed)]
	if !ok {
		return false
	}
	_, ok = bs.closes[HmsOf(t).HHMMSS]
	return ok
}

// NextMinute returns the bar that follows t for the breed, stepping
// over session breaks, weekends and holidays. Inside a window it is
// t+1m; on a closing bar it is the opening bar of the next window on
// whichever date the calendar says trading resumes.
func (s *Sessions) NextMinute(breed string, t time.Time) (time.Time, error) {
	bs, err := s.breedOf(breed)
	if err != nil {
		return time.Time{}, err
	}
	return bs.nextMinute(s.cal, t)
}

func (bs *breedSessions) nextMinute(cal *Calendar, t time.Time) (time.Time, error) {
	hhmm := HmsOf(t).HHMM
	closeIdx := -1
	for i, r := range bs.ranges {
		var in bool
		if r.Start.HHMMSS > r.End.HHMMSS {
			in = hhmm >= r.Start.HHMM || hhmm <= r.End.HHMM
		} else {
			in = hhmm >= r.Start.HHMM && hhmm <= r.End.HHMM
		}
		if !in {
			continue
		}
		if hhmm == r.End.HHMM {
			closeIdx = i
			break
		}
		return t.Add(time.Minute), nil
	}
	if closeIdx < 0 {
		return time.Time{}, &OutOfSessionError{Breed: bs.breed, Time: t}
	}

	nextRange := bs.ranges[(closeIdx+1)%len(bs.ranges)]
	lastClose := bs.ranges[len(bs.ranges)-1].End.HHMM
	date := YmdOf(t)

	switch {
	case hhmm == 2300:
		// night closed before midnight; trading resumes on the next
		// trading day's morning
		next, err := cal.Next(date.YYYYMMDD)
		if err != nil {
			return time.Time{}, err
		}
		date = next
	case hhmm == 100 || hhmm == 230:
		// night closed after midnight; the morning belongs to today
		// unless today is a weekend or holiday
		if !cal.IsTradingDay(date.YYYYMMDD) {
			next, err := cal.Next(date.YYYYMMDD)
			if err != nil {
				return time.Time{}, err
			}
			date = next
		}
	case hhmm == lastClose:
		next, err := cal.Next(date.YYYYMMDD)
		if err != nil {
			return time.Time{}, err
		}
		if bs.hasNight {
			if cal.HasNight(next.YYYYMMDD) {
				// the next trading day opens tonight on today's date
			} else {
				nextRange = bs.ranges[1]
				date = next
			}
		} else {
			date = next
		}
	}

	return time.Date(int(date.Year), time.Month(date.Month), int(date.Day),
		int(nextRange.Start.Hour), int(nextRange.Start.Minute), 0, 0, time.UTC), nil
}
