package kline

import (
	"fmt"
	"time"
)

// CalendarRow is one trading day as stored: the day, its successor and
// whether the day opens with a night session the prior evening.
type CalendarRow struct {
	TradingDay     uint32
	NextTradingDay uint32
	HasNight       bool
}

type dayInfo struct {
	isTradingDay bool
	prevIdx      int
	// idx of a trading day is its position in the day list. For a
	// non-trading date it is the index of the trading day that owns it.
	idx      int
	nextIdx  int
	hasNight bool
}

// Calendar answers trading-day queries in O(1). It is immutable once
// built; swap the whole value to pick up new data.
type Calendar struct {
	days []Ymd
	info map[uint32]dayInfo
}

// NewCalendar builds a Calendar from rows ordered by trading day. The
// date range between the first and last trading day is filled in so
// weekends and holidays resolve to the trading day that owns them.
func NewCalendar(rows []CalendarRow) (*Calendar, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("calendar: no trading days")
	}
	days := make([]Ymd, 0, len(rows))
	info := make(map[uint32]dayInfo, len(rows)*3/2)
	for i, row := range rows {
		if i > 0 && row.TradingDay <= rows[i-1].TradingDay {
			return nil, fmt.Errorf("calendar: days not strictly ascending at %d", row.TradingDay)
		}
		if i < len(rows)-1 && row.NextTradingDay != rows[i+1].TradingDay {
			return nil, fmt.Errorf("calendar: %d links to %d but next row is %d",
				row.TradingDay, row.NextTradingDay, rows[i+1].TradingDay)
		}
		prevIdx := 0
		if i > 0 {
			prevIdx = i - 1
		}
		days = append(days, YmdFromInt(row.TradingDay))
		info[row.TradingDay] = dayInfo{
			isTradingDay: true,
			prevIdx:      prevIdx,
			idx:          i,
			nextIdx:      i + 1,
			hasNight:     row.HasNight,
		}
	}

	idx := 0
	last := days[len(days)-1].Date()
	for date := days[0].Date(); date.Before(last); date = date.AddDate(0, 0, 1) {
		day := YmdOf(date).YYYYMMDD
		if _, ok := info[day]; ok {
			idx++
			continue
		}
		info[day] = dayInfo{prevIdx: idx - 1, idx: idx, nextIdx: idx}
	}
	return &Calendar{days: days, info: info}, nil
}

// DeriveCalendarRows turns a bare ascending trading-day list into full
// rows. A day has a night session when it follows the previous trading
// day by one or three days; a longer gap means a holiday closed the
// night session. The first day defaults to having one.
func DeriveCalendarRows(tradingDays []uint32) []CalendarRow {
	rows := make([]CalendarRow, len(tradingDays))
	for i, day := range tradingDays {
		hasNight := true
		if i > 0 {
			prev := YmdFromInt(tradingDays[i-1]).Date()
			diff := int(YmdFromInt(day).Date().Sub(prev).Hours() / 24)
			hasNight = diff == 1 || diff == 3
		}
		var next uint32
		if i < len(tradingDays)-1 {
			next = tradingDays[i+1]
		}
		rows[i] = CalendarRow{TradingDay: day, NextTradingDay: next, HasNight: hasNight}
	}
	return rows
}

// IsTradingDay reports whether day is a trading day.
func (c *Calendar) IsTradingDay(day uint32) bool {
	return c.info[day].isTradingDay
}

// HasNight reports whether the trading day opens with a night session
// the prior evening.
func (c *Calendar) HasNight(tradingDay uint32) bool {
	return c.info[tradingDay].hasNight
}

// Prev returns the trading day before day. day itself may be a
// non-trading date.
func (c *Calendar) Prev(day uint32) (Ymd, error) {
	v, ok := c.info[day]
	if !ok || v.idx == 0 {
		return Ymd{}, &UnknownDateError{Day: day, Op: "prev"}
	}
	return c.days[v.prevIdx], nil
}

// Next returns the trading day after day. day itself may be a
// non-trading date.
func (c *Calendar) Next(day uint32) (Ymd, error) {
	v, ok := c.info[day]
	if !ok || v.nextIdx >= len(c.days) {
		return Ymd{}, &UnknownDateError{Day: day, Op: "next"}
	}
	return c.days[v.nextIdx], nil
}

// TradingDayOf maps a natural time to the trading day that owns it:
// daytime hours map to the same date, evenings to the next trading day
// and the small hours to the day after the previous trading day.
func (c *Calendar) TradingDayOf(t time.Time) (Ymd, error) {
	day := YmdOf(t)
	switch hh := t.Hour(); {
	case hh >= 9 && hh <= 15:
		return day, nil
	case hh >= 21:
		return c.Next(day.YYYYMMDD)
	case hh <= 2:
		prev, err := c.Prev(day.YYYYMMDD)
		if err != nil {
			return Ymd{}, err
		}
		return c.Next(prev.YYYYMMDD)
	default:
		return Ymd{}, &UnsupportedTimeError{Time: t}
	}
}

// SessionBounds returns the trading day whose night session covers the
// natural date and the trading day that closes it.
func (c *Calendar) SessionBounds(day uint32) (start, end Ymd, ok bool) {
	v, found := c.info[day]
	if !found || v.prevIdx < 0 || v.idx >= len(c.days) {
		return Ymd{}, Ymd{}, false
	}
	return c.days[v.prevIdx], c.days[v.idx], true
}

// First returns the earliest loaded trading day.
func (c *Calendar) First() Ymd { return c.days[0] }

// Last returns the latest loaded trading day.
func (c *Calendar) Last() Ymd { return c.days[len(c.days)-1] }

// Len returns the number of loaded trading days.
func (c *Calendar) Len() int { return len(c.days) }
