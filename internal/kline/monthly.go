package kline

import "time"

// MonthlyBucketer resolves the 1month candle.
type MonthlyBucketer struct {
	cal      *Calendar
	sessions *Sessions
}

// NewMonthlyBucketer builds a MonthlyBucketer over the loaded tables.
func NewMonthlyBucketer(cal *Calendar, sessions *Sessions) *MonthlyBucketer {
	return &MonthlyBucketer{cal: cal, sessions: sessions}
}

// Range returns the 1month candle holding the normalized bar time t.
// The close is the last trading day of the month. A night breed opens
// on the trading day before the 1st, and a bar past the month's close
// (the night session after the last day close) already belongs to the
// next month.
func (m *MonthlyBucketer) Range(breed string, t time.Time) (DateTimeRange, error) {
	ranges, err := m.sessions.Ranges(breed)
	if err != nil {
		return DateTimeRange{}, err
	}
	startTime := ranges[0].Start
	endTime := ranges[len(ranges)-1].End

	year, month := t.Year(), t.Month()
	edate := time.Date(year, month, daysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	if !m.cal.IsTradingDay(YmdOf(edate).YYYYMMDD) {
		prev, err := m.cal.Prev(YmdOf(edate).YYYYMMDD)
		if err != nil {
			return DateTimeRange{}, err
		}
		edate = prev.Date()
	}
	sdate := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := endTime.At(edate)

	if !m.sessions.HasNight(breed) {
		return DateTimeRange{Start: startTime.At(sdate), End: end}, nil
	}

	if t.After(end) {
		if month == time.December {
			year, month = year+1, time.January
		} else {
			month++
		}
		sdate = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		edate = time.Date(year, month, daysInMonth(year, month), 0, 0, 0, 0, time.UTC)
		if !m.cal.IsTradingDay(YmdOf(edate).YYYYMMDD) {
			prev, err := m.cal.Prev(YmdOf(edate).YYYYMMDD)
			if err != nil {
				return DateTimeRange{}, err
			}
			edate = prev.Date()
		}
	}

	prev, err := m.cal.Prev(YmdOf(sdate).YYYYMMDD)
	if err != nil {
		return DateTimeRange{}, err
	}
	sdate = prev.Date()
	return DateTimeRange{Start: startTime.At(sdate), End: endTime.At(edate)}, nil
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalizes to this month's last day
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
