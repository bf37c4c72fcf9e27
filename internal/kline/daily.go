package kline

import "time"

// DailyBucketer resolves the 1d candle: first window open to last
// window close of the trading day, on the dates the bars actually
// print on.
type DailyBucketer struct {
	cal      *Calendar
	sessions *Sessions
}

// NewDailyBucketer builds a DailyBucketer over the loaded tables.
func NewDailyBucketer(cal *Calendar, sessions *Sessions) *DailyBucketer {
	return &DailyBucketer{cal: cal, sessions: sessions}
}

// Range returns the 1d candle holding the normalized bar time t. For a
// breed without a night session the candle sits on t's own date. A
// night breed anchors the open on the evening date and the close on
// the owning trading day, stepping over weekends and holidays.
func (d *DailyBucketer) Range(breed string, t time.Time) (DateTimeRange, error) {
	ranges, err := d.sessions.Ranges(breed)
	if err != nil {
		return DateTimeRange{}, err
	}
	first := ranges[0]
	last := ranges[len(ranges)-1]

	day := YmdOf(t).YYYYMMDD
	hhmmss := HmsOf(t).HHMMSS
	date := YmdOf(t).Date()
	start := first.Start.At(date)
	end := last.End.At(date)

	if first.Start.HHMMSS == 210100 {
		switch {
		case hhmmss >= 210100 && hhmmss <= 235959:
			next, err := d.cal.Next(day)
			if err != nil {
				return DateTimeRange{}, err
			}
			end = last.End.At(next.Date())
		case hhmmss <= 23000:
			prev, err := d.cal.Prev(day)
			if err != nil {
				return DateTimeRange{}, err
			}
			start = first.Start.At(prev.Date())
			if !d.cal.IsTradingDay(day) {
				next, err := d.cal.Next(day)
				if err != nil {
					return DateTimeRange{}, err
				}
				end = last.End.At(next.Date())
			}
		case hhmmss >= 90100 && hhmmss <= last.End.HHMMSS:
			prev, err := d.cal.Prev(day)
			if err != nil {
				return DateTimeRange{}, err
			}
			start = first.Start.At(prev.Date())
		}
	}
	return DateTimeRange{Start: start, End: end}, nil
}
