package kline

import "time"

// WeeklyBucketer resolves the 1w candle. A week's candle closes on its
// Friday; a Friday bar after 21:00 already belongs to the next week.
type WeeklyBucketer struct {
	cal      *Calendar
	sessions *Sessions
}

// NewWeeklyBucketer builds a WeeklyBucketer over the loaded tables.
func NewWeeklyBucketer(cal *Calendar, sessions *Sessions) *WeeklyBucketer {
	return &WeeklyBucketer{cal: cal, sessions: sessions}
}

// Range returns the 1w candle holding the normalized bar time t. The
// open sits on the previous Friday for night breeds and on Monday
// otherwise. A non-trading Friday pulls the close back; a week with no
// trading day at all is an error.
func (w *WeeklyBucketer) Range(breed string, t time.Time) (DateTimeRange, error) {
	hhmmss := HmsOf(t).HHMMSS
	date := YmdOf(t).Date()
	fromMonday := int(date.Weekday())
	if fromMonday == 0 {
		fromMonday = 7
	}

	var endDate time.Time
	switch {
	case date.Weekday() == time.Friday && hhmmss > 210000:
		endDate = date.AddDate(0, 0, 7)
	case date.Weekday() == time.Saturday || date.Weekday() == time.Sunday:
		endDate = date.AddDate(0, 0, 12-fromMonday)
	default:
		endDate = date.AddDate(0, 0, 5-fromMonday)
	}

	startDate := endDate.AddDate(0, 0, -4)
	if w.sessions.HasNight(breed) {
		startDate = endDate.AddDate(0, 0, -7)
	}

	endDay := YmdOf(endDate).YYYYMMDD
	if !w.cal.IsTradingDay(endDay) {
		prev, err := w.cal.Prev(endDay)
		if err != nil {
			return DateTimeRange{}, err
		}
		endDate = prev.Date()
		if endDate.Before(startDate) {
			return DateTimeRange{}, &WeekGapError{Time: t}
		}
	}

	ranges, err := w.sessions.Ranges(breed)
	if err != nil {
		return DateTimeRange{}, err
	}
	start := ranges[0].Start.At(startDate)
	end := ranges[len(ranges)-1].End.At(endDate)
	if start.After(end) {
		return DateTimeRange{}, &WeekGapError{Time: t}
	}
	return DateTimeRange{Start: start, End: end}, nil
}
