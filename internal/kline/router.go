package kline

import "time"

// Router dispatches a normalized bar time to the bucketer for the
// requested period. 1m is not routable; it has its own entry points on
// MinuteBucketer because it consumes raw tick times.
type Router struct {
	segment *SegmentBucketer
	daily   *DailyBucketer
	weekly  *WeeklyBucketer
	monthly *MonthlyBucketer
}

// NewRouter wires the period bucketers together.
func NewRouter(segment *SegmentBucketer, daily *DailyBucketer, weekly *WeeklyBucketer, monthly *MonthlyBucketer) *Router {
	return &Router{segment: segment, daily: daily, weekly: weekly, monthly: monthly}
}

// Range returns the candle of the given period holding the normalized
// bar time t.
func (r *Router) Range(breed string, p Period, t time.Time) (DateTimeRange, error) {
	switch p {
	case Period3m, Period5m, Period15m:
		return IntradayRange(p, t)
	case Period30m, Period60m, Period120m:
		return r.segment.Range(breed, p, t)
	case Period1d:
		return r.daily.Range(breed, t)
	case Period1w:
		return r.weekly.Range(breed, t)
	case Period1Month:
		return r.monthly.Range(breed, t)
	}
	return DateTimeRange{}, &UnsupportedPeriodError{Period: p.String(), Scope: "Router"}
}
