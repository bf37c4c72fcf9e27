package kline

import "time"

// IntradayRange buckets a normalized bar time into its 3m/5m/15m
// candle. These periods never cross a session break, so the window is
// pure modular arithmetic on the minute.
func IntradayRange(p Period, t time.Time) (DateTimeRange, error) {
	switch p {
	case Period3m, Period5m, Period15m:
	default:
		return DateTimeRange{}, &UnsupportedPeriodError{Period: p.String(), Scope: "IntradayRange"}
	}
	pv := int(p.Minutes())
	offset := t.Minute() % pv
	var startOff, endOff int
	if offset == 0 {
		startOff = pv - 1
	} else {
		startOff = offset - 1
		endOff = pv - offset
	}
	return DateTimeRange{
		Start: t.Add(-time.Duration(startOff) * time.Minute),
		End:   t.Add(time.Duration(endOff) * time.Minute),
	}, nil
}
