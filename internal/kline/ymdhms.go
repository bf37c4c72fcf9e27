package kline

import (
	"fmt"
	"time"
)

const dateTimeLayout = "2006-01-02 15:04:05"

// Hms is a time of day coded as integers. Keeping hhmmss and hhmm
// precomputed makes boundary comparisons cheap and exact.
type Hms struct {
	HHMMSS uint32
	HHMM   uint16
	Hour   uint8
	Minute uint8
	Second uint8
}

// HmsFromInt builds an Hms from an hhmmss integer such as 210100.
func HmsFromInt(hhmmss uint32) Hms {
	hhmm := uint16(hhmmss / 100)
	return Hms{
		HHMMSS: hhmmss,
		HHMM:   hhmm,
		Hour:   uint8(hhmm / 100),
		Minute: uint8(hhmm % 100),
		Second: uint8(hhmmss % 100),
	}
}

// HmsFromClock builds an Hms from clock components.
func HmsFromClock(hour, minute, second int) Hms {
	hhmm := uint16(hour)*100 + uint16(minute)
	return Hms{
		HHMMSS: uint32(hhmm)*100 + uint32(second),
		HHMM:   hhmm,
		Hour:   uint8(hour),
		Minute: uint8(minute),
		Second: uint8(second),
	}
}

// HmsOf extracts the time of day from t.
func HmsOf(t time.Time) Hms {
	return HmsFromClock(t.Hour(), t.Minute(), t.Second())
}

// At places the time of day on the given date.
func (h Hms) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		int(h.Hour), int(h.Minute), int(h.Second), 0, time.UTC)
}

func (h Hms) String() string { return fmt.Sprintf("%d", h.HHMMSS) }

// Ymd is a date coded as a yyyymmdd integer.
type Ymd struct {
	YYYYMMDD uint32
	Year     uint16
	Month    uint8
	Day      uint8
}

// YmdFromInt builds a Ymd from a yyyymmdd integer such as 20220613.
func YmdFromInt(yyyymmdd uint32) Ymd {
	return Ymd{
		YYYYMMDD: yyyymmdd,
		Year:     uint16(yyyymmdd / 10000),
		Month:    uint8(yyyymmdd / 100 % 100),
		Day:      uint8(yyyymmdd % 100),
	}
}

// YmdOf extracts the date from t.
func YmdOf(t time.Time) Ymd {
	return Ymd{
		YYYYMMDD: uint32(t.Year())*10000 + uint32(t.Month())*100 + uint32(t.Day()),
		Year:     uint16(t.Year()),
		Month:    uint8(t.Month()),
		Day:      uint8(t.Day()),
	}
}

// Date returns the date at midnight UTC.
func (d Ymd) Date() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

func (d Ymd) String() string { return fmt.Sprintf("%d", d.YYYYMMDD) }

// TimeRange is a session window in bar-minute convention: Start is the
// first bar of the window, End its last. A Start greater than End means
// the window wraps past midnight.
type TimeRange struct {
	Start Hms
	End   Hms
}

// NewTimeRange builds a TimeRange from hhmmss integers.
func NewTimeRange(start, end uint32) TimeRange {
	return TimeRange{Start: HmsFromInt(start), End: HmsFromInt(end)}
}

// Contains reports whether hhmmss falls inside the window, wrap-aware.
func (r TimeRange) Contains(hhmmss uint32) bool {
	s, e := r.Start.HHMMSS, r.End.HHMMSS
	if s <= e {
		return hhmmss >= s && hhmmss <= e
	}
	return hhmmss >= s || hhmmss <= e
}

// ContainsTime reports whether the time of day of t falls inside the window.
func (r TimeRange) ContainsTime(t time.Time) bool {
	return r.Contains(HmsOf(t).HHMMSS)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("(%s,%s)", r.Start, r.End)
}

// DateTimeRange is a K-line bucket: the first and last bar times of one
// candle.
type DateTimeRange struct {
	Start time.Time
	End   time.Time
}

func (r DateTimeRange) String() string {
	return fmt.Sprintf("(%s~%s)",
		r.Start.Format(dateTimeLayout), r.End.Format(dateTimeLayout))
}
