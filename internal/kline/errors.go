package kline

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotLoaded is returned by Engine accessors before the first Load.
var ErrNotLoaded = errors.New("kline: engine not loaded")

// UnknownDateError reports a date with no prev/next trading day inside
// the loaded calendar range.
type UnknownDateError struct {
	Day uint32
	Op  string // "prev" or "next"
}

func (e *UnknownDateError) Error() string {
	return fmt.Sprintf("no %s trading day for %d", e.Op, e.Day)
}

// UnknownBreedError reports a breed missing from a loaded table.
type UnknownBreedError struct {
	Breed string
	Scope string
}

func (e *UnknownBreedError) Error() string {
	return fmt.Sprintf("breed %q not loaded in %s", e.Breed, e.Scope)
}

// UnsupportedPeriodError reports a period the caller asked for that the
// target table or operation does not carry.
type UnsupportedPeriodError struct {
	Period string
	Scope  string
}

func (e *UnsupportedPeriodError) Error() string {
	return fmt.Sprintf("period %q not supported in %s", e.Period, e.Scope)
}

// OutOfSessionError reports a time that falls outside every trading
// window of the breed. Time is the normalized time that failed the
// check, not necessarily the raw input.
type OutOfSessionError struct {
	Breed string
	Time  time.Time
}

func (e *OutOfSessionError) Error() string {
	return fmt.Sprintf("%s: %s outside trading session",
		e.Breed, e.Time.Format(dateTimeLayout))
}

// UnsupportedTimeError reports an hour band no session maps to a
// trading day (between 03:00 and 09:00, or 16:00 and 21:00).
type UnsupportedTimeError struct {
	Time time.Time
}

func (e *UnsupportedTimeError) Error() string {
	return fmt.Sprintf("no trading day owns %s", e.Time.Format(dateTimeLayout))
}

// WeekGapError reports a week whose trading days were all holidays.
type WeekGapError struct {
	Time time.Time
}

func (e *WeekGapError) Error() string {
	return fmt.Sprintf("week of %s has no trading day", e.Time.Format(dateTimeLayout))
}
