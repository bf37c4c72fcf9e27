package kline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// CalendarSource yields calendar rows ordered by trading day.
type CalendarSource interface {
	CalendarRows(ctx context.Context) ([]CalendarRow, error)
}

// SessionSource yields the per-breed session window rows.
type SessionSource interface {
	SessionRows(ctx context.Context) ([]SessionRow, error)
}

// SegmentSource yields the per-breed 30m/60m/120m window rows.
type SegmentSource interface {
	SegmentRows(ctx context.Context) ([]SegmentRow, error)
}

// Snapshot is one immutable, internally consistent view of the market
// data. Readers share it freely; a reload builds a fresh one.
type Snapshot struct {
	Calendar *Calendar
	Sessions *Sessions
	Minute   *MinuteBucketer
	Router   *Router
}

// BuildSnapshot validates and assembles a snapshot from raw rows.
func BuildSnapshot(calRows []CalendarRow, sesRows []SessionRow, segRows []SegmentRow) (*Snapshot, error) {
	cal, err := NewCalendar(calRows)
	if err != nil {
		return nil, err
	}
	sessions, err := NewSessions(cal, sesRows)
	if err != nil {
		return nil, err
	}
	minute, err := NewMinuteBucketer(cal, sessions)
	if err != nil {
		return nil, err
	}
	segment, err := NewSegmentBucketer(cal, segRows)
	if err != nil {
		return nil, err
	}
	router := NewRouter(segment,
		NewDailyBucketer(cal, sessions),
		NewWeeklyBucketer(cal, sessions),
		NewMonthlyBucketer(cal, sessions))
	return &Snapshot{Calendar: cal, Sessions: sessions, Minute: minute, Router: router}, nil
}

// Engine owns the current snapshot and its sources. Reads are a single
// atomic pointer load; loads and reloads are serialized and swap the
// snapshot wholesale.
type Engine struct {
	calendarSrc CalendarSource
	sessionSrc  SessionSource
	segmentSrc  SegmentSource

	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

// NewEngine builds an empty engine; call Load before reading.
func NewEngine(cal CalendarSource, ses SessionSource, seg SegmentSource) *Engine {
	return &Engine{calendarSrc: cal, sessionSrc: ses, segmentSrc: seg}
}

// Load populates the engine on first call. Concurrent and repeated
// calls collapse onto the one load.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap.Load() != nil {
		return nil
	}
	return e.reloadLocked(ctx)
}

// Reload fetches fresh rows and atomically replaces the snapshot. On
// failure the previous snapshot stays in place.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reloadLocked(ctx)
}

func (e *Engine) reloadLocked(ctx context.Context) error {
	calRows, err := e.calendarSrc.CalendarRows(ctx)
	if err != nil {
		return fmt.Errorf("load calendar: %w", err)
	}
	sesRows, err := e.sessionSrc.SessionRows(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	segRows, err := e.segmentSrc.SegmentRows(ctx)
	if err != nil {
		return fmt.Errorf("load segment windows: %w", err)
	}
	snap, err := BuildSnapshot(calRows, sesRows, segRows)
	if err != nil {
		return err
	}
	e.snap.Store(snap)
	return nil
}

// Snapshot returns the current snapshot, or nil before the first Load.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Range resolves the candle of the given period for a normalized bar
// time.
func (e *Engine) Range(breed string, p Period, t time.Time) (DateTimeRange, error) {
	snap := e.snap.Load()
	if snap == nil {
		return DateTimeRange{}, ErrNotLoaded
	}
	return snap.Router.Range(breed, p, t)
}

// BucketWithSessionDay stamps a raw tick onto its 1m bar given the
// session's natural start date.
func (e *Engine) BucketWithSessionDay(breed string, sessionDay uint32, t time.Time) (bar, tick time.Time, err error) {
	snap := e.snap.Load()
	if snap == nil {
		return time.Time{}, time.Time{}, ErrNotLoaded
	}
	return snap.Minute.BucketWithSessionDay(breed, sessionDay, t)
}

// BucketWithTradingDay stamps a raw tick onto its 1m bar given its
// trading day.
func (e *Engine) BucketWithTradingDay(breed string, tradingDay uint32, t time.Time) (bar, tick time.Time, err error) {
	snap := e.snap.Load()
	if snap == nil {
		return time.Time{}, time.Time{}, ErrNotLoaded
	}
	return snap.Minute.BucketWithTradingDay(breed, tradingDay, t)
}
