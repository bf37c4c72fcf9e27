package usecase

import (
	"errors"
	"fmt"
	"time"

	"KLineTime/internal/domain/models"
	drepo "KLineTime/internal/domain/repository"
	"KLineTime/internal/kline"
)

// ErrTickDropped marks a tick that falls outside any session window.
// Such ticks are counted and discarded, not retried.
var ErrTickDropped = errors.New("tick outside session, dropped")

// TickStamper converts raw ticks into minute bars via the engine.
type TickStamper struct {
	engine  *kline.Engine
	metrics drepo.Metrics
}

// NewTickStamper creates a new TickStamper.
func NewTickStamper(engine *kline.Engine, metrics drepo.Metrics) *TickStamper {
	return &TickStamper{engine: engine, metrics: metrics}
}

// Stamp resolves the 1m bar of a tick. The trading-day key wins when
// both day fields are set.
func (s *TickStamper) Stamp(t *models.Tick) (*models.MinuteBar, error) {
	if t == nil {
		return nil, fmt.Errorf("tick is nil")
	}
	breed := kline.BreedFromSymbol(t.Symbol)
	tradingDay := t.TradingDay

	var barTime, tickTime time.Time
	var err error
	switch {
	case t.TradingDay != 0:
		barTime, tickTime, err = s.engine.BucketWithTradingDay(breed, t.TradingDay, t.Time)
	case t.SessionDay != 0:
		barTime, tickTime, err = s.engine.BucketWithSessionDay(breed, t.SessionDay, t.Time)
		if err == nil {
			if snap := s.engine.Snapshot(); snap != nil {
				if td, derr := snap.Calendar.TradingDayOf(tickTime); derr == nil {
					tradingDay = td.YYYYMMDD
				}
			}
		}
	default:
		return nil, fmt.Errorf("tick %s: no day key", t.Symbol)
	}
	if err != nil {
		var sessErr *kline.OutOfSessionError
		if errors.As(err, &sessErr) {
			s.metrics.RecordOutOfSession(breed)
			return nil, ErrTickDropped
		}
		s.metrics.RecordError("stamp")
		return nil, err
	}

	return &models.MinuteBar{
		Symbol:     t.Symbol,
		Breed:      breed,
		TradingDay: tradingDay,
		BarTime:    barTime,
		TickTime:   tickTime,
		Price:      t.Price,
		Volume:     t.Volume,
	}, nil
}
