package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"KLineTime/internal/domain/models"
	drepo "KLineTime/internal/domain/repository"
	"KLineTime/internal/kline"
	"KLineTime/pkg/cache"
)

const barTimeLayout = "2006-01-02 15:04:05"

// BucketService resolves candle windows for API callers. Resolved
// windows are cached: a bucket lookup for the same breed, period and
// bar time always yields the same answer until the next reload.
type BucketService struct {
	engine   *kline.Engine
	cache    cache.Service
	metrics  drepo.Metrics
	cacheTTL time.Duration
}

// NewBucketService creates a BucketService. A nil cache disables
// caching.
func NewBucketService(engine *kline.Engine, c cache.Service, metrics drepo.Metrics, ttl time.Duration) *BucketService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &BucketService{engine: engine, cache: c, metrics: metrics, cacheTTL: ttl}
}

// Bucket resolves the candle of the given period holding a normalized
// bar time.
func (s *BucketService) Bucket(ctx context.Context, symbol, period, barTime string) (*models.BucketResponse, error) {
	p, err := kline.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(barTimeLayout, barTime)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", barTime, err)
	}
	t = t.UTC()
	breed := kline.BreedFromSymbol(symbol)

	key := fmt.Sprintf("kline:bucket:%s:%s:%s", breed, p, t.Format(barTimeLayout))
	if s.cache != nil {
		var raw string
		if err := s.cache.Get(ctx, key, &raw); err == nil {
			var cached models.BucketResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				cached.Symbol = symbol
				return &cached, nil
			}
		}
	}

	start := time.Now()
	r, err := s.engine.Range(breed, p, t)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordBucket(p.String())
	s.metrics.RecordLatency("bucket_resolve", time.Since(start).Seconds())

	res := &models.BucketResponse{
		Symbol: symbol,
		Breed:  breed,
		Period: p.String(),
		Start:  r.Start.Format(barTimeLayout),
		End:    r.End.Format(barTimeLayout),
	}
	if s.cache != nil {
		if raw, merr := json.Marshal(res); merr == nil {
			_ = s.cache.Set(ctx, key, string(raw), s.cacheTTL)
		}
	}
	return res, nil
}

// Minute stamps a raw tick time onto its 1m bar. Minute bars are not
// cached: the raw time is near-unique per call.
func (s *BucketService) Minute(ctx context.Context, req *models.MinuteRequest) (*models.MinuteResponse, error) {
	t, err := time.Parse(barTimeLayout, req.Time)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", req.Time, err)
	}
	t = t.UTC()
	breed := kline.BreedFromSymbol(req.Symbol)

	var bar, tick time.Time
	switch {
	case req.TradingDay != 0:
		bar, tick, err = s.engine.BucketWithTradingDay(breed, req.TradingDay, t)
	case req.SessionDay != 0:
		bar, tick, err = s.engine.BucketWithSessionDay(breed, req.SessionDay, t)
	default:
		return nil, fmt.Errorf("trading_day or session_day is required")
	}
	if err != nil {
		return nil, err
	}
	s.metrics.RecordBucket("1m")

	return &models.MinuteResponse{
		Symbol: req.Symbol,
		Breed:  breed,
		Bar:    bar.Format(barTimeLayout),
		Tick:   tick.Format(barTimeLayout),
	}, nil
}
