package repository

import (
	"context"
	"time"

	"KLineTime/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, b *models.MinuteBar) error
	PublishBatch(ctx context.Context, bars []*models.MinuteBar) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, b *models.MinuteBar) error
	StoreBatch(ctx context.Context, bars []*models.MinuteBar) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.MinuteBar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordBarStamped(backend, breed string)
	RecordBucket(period string)
	RecordOutOfSession(breed string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
