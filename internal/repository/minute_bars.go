package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"KLineTime/internal/domain/models"
	"KLineTime/internal/domain/repository"
	pkgkafka "KLineTime/pkg/kafka"
)

// ClickHouseBarStorage implements Storage for ClickHouse.
type ClickHouseBarStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseBarStorage creates ClickHouse minute-bar storage.
func NewClickHouseBarStorage(db *sql.DB, table string) repository.Storage {
	return &ClickHouseBarStorage{db: db, table: table}
}

func (s *ClickHouseBarStorage) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseBarStorage) Store(ctx context.Context, b *models.MinuteBar) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (bar_time, tick_time, symbol, breed, trading_day, price, volume) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.table)
	_, err := s.db.ExecContext(ctx, q,
		b.BarTime, b.TickTime, b.Symbol, b.Breed, b.TradingDay, b.Price, b.Volume)
	return err
}

func (s *ClickHouseBarStorage) StoreBatch(ctx context.Context, bars []*models.MinuteBar) error {
	if len(bars) == 0 {
		return nil
	}
	// Multi-row VALUES insert, chunked to bound statement size.
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b == nil || b.Symbol == "" || b.BarTime.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				b.BarTime, b.TickTime, b.Symbol, b.Breed, b.TradingDay, b.Price, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (bar_time, tick_time, symbol, breed, trading_day, price, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseBarStorage) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.MinuteBar, error) {
	q := fmt.Sprintf(
		"SELECT symbol, breed, trading_day, bar_time, tick_time, price, volume FROM %s WHERE symbol = ? AND bar_time >= ? AND bar_time <= ? ORDER BY bar_time DESC LIMIT ?",
		s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []*models.MinuteBar
	for rows.Next() {
		var b models.MinuteBar
		if err := rows.Scan(&b.Symbol, &b.Breed, &b.TradingDay, &b.BarTime, &b.TickTime, &b.Price, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, &b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseBarStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBarStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaBarPublisher implements Publisher for Kafka.
type KafkaBarPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaBarPublisher creates a Kafka bar publisher.
func NewKafkaBarPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaBarPublisher{producer: producer, topic: topic}
}

func barPayload(b *models.MinuteBar) map[string]interface{} {
	return map[string]interface{}{
		"symbol":      b.Symbol,
		"breed":       b.Breed,
		"trading_day": b.TradingDay,
		"bar":         b.BarTime.Format("2006-01-02 15:04:05"),
		"tick":        b.TickTime.Format("2006-01-02 15:04:05"),
		"p":           b.Price,
		"v":           b.Volume,
	}
}

func (p *KafkaBarPublisher) Publish(ctx context.Context, b *models.MinuteBar) error {
	return p.producer.Publish(ctx, p.topic, []byte(b.Symbol), barPayload(b))
}

func (p *KafkaBarPublisher) PublishBatch(ctx context.Context, bars []*models.MinuteBar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i, b := range bars {
		msgs[i] = pkgkafka.Message{Key: []byte(b.Symbol), Value: barPayload(b)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaBarPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
