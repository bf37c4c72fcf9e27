package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"KLineTime/internal/domain/models"
	drepo "KLineTime/internal/domain/repository"
	pkgkafka "KLineTime/pkg/kafka"
)

// KafkaTicksHandler consumes raw ticks from Kafka, stamps them onto
// their 1m bar and writes the bars to storage.
type KafkaTicksHandler struct {
	topic   string
	stamper *TickStamper
	storage drepo.Storage
	metrics drepo.Metrics
}

func NewKafkaTicksHandler(topic string, stamper *TickStamper, storage drepo.Storage, metrics drepo.Metrics) *KafkaTicksHandler {
	return &KafkaTicksHandler{topic: topic, stamper: stamper, storage: storage, metrics: metrics}
}

func (h *KafkaTicksHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, trading_day, t, p, v}
func (h *KafkaTicksHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol     string  `json:"symbol"`
		TradingDay uint32  `json:"trading_day"`
		T          int64   `json:"t"`
		P          float64 `json:"p"`
		V          float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	bar, err := h.stamper.Stamp(&models.Tick{
		Symbol:     m.Symbol,
		TradingDay: m.TradingDay,
		Time:       time.Unix(m.T, 0).UTC(),
		Price:      m.P,
		Volume:     m.V,
	})
	if err != nil {
		if errors.Is(err, ErrTickDropped) {
			return nil
		}
		return err
	}

	start := time.Now()
	err = h.storage.Store(ctx, bar)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordBarStamped("clickhouse", bar.Breed)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTicksHandler)(nil)
