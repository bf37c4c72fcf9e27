package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"KLineTime/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureProc struct {
	mu   sync.Mutex
	bars []*models.MinuteBar
	err  error
}

func (p *captureProc) Process(_ context.Context, b *models.MinuteBar) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.bars = append(p.bars, b)
	return nil
}

func (p *captureProc) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bars)
}

type countMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountMetrics() *countMetrics { return &countMetrics{counts: make(map[string]int)} }

func (m *countMetrics) inc(key string) {
	m.mu.Lock()
	m.counts[key]++
	m.mu.Unlock()
}

func (m *countMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

func (m *countMetrics) RecordBarStamped(string, string)    { m.inc("stamped") }
func (m *countMetrics) RecordBucket(string)                { m.inc("bucket") }
func (m *countMetrics) RecordOutOfSession(string)          { m.inc("oos") }
func (m *countMetrics) RecordError(kind string)            { m.inc("err:" + kind) }
func (m *countMetrics) RecordLastPrice(string, float64)    { m.inc("price") }
func (m *countMetrics) RecordLatency(op string, _ float64) { m.inc("lat:" + op) }

func testBar(symbol string) *models.MinuteBar {
	return &models.MinuteBar{
		Symbol:     symbol,
		Breed:      "IC",
		TradingDay: 20220616,
		BarTime:    time.Date(2022, time.June, 16, 10, 16, 0, 0, time.UTC),
		TickTime:   time.Date(2022, time.June, 16, 10, 15, 25, 0, time.UTC),
		Price:      6100.2,
		Volume:     3,
	}
}

func TestPipelineForwards(t *testing.T) {
	proc := &captureProc{}
	p := NewRealtimePipeline(proc, newCountMetrics())

	require.NoError(t, p.Process(context.Background(), testBar("IC2209")))
	assert.Equal(t, 1, proc.len())
}

func TestPipelineValidation(t *testing.T) {
	proc := &captureProc{}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m)

	cases := []*models.MinuteBar{
		nil,
		{Symbol: "", BarTime: time.Now()},
		{Symbol: "IC2209"}, // zero bar time
		func() *models.MinuteBar {
			b := testBar("IC2209")
			b.Price = -1
			return b
		}(),
	}
	for _, b := range cases {
		assert.Error(t, p.Process(context.Background(), b))
	}
	assert.Equal(t, 0, proc.len())
	assert.Equal(t, len(cases), m.count("err:pipeline_validate"))
}

func TestPipelineThrottles(t *testing.T) {
	proc := &captureProc{}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m, WithMaxRPS(1))

	require.NoError(t, p.Process(context.Background(), testBar("IC2209")))
	// token bucket is empty now; the second bar is dropped silently
	require.NoError(t, p.Process(context.Background(), testBar("IC2209")))

	assert.Equal(t, 1, proc.len())
	assert.Equal(t, 1, m.count("err:pipeline_throttle"))
}

func TestPipelineBuffersOnError(t *testing.T) {
	proc := &captureProc{err: errors.New("downstream down")}
	m := newCountMetrics()
	p := NewRealtimePipeline(proc, m, WithBufferSize(10))

	err := p.Process(context.Background(), testBar("IC2209"))
	require.Error(t, err)
	assert.Equal(t, 1, m.count("err:pipeline_process"))
}
