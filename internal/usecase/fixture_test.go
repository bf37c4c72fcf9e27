package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"KLineTime/internal/kline"

	"github.com/stretchr/testify/require"
)

// memSource feeds the engine from in-memory rows.
type memSource struct {
	calRows []kline.CalendarRow
	sesRows []kline.SessionRow
	segRows []kline.SegmentRow
}

func (s *memSource) CalendarRows(context.Context) ([]kline.CalendarRow, error) {
	return s.calRows, nil
}

func (s *memSource) SessionRows(context.Context) ([]kline.SessionRow, error) {
	return s.sesRows, nil
}

func (s *memSource) SegmentRows(context.Context) ([]kline.SegmentRow, error) {
	return s.segRows, nil
}

// June 2022 weekdays, minus the 06-03 holiday.
func testTradingDays() []uint32 {
	var days []uint32
	for d := time.Date(2022, time.May, 30, 0, 0, 0, 0, time.UTC); d.Month() != time.July; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		day := kline.YmdOf(d).YYYYMMDD
		if day == 20220603 {
			continue
		}
		days = append(days, day)
	}
	return days
}

func newTestEngine(t *testing.T) *kline.Engine {
	t.Helper()
	src := &memSource{
		calRows: kline.DeriveCalendarRows(testTradingDays()),
		sesRows: []kline.SessionRow{
			{Breed: "IC", RangeList: "[(931,1130),(1301,1500)]"},
			{Breed: "ag", RangeList: "[(2101,230),(901,1015),(1031,1130),(1331,1500)]"},
		},
		segRows: []kline.SegmentRow{
			{Breed: "IC", Period: "60m", RangeList: "[(931,1030),(1031,1130),(1301,1400),(1401,1500)]"},
		},
	}
	eng := kline.NewEngine(src, src, src)
	require.NoError(t, eng.Load(context.Background()))
	return eng
}

// mockMetrics counts calls per event.
type mockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{counts: make(map[string]int)}
}

func (m *mockMetrics) inc(key string) {
	m.mu.Lock()
	m.counts[key]++
	m.mu.Unlock()
}

func (m *mockMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

func (m *mockMetrics) RecordBarStamped(backend, breed string) { m.inc("stamped:" + backend) }
func (m *mockMetrics) RecordBucket(period string)             { m.inc("bucket:" + period) }
func (m *mockMetrics) RecordOutOfSession(breed string)        { m.inc("oos:" + breed) }
func (m *mockMetrics) RecordError(kind string)                { m.inc("err:" + kind) }
func (m *mockMetrics) RecordLastPrice(string, float64)        { m.inc("price") }
func (m *mockMetrics) RecordLatency(op string, _ float64)     { m.inc("lat:" + op) }
