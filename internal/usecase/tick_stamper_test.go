package usecase

import (
	"testing"
	"time"

	"KLineTime/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampWithTradingDay(t *testing.T) {
	s := NewTickStamper(newTestEngine(t), newMockMetrics())

	bar, err := s.Stamp(&models.Tick{
		Symbol:     "ag2212",
		TradingDay: 20220616,
		Time:       time.Date(2022, time.June, 16, 11, 25, 25, 0, time.UTC),
		Price:      4705.0,
		Volume:     12,
	})
	require.NoError(t, err)
	assert.Equal(t, "ag", bar.Breed)
	assert.Equal(t, uint32(20220616), bar.TradingDay)
	assert.Equal(t, time.Date(2022, time.June, 16, 11, 26, 0, 0, time.UTC), bar.BarTime)
	assert.Equal(t, time.Date(2022, time.June, 16, 11, 25, 25, 0, time.UTC), bar.TickTime)
	assert.Equal(t, 4705.0, bar.Price)
}

func TestStampWithSessionDay(t *testing.T) {
	s := NewTickStamper(newTestEngine(t), newMockMetrics())

	bar, err := s.Stamp(&models.Tick{
		Symbol:     "ag2212",
		SessionDay: 20220616,
		Time:       time.Date(2022, time.June, 16, 11, 25, 25, 0, time.UTC),
		Price:      4705.0,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(20220616), bar.TradingDay)
	assert.Equal(t, time.Date(2022, time.June, 16, 11, 26, 0, 0, time.UTC), bar.BarTime)
}

func TestStampOutOfSession(t *testing.T) {
	m := newMockMetrics()
	s := NewTickStamper(newTestEngine(t), m)

	_, err := s.Stamp(&models.Tick{
		Symbol:     "IC2209",
		TradingDay: 20220616,
		Time:       time.Date(2022, time.June, 16, 15, 40, 38, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrTickDropped)
	assert.Equal(t, 1, m.count("oos:IC"))
}

func TestStampUnknownBreed(t *testing.T) {
	s := NewTickStamper(newTestEngine(t), newMockMetrics())

	_, err := s.Stamp(&models.Tick{
		Symbol:     "XY2209",
		TradingDay: 20220616,
		Time:       time.Date(2022, time.June, 16, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTickDropped)
}

func TestStampNilTick(t *testing.T) {
	s := NewTickStamper(newTestEngine(t), newMockMetrics())
	_, err := s.Stamp(nil)
	require.Error(t, err)
}

func TestStampNoDayKey(t *testing.T) {
	s := NewTickStamper(newTestEngine(t), newMockMetrics())
	_, err := s.Stamp(&models.Tick{
		Symbol: "IC2209",
		Time:   time.Date(2022, time.June, 16, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}
