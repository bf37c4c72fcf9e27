package kline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureEngine(src *memorySource) *Engine {
	return NewEngine(src, src, src)
}

func TestEngineNotLoaded(t *testing.T) {
	eng := newFixtureEngine(fixtureSource())

	assert.Nil(t, eng.Snapshot())
	_, err := eng.Range("IC", Period1d, dt(2022, time.June, 20, 10, 0, 0))
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, _, err = eng.BucketWithSessionDay("IC", 20220620, dt(2022, time.June, 20, 10, 0, 0))
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, _, err = eng.BucketWithTradingDay("IC", 20220620, dt(2022, time.June, 20, 10, 0, 0))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestEngineLoadOnce(t *testing.T) {
	src := fixtureSource()
	eng := newFixtureEngine(src)
	ctx := context.Background()

	require.NoError(t, eng.Load(ctx))
	require.NoError(t, eng.Load(ctx))
	assert.Equal(t, 1, src.loads)
	assert.NotNil(t, eng.Snapshot())
}

func TestEngineLoadConcurrent(t *testing.T) {
	src := fixtureSource()
	eng := newFixtureEngine(src)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, eng.Load(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, src.loads)
}

func TestEngineReload(t *testing.T) {
	src := fixtureSource()
	eng := newFixtureEngine(src)
	ctx := context.Background()

	require.NoError(t, eng.Load(ctx))
	first := eng.Snapshot()

	require.NoError(t, eng.Reload(ctx))
	assert.Equal(t, 2, src.loads)
	assert.NotSame(t, first, eng.Snapshot())
}

func TestEngineReloadFailureKeepsSnapshot(t *testing.T) {
	src := fixtureSource()
	eng := newFixtureEngine(src)
	ctx := context.Background()

	require.NoError(t, eng.Load(ctx))
	before := eng.Snapshot()

	src.err = errors.New("connection reset")
	require.Error(t, eng.Reload(ctx))
	assert.Same(t, before, eng.Snapshot())

	// reads keep working off the old snapshot
	_, err := eng.Range("IC", Period1d, dt(2022, time.June, 20, 10, 0, 0))
	assert.NoError(t, err)
}

func TestEngineLoadSourceError(t *testing.T) {
	src := fixtureSource()
	src.err = errors.New("connection reset")
	eng := newFixtureEngine(src)

	err := eng.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, eng.Snapshot())
}

// TestEnginePipeline walks one raw tick through the 1m stamp and every
// higher period, the way the conversion service consumes the engine.
func TestEnginePipeline(t *testing.T) {
	eng := newFixtureEngine(fixtureSource())
	require.NoError(t, eng.Load(context.Background()))

	bar, tick, err := eng.BucketWithSessionDay("ag", 20220616, dt(2022, time.June, 16, 11, 25, 25))
	require.NoError(t, err)
	assert.Equal(t, dt(2022, time.June, 16, 11, 26, 0), bar)
	assert.Equal(t, dt(2022, time.June, 16, 11, 25, 25), tick)

	want := map[Period]DateTimeRange{
		Period3m:     {Start: dt(2022, time.June, 16, 11, 25, 0), End: dt(2022, time.June, 16, 11, 27, 0)},
		Period5m:     {Start: dt(2022, time.June, 16, 11, 26, 0), End: dt(2022, time.June, 16, 11, 30, 0)},
		Period15m:    {Start: dt(2022, time.June, 16, 11, 16, 0), End: dt(2022, time.June, 16, 11, 30, 0)},
		Period120m:   {Start: dt(2022, time.June, 16, 9, 32, 0), End: dt(2022, time.June, 16, 11, 31, 0)},
		Period1d:     {Start: dt(2022, time.June, 15, 21, 1, 0), End: dt(2022, time.June, 16, 15, 0, 0)},
		Period1w:     {Start: dt(2022, time.June, 10, 21, 1, 0), End: dt(2022, time.June, 17, 15, 0, 0)},
		Period1Month: {Start: dt(2022, time.May, 31, 21, 1, 0), End: dt(2022, time.June, 30, 15, 0, 0)},
	}
	for p, r := range want {
		got, err := eng.Range("ag", p, bar)
		require.NoError(t, err, p.String())
		assert.Equal(t, r, got, p.String())
	}
}

func TestEngineRangeRejectsMinutePeriod(t *testing.T) {
	eng := newFixtureEngine(fixtureSource())
	require.NoError(t, eng.Load(context.Background()))

	var perErr *UnsupportedPeriodError
	_, err := eng.Range("ag", Period1m, dt(2022, time.June, 16, 11, 26, 0))
	assert.ErrorAs(t, err, &perErr)
}
