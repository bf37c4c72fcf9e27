package usecase

import (
	"context"
	"time"

	"KLineTime/internal/kline"
	"KLineTime/pkg/logger"
	"KLineTime/pkg/queue"
)

// CalendarReloadJob refreshes the engine snapshot when a reload
// message lands on the queue. The exchange publishes next year's
// calendar ahead of time; a reload picks it up without a restart.
type CalendarReloadJob struct {
	engine *kline.Engine
	logger *logger.Logger
}

func NewCalendarReloadJob(engine *kline.Engine, lgr *logger.Logger) *CalendarReloadJob {
	return &CalendarReloadJob{engine: engine, logger: lgr}
}

func (j *CalendarReloadJob) Name() string { return "calendar-reload" }
func (j *CalendarReloadJob) Type() string { return "calendar.reload" }

func (j *CalendarReloadJob) Handle(ctx context.Context, _ interface{}) error {
	start := time.Now()
	if err := j.engine.Reload(ctx); err != nil {
		j.logger.Error("calendar reload failed", logger.Error(err))
		return err
	}
	j.logger.Info("calendar reloaded",
		logger.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	return nil
}

var _ queue.Job = (*CalendarReloadJob)(nil)

// CalendarReloader triggers a daily reload on its own and listens for
// on-demand reload jobs via the Redis queue.
type CalendarReloader struct {
	engine   *kline.Engine
	logger   *logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewCalendarReloader(engine *kline.Engine, lgr *logger.Logger, interval time.Duration) *CalendarReloader {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CalendarReloader{
		engine:   engine,
		logger:   lgr,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the periodic reload loop.
func (r *CalendarReloader) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case <-ticker.C:
				if err := r.engine.Reload(ctx); err != nil {
					r.logger.Error("scheduled reload failed", logger.Error(err))
				}
			}
		}
	}()
}

// Stop ends the periodic loop.
func (r *CalendarReloader) Stop() {
	close(r.stopCh)
}
