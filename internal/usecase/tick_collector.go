package usecase

import (
	"context"
	"errors"

	"KLineTime/internal/domain/models"
	drepo "KLineTime/internal/domain/repository"
	mid "KLineTime/internal/middleware"
)

// TickCollector consumes ticks from the market stream, stamps them and
// hands the bars to the processor.
type TickCollector struct {
	stream  drepo.MarketStream
	stamper *TickStamper
	proc    *BarProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

// NewTickCollector creates a new TickCollector instance.
func NewTickCollector(stream drepo.MarketStream, stamper *TickStamper, proc *BarProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *TickCollector {
	return &TickCollector{stream: stream, stamper: stamper, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tkCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tkCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tkCh <-chan *models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tkCh:
			if t == nil {
				continue
			}
			bar, err := c.stamper.Stamp(t)
			if err != nil {
				if !errors.Is(err, ErrTickDropped) {
					c.metrics.RecordError("collector_stamp")
				}
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, bar)
			} else {
				_ = c.proc.Process(ctx, bar)
			}
			c.metrics.RecordLastPrice(t.Symbol, t.Price)
		}
	}
}

func (c *TickCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying BarProcessor for lifecycle management.
func (c *TickCollector) Processor() *BarProcessor { return c.proc }

// Shutdown stops pipeline and closes stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
