package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"KLineTime/internal/handler/api"
	"KLineTime/internal/kline"
	"KLineTime/internal/usecase"
	pkgch "KLineTime/pkg/clickhouse"
	"KLineTime/pkg/config"
	xhttp "KLineTime/pkg/http"
	pkgkafka "KLineTime/pkg/kafka"
	applogger "KLineTime/pkg/logger"
	"KLineTime/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	engine      *kline.Engine
	collector   *usecase.TickCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler *api.KLineEchoHandler
	reloader    *usecase.CalendarReloader
	reloadQueue *queue.RedisQueue
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	engine *kline.Engine,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	handler *api.KLineEchoHandler,
	reloader *usecase.CalendarReloader,
	reloadQueue *queue.RedisQueue,
) *App {
	return &App{
		cfg:         cfg,
		logger:      lgr,
		engine:      engine,
		collector:   collector,
		consumer:    consumer,
		kh:          kh,
		chClient:    chClient,
		httpHandler: handler,
		reloader:    reloader,
		reloadQueue: reloadQueue,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	// Load the calendar snapshot before serving anything
	if err := a.engine.Load(ctx); err != nil {
		l.Error("calendar load failed", applogger.Error(err))
		return err
	}
	l.Info("calendar snapshot loaded")

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the live feed collector
	if a.cfg.Feed.Enabled && a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Feed.Symbols))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Periodic calendar reload
	if a.reloader != nil {
		a.reloader.Start(ctx)
		l.Info("calendar reloader started")
	}

	// On-demand reload jobs via Redis queue
	if a.reloadQueue != nil {
		if err := a.reloadQueue.Start(); err != nil {
			l.Warn("reload queue start error", applogger.Error(err))
		} else {
			l.Info("reload queue started")
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(shutdownCtx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Stop reload machinery
	if a.reloader != nil {
		a.reloader.Stop()
	}
	if a.reloadQueue != nil {
		if err := a.reloadQueue.Stop(shutdownCtx); err != nil {
			l.Warn("reload queue stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher/storage)
	if a.collector != nil {
		if proc := a.collector.Processor(); proc != nil {
			proc.Close()
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
