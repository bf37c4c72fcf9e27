package di

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"KLineTime/internal/domain/repository"
	"KLineTime/internal/handler/api"
	"KLineTime/internal/kline"
	mid "KLineTime/internal/middleware"
	internalrepo "KLineTime/internal/repository"
	"KLineTime/internal/service/feed"
	"KLineTime/internal/usecase"
	"KLineTime/pkg/cache"
	pkgch "KLineTime/pkg/clickhouse"
	"KLineTime/pkg/config"
	pkgkafka "KLineTime/pkg/kafka"
	applogger "KLineTime/pkg/logger"
	"KLineTime/pkg/metrics"
	"KLineTime/pkg/queue"
	"KLineTime/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".trading_calendar (trading_day UInt32, next_trading_day UInt32, has_night UInt8) ENGINE=ReplacingMergeTree ORDER BY trading_day",
		"CREATE TABLE IF NOT EXISTS " + db + ".trading_sessions (breed String, range_list String) ENGINE=ReplacingMergeTree ORDER BY breed",
		"CREATE TABLE IF NOT EXISTS " + db + ".kline_segments (breed String, period String, range_list String) ENGINE=ReplacingMergeTree ORDER BY (breed, period)",
		"CREATE TABLE IF NOT EXISTS " + db + ".minute_bars (bar_time DateTime, tick_time DateTime, symbol String, breed String, trading_day UInt32, price Float64, volume Float64) ENGINE=MergeTree ORDER BY (symbol, bar_time)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMarketCalendarRepo creates the calendar/session/segment source.
func ProvideMarketCalendarRepo(chClient *pkgch.Client, cfg *config.Config) *internalrepo.MarketCalendarRepo {
	return internalrepo.NewMarketCalendarRepo(chClient.DB(), cfg.ClickHouse.Database)
}

// ProvideEngine creates the bucketing engine over the calendar repo.
// The snapshot is loaded at startup by the app, not here.
func ProvideEngine(repo *internalrepo.MarketCalendarRepo) *kline.Engine {
	return kline.NewEngine(repo, repo, repo)
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStorage creates ClickHouse storage for minute bars.
func ProvideBarStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseBarStorage(chClient.DB(), cfg.ClickHouse.Database+".minute_bars")
}

// ProvideBarPublisher creates a Kafka publisher for minute bars.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaBarPublisher(producer, cfg.Kafka.BarsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideTickStamper creates the tick-to-bar stamper.
func ProvideTickStamper(engine *kline.Engine, metrics repository.Metrics) *usecase.TickStamper {
	return usecase.NewTickStamper(engine, metrics)
}

// ProvideKafkaTicksHandler registers the handler for the ticks topic.
func ProvideKafkaTicksHandler(stamper *usecase.TickStamper, store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.TicksTopic, stamper, store, metrics)
}

// ProvideFeedStream creates the quote feed WebSocket stream.
func ProvideFeedStream(cfg *config.Config) repository.MarketStream {
	return feed.New(
		cfg.Feed.Token,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Symbols,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideBarProcessor creates the bar routing use case.
func ProvideBarProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
	stream repository.MarketStream,
	stamper *usecase.TickStamper,
	processor *usecase.BarProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// Middleware pipeline between the stream and the backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, stamper, processor, metrics, pipe)
}

// ProvideCache creates the bucket cache. Redis-backed with a memory
// layer when Redis is enabled, memory-only otherwise.
func ProvideCache(cfg *config.Config) cache.Service {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	host, port := splitHostPort(cfg.Redis.Addr)
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		// degrade to memory-only when Redis is unreachable
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
}

// ProvideBucketService creates the bucket resolution service.
func ProvideBucketService(engine *kline.Engine, c cache.Service, metrics repository.Metrics, cfg *config.Config) *usecase.BucketService {
	return usecase.NewBucketService(engine, c, metrics, cfg.Cache.BucketTTL)
}

// ProvideKLineHandler creates the HTTP API handler.
func ProvideKLineHandler(lgr *applogger.Logger, svc *usecase.BucketService, store repository.Storage, chClient *pkgch.Client) *api.KLineEchoHandler {
	return api.NewKLineEchoHandler(lgr, svc, store, chClient)
}

// ProvideCalendarReloader creates the periodic calendar reloader.
func ProvideCalendarReloader(engine *kline.Engine, lgr *applogger.Logger, cfg *config.Config) *usecase.CalendarReloader {
	return usecase.NewCalendarReloader(engine, lgr, cfg.Reload.Interval)
}

// ProvideReloadQueue creates a Redis queue consumer for on-demand
// calendar reloads. Returns nil when Redis is disabled.
func ProvideReloadQueue(lgr *applogger.Logger, engine *kline.Engine, cfg *config.Config) *queue.RedisQueue {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	jobs := []queue.Job{usecase.NewCalendarReloadJob(engine, lgr)}
	return queue.NewRedisConsumer(lgr, &queue.QueueConfig{Workers: 1}, client, jobs)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	engine *kline.Engine,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	handler *api.KLineEchoHandler,
	reloader *usecase.CalendarReloader,
	reloadQueue *queue.RedisQueue,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, lgr, engine, collector, consumer, kh, chClient, handler, reloader, reloadQueue)
}

func splitHostPort(addr string) (string, int) {
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 6379
	}
	return host, port
}
