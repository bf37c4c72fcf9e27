//go:build wireinject
// +build wireinject

package di

import (
	"KLineTime/pkg/config"
	"KLineTime/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Calendar engine
		ProvideMarketCalendarRepo,
		ProvideEngine,

		// Repositories
		ProvideBarStorage,
		ProvideBarPublisher,
		ProvideFeedStream,

		// Use cases
		ProvideTickStamper,
		ProvideBarProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,
		ProvideBucketService,
		ProvideCalendarReloader,
		ProvideReloadQueue,

		// HTTP
		ProvideKLineHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
