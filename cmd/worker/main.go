package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/helpers"
	infradatabase "github.com/yokitheyo/mediacatalog/internal/infrastructure/database"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/kafka"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/storage"
	"github.com/yokitheyo/mediacatalog/internal/repository/postgres"
	"github.com/yokitheyo/mediacatalog/internal/retry"
	"github.com/yokitheyo/mediacatalog/internal/usecase"
	"github.com/yokitheyo/mediacatalog/internal/worker"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting blob cleanup worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := helpers.SetLogLevel(cfg.Logging.Level); err != nil {
		zlog.Logger.Warn().Err(err).Msg("keeping default log level")
	}
	if !cfg.Kafka.Enabled {
		zlog.Logger.Fatal().Msg("kafka is disabled, nothing to consume")
	}

	database, err := infradatabase.Connect(&cfg.Database)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database after all retries")
	}
	defer infradatabase.Close(database)

	blobs, err := storage.New(&cfg.Storage)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	imageRepo := postgres.NewImageRepository(database, retry.DefaultStrategy)
	cleanupWorker := worker.NewCleanupWorker(usecase.NewCleanupUsecase(imageRepo, blobs))

	requeuer := kafka.NewProducer(&cfg.Kafka)
	defer requeuer.Close()

	consumer, err := kafka.NewConsumer(&cfg.Kafka, cleanupWorker.HandleCleanupTask, requeuer)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize Kafka consumer")
	}
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil {
			zlog.Logger.Error().Err(err).Msg("Kafka consumer error")
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("Shutdown signal received")
	<-done

	zlog.Logger.Info().Msg("Worker shutdown complete")
}
