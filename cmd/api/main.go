package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	httpHandler "github.com/yokitheyo/mediacatalog/internal/handler/http"
	"github.com/yokitheyo/mediacatalog/internal/helpers"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/cache"
	infradatabase "github.com/yokitheyo/mediacatalog/internal/infrastructure/database"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/hasher"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/kafka"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/processor"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/storage"
	"github.com/yokitheyo/mediacatalog/internal/infrastructure/token"
	"github.com/yokitheyo/mediacatalog/internal/repository/postgres"
	"github.com/yokitheyo/mediacatalog/internal/retry"
	"github.com/yokitheyo/mediacatalog/internal/usecase"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting media catalog API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := helpers.SetLogLevel(cfg.Logging.Level); err != nil {
		zlog.Logger.Warn().Err(err).Msg("keeping default log level")
	}

	database, err := infradatabase.Connect(&cfg.Database)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database after all retries")
	}
	defer infradatabase.Close(database)

	zlog.Logger.Info().Msg("Running database migrations...")
	if err := infradatabase.RunMigrations(database, cfg.Migrations.Path); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Migrations failed")
	}

	blobs, err := storage.New(&cfg.Storage)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	var cleanupQueue domain.CleanupQueue = kafka.NewLogQueue()
	if cfg.Kafka.Enabled {
		cleanupQueue = kafka.NewProducer(&cfg.Kafka)
	}
	defer cleanupQueue.Close()

	imageRepo := postgres.NewImageRepository(database, retry.DefaultStrategy)
	categoryRepo := postgres.NewCategoryRepository(database, retry.DefaultStrategy)
	userRepo := postgres.NewUserRepository(database, retry.DefaultStrategy)

	catalogCache := cache.NewFromConfig(&cfg.Cache)

	imageUsecase := usecase.NewImageUsecase(
		imageRepo,
		categoryRepo,
		blobs,
		processor.NewImageProcessor(&cfg.Processing),
		catalogCache,
		cleanupQueue,
	)
	catalogUsecase := usecase.NewCatalogUsecase(imageRepo, categoryRepo, catalogCache)
	authUsecase, err := usecase.NewAuthUsecase(
		userRepo,
		hasher.NewBcryptHasher(hasher.DefaultCost),
		token.NewJWTService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute),
	)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize auth")
	}

	engine := newRouter("api", cfg, authUsecase, httpHandler.Handlers{
		Auth:       httpHandler.NewAuthHandler(authUsecase),
		Categories: httpHandler.NewCategoryHandler(catalogUsecase),
		Images: httpHandler.NewImageHandler(
			imageUsecase,
			catalogUsecase,
			int64(cfg.Server.MaxUploadSizeMB)*1024*1024,
		),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	} else {
		zlog.Logger.Info().Msg("HTTP server stopped gracefully")
	}

	zlog.Logger.Info().Msg("API shutdown complete")
}
