package main

// @title Facility Locator API
// @version 1.0.0
// @description Service that resolves free-form Korean retail outlet queries into the nearest fire station. The outlet name is extracted from the query text with a generative model backed by pattern fallbacks, located in the store shapefile dataset and paired with the closest station from the fire station dataset. Responses are GeoJSON FeatureCollections with a human-readable summary.

// @contact.name API Support
// @contact.email support@facility-locator.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/facility-locator/docs"
	"github.com/facility-locator/internal/config"
	httpDelivery "github.com/facility-locator/internal/delivery/http"
	"github.com/facility-locator/internal/delivery/http/handler"
	"github.com/facility-locator/internal/domain/repository"
	"github.com/facility-locator/internal/infrastructure/anthropic"
	"github.com/facility-locator/internal/pkg/logger"
	"github.com/facility-locator/internal/pkg/projection"
	"github.com/facility-locator/internal/repository/cache"
	"github.com/facility-locator/internal/repository/shapefile"
	"github.com/facility-locator/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Facility Locator")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to Redis. The extraction cache is advisory, so a
	// missing REDIS_HOST simply disables it instead of failing startup.
	var cacheRepo repository.CacheRepository
	var redisClient *cache.Redis
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Health(ctx); err != nil {
			cancel()
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		cancel()

		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Redis connected")
	} else {
		log.Info("Redis disabled, extraction cache is off")
	}

	// 4. Initialize the model client. Without an API key the extraction
	// cascade starts at the pattern stages.
	var llm repository.LLMRepository
	if cfg.AI.APIKey != "" {
		llm = anthropic.NewClient(&cfg.AI, log)
		log.Info("Model client initialized", zap.String("model", cfg.AI.Model))
	} else {
		log.Info("AI_API_KEY not set, name extraction uses patterns only")
	}

	// 5. Initialize Repositories
	spatialRepo := shapefile.NewStore(&cfg.Dataset, log)

	log.Info("Repositories initialized",
		zap.String("mart_dataset", cfg.Dataset.MartPath),
		zap.String("firestation_dataset", cfg.Dataset.FirestationPath),
	)

	// 6. Initialize Use Cases
	extractUC := usecase.NewExtractUseCase(
		llm,
		cacheRepo,
		log,
		cfg.Cache.ExtractCacheTTL,
	)

	resolveUC := usecase.NewResolveUseCase(
		extractUC,
		spatialRepo,
		projection.NewKorea2000(),
		log,
	)

	log.Info("Use cases initialized")

	// 7. Initialize HTTP Handlers
	analyzeHandler := handler.NewAnalyzeHandler(resolveUC, log)

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, analyzeHandler)

	log.Info("HTTP server initialized")

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
