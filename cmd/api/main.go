package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paramveeRana/brainstroke3/internal/adapters/cache"
	"github.com/paramveeRana/brainstroke3/internal/adapters/database"
	"github.com/paramveeRana/brainstroke3/internal/adapters/events"
	"github.com/paramveeRana/brainstroke3/internal/api/handlers"
	"github.com/paramveeRana/brainstroke3/internal/api/routes"
	"github.com/paramveeRana/brainstroke3/internal/application/services"
	"github.com/paramveeRana/brainstroke3/internal/domain/providers"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
	"github.com/paramveeRana/brainstroke3/internal/domain/scoring"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/postgres"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/redis"
	"github.com/paramveeRana/brainstroke3/internal/infrastructure/observability"
	"github.com/paramveeRana/brainstroke3/migrations"
	"github.com/paramveeRana/brainstroke3/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Environment, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, pgClient); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	checks := map[string]handlers.HealthCheck{
		"postgres": pgClient.Ping,
	}

	// Redis is optional: without it assessments are served uncached and no
	// events are published.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without cache and events")
			redisClient = nil
		} else {
			defer redisClient.Close()
			checks["redis"] = redisClient.Ping
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
	}

	recordRepo := database.NewHealthRecordAdapter(pgClient, metrics)
	var assessmentRepo repositories.AssessmentRepository = database.NewAssessmentAdapter(pgClient, metrics)
	if cacheProvider != nil {
		assessmentRepo = database.NewCachedAssessmentAdapter(assessmentRepo, cacheProvider, cfg.Redis.HistoryTTL, metrics)
		log.Info().Dur("history_ttl", cfg.Redis.HistoryTTL).Msg("Assessment repository wrapped with cache")
	}

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			cacheInvalidationService = nil
		}
	}

	assessmentService := services.NewAssessmentService(recordRepo, assessmentRepo, eventBus, scoring.Default(), metrics)

	var streamHandler *handlers.StreamHandler
	if eventBus != nil {
		streamHandler = handlers.NewStreamHandler(eventBus)
	}

	router := routes.NewRouter(
		handlers.NewHealthHandler(checks),
		handlers.NewRiskHandler(assessmentService),
		handlers.NewAssessmentHandler(assessmentService),
		streamHandler,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("table_version", assessmentService.Engine().Table().Version).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
