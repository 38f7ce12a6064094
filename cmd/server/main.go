package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/clariohq/tokenledger/internal/adapter/http"
	"github.com/clariohq/tokenledger/internal/adapter/http/handler"
	"github.com/clariohq/tokenledger/internal/adapter/http/middleware"
	postgresRepo "github.com/clariohq/tokenledger/internal/adapter/repository/postgres"
	redisRepo "github.com/clariohq/tokenledger/internal/adapter/repository/redis"
	"github.com/clariohq/tokenledger/internal/infrastructure/auth"
	"github.com/clariohq/tokenledger/internal/infrastructure/config"
	"github.com/clariohq/tokenledger/internal/infrastructure/eventpublisher"
	"github.com/clariohq/tokenledger/internal/infrastructure/logger"
	"github.com/clariohq/tokenledger/internal/infrastructure/logging"
	"github.com/clariohq/tokenledger/internal/infrastructure/metrics"
	"github.com/clariohq/tokenledger/internal/infrastructure/postgres"
	"github.com/clariohq/tokenledger/internal/infrastructure/redis"
	"github.com/clariohq/tokenledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Background workers log through slog
	slog.SetDefault(logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).Logger)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	idemRepo := postgresRepo.NewIdempotencyRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, walletRepo, entryRepo, idemRepo, outboxRepo, retrier, cache, idGen, m)
	referralUC := usecase.NewReferralUseCase(ledgerUC, cfg.ReferralDefaultReward)
	reconUC := usecase.NewReconciliationUseCase(walletRepo, entryRepo)

	// Initialize handlers
	tokenHandler := handler.NewTokenHandler(ledgerUC)
	walletHandler := handler.NewWalletHandler(ledgerUC, reconUC)
	referralHandler := handler.NewReferralHandler(referralUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("authentication enabled")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TokenHandler:     tokenHandler,
		WalletHandler:    walletHandler,
		ReferralHandler:  referralHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		JWTManager:       jwtManager,
		RateLimiter:      rateLimiter,
		Logger:           log.Logger,
	})

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	// Outbox publisher
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(slog.Default()),
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Expired idempotency records janitor
	go func() {
		ticker := time.NewTicker(cfg.IdempotencyCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				deleted, err := idemRepo.DeleteExpired(workerCtx, time.Now())
				if err != nil {
					log.Error().Err(err).Msg("idempotency cleanup failed")
					continue
				}
				if deleted > 0 {
					log.Info().Int64("deleted", deleted).Msg("expired idempotency records removed")
				}
			}
		}
	}()

	// Stale rate limiter buckets
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
