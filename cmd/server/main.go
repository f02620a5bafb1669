package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/wrob/paygate/internal/adapter/http"
	"github.com/wrob/paygate/internal/adapter/http/handler"
	"github.com/wrob/paygate/internal/adapter/http/middleware"
	postgresRepo "github.com/wrob/paygate/internal/adapter/repository/postgres"
	redisRepo "github.com/wrob/paygate/internal/adapter/repository/redis"
	"github.com/wrob/paygate/internal/infrastructure/config"
	"github.com/wrob/paygate/internal/infrastructure/logger"
	"github.com/wrob/paygate/internal/infrastructure/metrics"
	"github.com/wrob/paygate/internal/infrastructure/postgres"
	"github.com/wrob/paygate/internal/infrastructure/redis"
	"github.com/wrob/paygate/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Database
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	cardRepo := postgresRepo.NewCardRepository(pool)
	orderRepo := postgresRepo.NewOrderRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	retrier := postgresRepo.NewRetrier(appLogger)
	idGen := postgresRepo.NewULIDGenerator()

	m := metrics.New()

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, ledgerRepo, retrier, m)
	cardUC := usecase.NewCardUseCase(cardRepo, accountRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, idGen)
	paymentUC := usecase.NewPaymentUseCase(ledgerUC, cardRepo, orderRepo, cfg.MerchantIBAN)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transactionHandler := handler.NewTransactionHandler(ledgerUC)
	cardHandler := handler.NewCardHandler(cardUC)
	orderHandler := handler.NewOrderHandler(orderUC, paymentUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		CardHandler:        cardHandler,
		OrderHandler:       orderHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Logger:             appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
