package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wrob/paygate/internal/adapter/http/handler"
	"github.com/wrob/paygate/internal/adapter/http/middleware"
	"github.com/wrob/paygate/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	CardHandler        *handler.CardHandler
	OrderHandler       *handler.OrderHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{iban}", cfg.AccountHandler.Get)
			r.Get("/{iban}/transactions", cfg.TransactionHandler.ListByAccount)
		})

		// Ledger
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})
		r.Get("/ledger/consistency", cfg.TransactionHandler.CheckConsistency)

		// Cards
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cfg.CardHandler.Issue)
			r.Get("/{number}", cfg.CardHandler.Get)
			r.Put("/{number}/validity", cfg.CardHandler.SetValidity)
		})

		// Orders and payments
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.OrderHandler.Create)
			r.Get("/{id}", cfg.OrderHandler.Get)
		})
		r.Post("/payments", cfg.OrderHandler.Charge)
	})

	return r
}
