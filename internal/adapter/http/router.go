package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/http/middleware"
	"github.com/iho/debtledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler *handler.AccountHandler
	WebhookHandler *handler.WebhookHandler
	HealthHandler  *handler.HealthHandler

	Logger zerolog.Logger
	// Registry backs both the HTTP collectors and the /metrics endpoint. Nil disables both.
	Registry *prometheus.Registry
	// RateLimiter guards the webhook. Nil disables limiting.
	RateLimiter *middleware.RateLimiter

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration

	// TokenVerifier enables bearer authentication on the admin API when set.
	TokenVerifier middleware.TokenVerifier
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(cfg.Registry).Wrap)
	}
	r.Use(middleware.Recovery(cfg.Logger))

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	// Gateway events
	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		r.Post("/webhook", cfg.WebhookHandler.Receive)
	})

	// Admin API v1
	r.Route("/api/v1", func(r chi.Router) {
		authEnabled := cfg.TokenVerifier != nil
		if authEnabled {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Get("/debtors", cfg.AccountHandler.ListDebtors)

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.Get)
			r.Get("/transactions", cfg.AccountHandler.History)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireMutation(authEnabled))
				r.Put("/balance", cfg.AccountHandler.SetBalance)
				r.Put("/due-date", cfg.AccountHandler.SetDueDate)
				r.Delete("/", cfg.AccountHandler.Delete)
			})
		})
	})

	return r
}
