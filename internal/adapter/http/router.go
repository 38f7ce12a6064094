package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/clariohq/tokenledger/internal/adapter/http/handler"
	"github.com/clariohq/tokenledger/internal/adapter/http/middleware"
	"github.com/clariohq/tokenledger/internal/infrastructure/auth"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TokenHandler     *handler.TokenHandler
	WalletHandler    *handler.WalletHandler
	ReferralHandler  *handler.ReferralHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// Fast-path replay of recently answered mutations
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Wallet reads
		r.Route("/wallets", func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireScope(auth.ScopeRead))
			}

			r.Get("/{account_id}/balance", cfg.WalletHandler.Balance)
			r.Get("/{account_id}/history", cfg.WalletHandler.History)
			r.Get("/{account_id}/verify", cfg.WalletHandler.Verify)
		})

		// Token mutations
		r.Route("/tokens", func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireScope(auth.ScopeWrite))
			}

			r.Post("/consume", cfg.TokenHandler.Consume)
			r.Post("/reserve", cfg.TokenHandler.Reserve)
			r.Post("/release", cfg.TokenHandler.Release)
			r.Post("/credit", cfg.TokenHandler.Credit)
			r.Post("/refund", cfg.TokenHandler.Refund)

			// Manual corrections need operator credentials
			r.Group(func(r chi.Router) {
				if cfg.JWTManager != nil {
					r.Use(middleware.RequireScope(auth.ScopeAdmin))
				}

				r.Post("/adjust", cfg.TokenHandler.Adjust)
			})
		})

		// Referral rewards
		r.Route("/referrals", func(r chi.Router) {
			if cfg.JWTManager != nil {
				r.Use(middleware.RequireScope(auth.ScopeWrite))
			}

			r.Post("/reward", cfg.ReferralHandler.Reward)
		})
	})

	return r
}
