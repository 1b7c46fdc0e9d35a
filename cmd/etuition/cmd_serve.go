package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/app/services"
	"github.com/etuition/etuition-api/config"
	"github.com/etuition/etuition-api/internal/kernel"
	"github.com/etuition/etuition-api/internal/server"
	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/middleware"
	"github.com/etuition/etuition-api/pkg/payment"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := boot(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.db.EnsureIndexes(ctx); err != nil {
			return err
		}

		store, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			logger.Warn("redis unavailable, serving without cache", "error", err)
		}
		defer store.Close()

		if config.StripeKey() == "" {
			logger.Warn("STRIPE_KEY is empty, checkout calls will fail")
		}

		limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
		defer limiter.Stop()

		handler := kernel.New(kernel.Deps{
			Repos:            repositories.NewMongo(a.db),
			Cache:            store,
			Processor:        payment.NewStripe(config.StripeKey()),
			Tokens:           auth.NewTokenService(config.JWTSecret()),
			Payment:          services.PaymentConfig{Currency: config.PaymentCurrency(), SiteURL: config.SiteURL()},
			RequireKnownUser: config.RequireKnownUser(),
			RateLimit:        limiter,
		})

		srv := server.New(net.JoinHostPort("", config.AppPort()), handler)
		return server.ListenAndRun(ctx, srv)
	},
}
