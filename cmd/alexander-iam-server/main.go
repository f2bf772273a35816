// Package main is the entry point for the Alexander IAM server.
// Alexander IAM is a role-based identity and access management service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/alexander-iam/internal/auth"
	"github.com/prn-tf/alexander-iam/internal/bootstrap"
	"github.com/prn-tf/alexander-iam/internal/config"
	"github.com/prn-tf/alexander-iam/internal/handler"
	"github.com/prn-tf/alexander-iam/internal/metrics"
	"github.com/prn-tf/alexander-iam/internal/pkg/crypto"
	"github.com/prn-tf/alexander-iam/internal/ratelimit"
	"github.com/prn-tf/alexander-iam/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("driver", cfg.Database.Driver).
		Msg("starting Alexander IAM server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open backends")
	}
	defer store.Close()

	hasher := crypto.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userService := service.NewUserService(store.Users, hasher, tokens, store.Locker, logger)
	adminService := service.NewAdminService(store.Users, store.Locker, store.Cache, logger)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(store.Cache, cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow, logger)
	}

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:  handler.NewAuthHandler(userService, limiter, logger),
		UserHandler:  handler.NewUserHandler(userService, logger),
		AdminHandler: handler.NewAdminHandler(adminService, logger),
		Tokens:       tokens,
		Health:       store,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics, logger)
		metricsServer.Start()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error().Err(err).Msg("HTTP server failed")
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}

	logger.Info().Msg("server stopped")
}

// setupLogger builds the root logger from config.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat
	if zerolog.TimeFieldFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
