package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/finance-tracker/internal/config"
	"github.com/boddenberg/finance-tracker/internal/handler"
	"github.com/boddenberg/finance-tracker/internal/infra/backend"
	"github.com/boddenberg/finance-tracker/internal/infra/cache"
	"github.com/boddenberg/finance-tracker/internal/infra/observability"
	"github.com/boddenberg/finance-tracker/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_backend", cfg.DataBackend),
		zap.String("period_mode", cfg.PeriodMode),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("idempotency_ttl", cfg.IdempotencyTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("dev_auth", cfg.DevAuth),
	)
	if cfg.DevAuth {
		logger.Warn("DEV_AUTH is on: the X-User-ID header is trusted without a token")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "finance-tracker")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Record store ---
	store, err := backend.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer store.Close()

	// --- Idempotency replays ---
	replays := cache.New[any](cfg.IdempotencyTTL)
	defer replays.Close()

	// --- Service ---
	svc := service.NewFinanceService(store, replays, cfg.Period(), service.SystemClock, metrics, logger)

	// --- Router ---
	health := handler.StoreHealth{
		Name:    store.Name,
		Ping:    store.Ping,
		Breaker: func() string { return store.Guard.State().String() },
	}
	router := handler.NewRouter(svc, handler.NewAuthenticator(cfg.SupabaseJWTSecret, cfg.DevAuth), health, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
