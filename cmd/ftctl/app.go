package main

import (
	"fmt"
	"time"

	"github.com/boddenberg/finance-tracker/internal/config"
	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/infra/backend"
	"github.com/boddenberg/finance-tracker/internal/infra/cache"
	"github.com/boddenberg/finance-tracker/internal/infra/observability"
	"github.com/boddenberg/finance-tracker/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is everything a command needs, opened from flags and environment.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    *service.FinanceService
	close  func()
}

func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.Load()
	if err := cfg.ValidateStore(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := cmd.Flags().GetString("log-level")
	return cfg, observability.NewLogger(level), nil
}

// openApp opens the record store and builds the service. today, when
// non-empty, pins the service clock to that date.
func openApp(cmd *cobra.Command, today string) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	clock := service.SystemClock
	if today != "" {
		d, err := domain.ParseDate(today)
		if err != nil {
			return nil, err
		}
		pinned := d.Time().Add(12 * time.Hour)
		clock = service.ClockFunc(func() time.Time { return pinned })
	}

	store, err := backend.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}

	replays := cache.New[any](cfg.IdempotencyTTL)
	svc := service.NewFinanceService(store, replays, cfg.Period(), clock, observability.NewMetrics(), logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		svc:    svc,
		close: func() {
			replays.Close()
			_ = store.Close()
			_ = logger.Sync()
		},
	}, nil
}

func requiredUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return "", fmt.Errorf("--user is required")
	}
	return user, nil
}
