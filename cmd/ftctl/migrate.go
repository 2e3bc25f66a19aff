package main

import (
	"fmt"

	"github.com/boddenberg/finance-tracker/internal/infra/backend"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the postgres or sqlite backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := backend.Migrate(cfg); err != nil {
				return err
			}
			logger.Info("schema up to date", zap.String("data_backend", cfg.DataBackend))
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.DataBackend)
			return nil
		},
	}
}
