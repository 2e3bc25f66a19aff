// Command ftctl is the operator CLI: it prints dashboards and goal
// projections, imports OFX statements and migrates the SQL backends.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ftctl",
		Short: "Personal finance tracker operator CLI",
		Long: `ftctl works directly against the record store configured by DATA_BACKEND
(supabase, postgres or sqlite). Settings come from the environment and an
optional .env file.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(summaryCmd())
	root.AddCommand(goalsCmd())
	root.AddCommand(importOFXCmd())
	root.AddCommand(migrateCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
