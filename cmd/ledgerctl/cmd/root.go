// Package cmd provides CLI commands for ledgerctl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/platform/app"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFatal   = 1
	ExitPartial = 2
)

// errPartial marks a run that finished but could not handle every document.
var errPartial = errors.New("some documents failed")

var (
	debug    bool
	tenantID string
	actorID  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate the POS double-entry ledger",
	Long: `ledgerctl runs maintenance jobs against the POS ledger database.

It supports:
- Backfilling journals for historical sales, transactions and purchases
- Mirroring completed sales into the unified transactions ledger
- Printing trial balance, general ledger and financial statements
- Seeding the starter chart of accounts and applying migrations

Example:
  ledgerctl --tenant shop-1 journal-backfill --dry-run
  ledgerctl --tenant shop-1 report trial-balance --as-of 2024-12-31`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command and maps its outcome to an exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errPartial):
		fmt.Fprintln(os.Stderr, "Warning: some documents failed, inspect the logs above.")
		return ExitPartial
	default:
		slog.Error("Command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitFatal
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", os.Getenv("LEDGER_TENANT_ID"), "tenant whose books to operate on")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "ledgerctl", "user recorded as creator of new rows")

	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(syncSalesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedAccountsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(issueTokenCmd)
}

// currentActor returns the actor named by the global flags.
func currentActor() (domain.Actor, error) {
	actor := domain.Actor{TenantID: tenantID, UserID: actorID}
	if !actor.Valid() {
		return actor, errors.New("--tenant and --actor are required")
	}
	return actor, nil
}

// openApp loads configuration and wires the services against the database.
func openApp(ctx context.Context) (*app.App, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, errors.New("PGSQL_URL must be set")
	}
	application, err := app.Open(ctx, cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return application, cfg, nil
}
