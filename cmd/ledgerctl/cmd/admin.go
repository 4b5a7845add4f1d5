package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/SscSPs/pos_ledger/pkg/database"
	"github.com/spf13/cobra"
)

// seedAccountsCmd creates the configured starter chart for a tenant.
var seedAccountsCmd = &cobra.Command{
	Use:   "seed-accounts",
	Short: "Create the starter chart of accounts",
	Long: `Create every account of the configured starter chart that the tenant
does not have yet. Existing accounts are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := currentActor()
		if err != nil {
			return err
		}
		application, _, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		res, err := application.Services.Account.SeedChart(cmd.Context(), actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d accounts, %d already existed\n", res.Created, res.Existed)
		return nil
	},
}

// migrateCmd applies pending schema migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.DatabaseURL == "" {
			return errors.New("PGSQL_URL must be set")
		}
		applied, err := database.RunMigrations(cfg.DatabaseURL, slog.Default())
		if err != nil {
			return err
		}
		if applied {
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		}
		return nil
	},
}

var tokenTTL time.Duration

// issueTokenCmd mints an API token for the POS application's posting hooks.
var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Sign an API token for the current tenant and actor",
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := currentActor()
		if err != nil {
			return err
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		token, err := middleware.IssueToken(actor, cfg.JWTSecret, cfg.JWTIssuer, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	issueTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
