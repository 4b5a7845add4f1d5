// Package app assembles repositories and services from process configuration.
// It is shared by the API server and the ledgerctl tool.
package app

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/SscSPs/pos_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/pos_ledger/internal/repositories/memory"
	"github.com/SscSPs/pos_ledger/pkg/database"
)

// App holds the wired service container and releases its resources on Close.
type App struct {
	Services *portssvc.ServiceContainer
	close    func()
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Open connects the repositories named by cfg and wires the services. With
// no database URL it falls back to an empty in-memory store.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	postingCfg, err := config.LoadPostingConfig(cfg.PostingPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("loading posting policy: %w", err)
	}

	repos, closeFn, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	container := services.NewServiceContainer(repos, postingCfg,
		services.WithBatchDefaults(cfg.BackfillWorkers, cfg.BackfillBatchSize))
	return &App{Services: container, close: closeFn}, nil
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, using the in-memory store")
		return memory.NewStore().Provider(), func() {}, nil
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if _, err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
