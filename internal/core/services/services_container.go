package services

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, postingCfg domain.PostingConfig, batchOptions ...BatchOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, WithStarterChart(postingCfg.ChartOfAccounts))
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, NewPostingPolicy(postingCfg), postingCfg)
	container.Backfill = NewBackfillService(repos.SourceRepo, container.Journal, batchOptions...)
	container.Sync = NewSyncService(repos.SourceRepo, batchOptions...)
	container.Ledger = NewLedgerQueryService(repos.AccountRepo, repos.ReportingRepo)
	container.Reporting = NewReportingService(container.Ledger, repos.ReportingRepo, WithPostingConfig(postingCfg))

	return container
}
