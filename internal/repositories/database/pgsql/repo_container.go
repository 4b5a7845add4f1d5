package pgsql

import (
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		SourceRepo:    newPgxSourceRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
