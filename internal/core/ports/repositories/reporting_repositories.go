package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// LedgerReader reads posted ledger data. Only journals in the posted state
// are visible through it.
type LedgerReader interface {
	// SumByAccount returns debit and credit totals per account for journals
	// dated inside the window, ordered by account code. Accounts without
	// lines in the window are omitted.
	SumByAccount(ctx context.Context, tenantID string, window domain.DateWindow) ([]domain.AccountActivity, error)

	// ListLines returns posted lines in the window in chronological order,
	// ties broken by insertion order. A nil accountCode selects every account.
	ListLines(ctx context.Context, tenantID string, accountCode *string, window domain.DateWindow) ([]domain.LedgerLine, error)

	// ListCashMovements returns completed unified-ledger rows dated inside the window.
	ListCashMovements(ctx context.Context, tenantID string, window domain.DateWindow) ([]domain.Transaction, error)
}

// ReportingRepository gives report builders consistent reads.
type ReportingRepository interface {
	SnapshotRunner
}
