package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// SourceReader scans the POS documents that feed the ledger. List methods
// page by ID: they return up to limit rows with IDs greater than afterID.
type SourceReader interface {
	// ListUnpostedSales returns completed sales without a journal.
	ListUnpostedSales(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Sale, error)
	CountUnpostedSales(ctx context.Context, tenantID string) (int, error)

	// ListUnpostedTransactions returns completed manual transactions without a journal.
	ListUnpostedTransactions(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Transaction, error)
	CountUnpostedTransactions(ctx context.Context, tenantID string) (int, error)

	// ListUnpostedPurchases returns completed or paid purchases without a journal.
	ListUnpostedPurchases(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Purchase, error)
	CountUnpostedPurchases(ctx context.Context, tenantID string) (int, error)

	// ListCompletedSales returns every completed sale.
	ListCompletedSales(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Sale, error)
	CountCompletedSales(ctx context.Context, tenantID string) (int, error)

	// FindTransactionBySource retrieves the unified-ledger row mirroring a document.
	// Returns apperrors.ErrNotFound when there is none.
	FindTransactionBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Transaction, error)
}

// SourceWriter writes to the unified ledger.
type SourceWriter interface {
	// InsertSourcedTransaction inserts a mirrored row unless one already exists
	// for its source. It reports whether a row was inserted.
	InsertSourcedTransaction(ctx context.Context, txn domain.Transaction) (bool, error)
}

// SourceRepositoryFacade combines all source-document repository interfaces.
type SourceRepositoryFacade interface {
	SourceReader
	SourceWriter
}
