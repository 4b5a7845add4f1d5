package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	saleColumns        = `s.sale_id, s.tenant_id, s.status, s.payment_method, s.subtotal, s.tax, s.discount, s.total_amount, s.created_at`
	purchaseColumns    = `p.purchase_id, p.tenant_id, p.status, p.payment_method, p.total_amount, p.date`
	transactionColumns = `t.transaction_id, t.tenant_id, t.type, t.amount, t.category, t.description, t.date, t.status,
	t.source_type, t.source_id, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`
)

// Filters selecting documents that still need a journal.
const (
	unpostedSale = `s.tenant_id = $1 AND s.status = 'completed' AND NOT EXISTS (
		SELECT 1 FROM journals j
		WHERE j.tenant_id = s.tenant_id AND j.source_type = 'SALE' AND j.source_id = s.sale_id)`
	unpostedTransaction = `t.tenant_id = $1 AND t.status = 'completed' AND t.source_type IS NULL AND NOT EXISTS (
		SELECT 1 FROM journals j
		WHERE j.tenant_id = t.tenant_id AND j.source_type = 'TRANSACTION' AND j.source_id = t.transaction_id)`
	unpostedPurchase = `p.tenant_id = $1 AND p.status IN ('completed', 'paid') AND NOT EXISTS (
		SELECT 1 FROM journals j
		WHERE j.tenant_id = p.tenant_id AND j.source_type = 'PURCHASE' AND j.source_id = p.purchase_id)`
	completedSale = `s.tenant_id = $1 AND s.status = 'completed'`
)

type PgxSourceRepository struct {
	BaseRepository
}

func newPgxSourceRepository(pool *pgxpool.Pool) portsrepo.SourceRepositoryFacade {
	return &PgxSourceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SourceRepositoryFacade = (*PgxSourceRepository)(nil)

func scanSale(row pgx.CollectableRow) (models.Sale, error) {
	var m models.Sale
	err := row.Scan(&m.SaleID, &m.TenantID, &m.Status, &m.PaymentMethod, &m.Subtotal, &m.Tax, &m.Discount, &m.TotalAmount, &m.CreatedAt)
	return m, err
}

func scanPurchase(row pgx.CollectableRow) (models.Purchase, error) {
	var m models.Purchase
	err := row.Scan(&m.PurchaseID, &m.TenantID, &m.Status, &m.PaymentMethod, &m.TotalAmount, &m.Date)
	return m, err
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TenantID,
		&m.Type,
		&m.Amount,
		&m.Category,
		&m.Description,
		&m.Date,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// listPage runs a keyset page query and converts every row.
func listPage[M, D any](ctx context.Context, q querier, what, query string, scan func(pgx.CollectableRow) (M, error), convert func(M) D, args ...any) ([]D, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	ms, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", what, err)
	}
	out := make([]D, len(ms))
	for i, m := range ms {
		out[i] = convert(m)
	}
	return out, nil
}

func (r *PgxSourceRepository) count(ctx context.Context, what, query string, tenantID string) (int, error) {
	var n int
	if err := r.Pool.QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

func (r *PgxSourceRepository) ListUnpostedSales(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE ` + unpostedSale + ` AND s.sale_id > $2 ORDER BY s.sale_id LIMIT $3;`
	return listPage(ctx, r.Pool, "unposted sales", query, scanSale, mapping.ToDomainSale, tenantID, afterID, limit)
}

func (r *PgxSourceRepository) CountUnpostedSales(ctx context.Context, tenantID string) (int, error) {
	return r.count(ctx, "unposted sales", `SELECT COUNT(*) FROM sales s WHERE `+unpostedSale+`;`, tenantID)
}

func (r *PgxSourceRepository) ListUnpostedTransactions(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE ` + unpostedTransaction + ` AND t.transaction_id > $2 ORDER BY t.transaction_id LIMIT $3;`
	scan := func(row pgx.CollectableRow) (models.Transaction, error) { return scanTransaction(row) }
	return listPage(ctx, r.Pool, "unposted transactions", query, scan, mapping.ToDomainTransaction, tenantID, afterID, limit)
}

func (r *PgxSourceRepository) CountUnpostedTransactions(ctx context.Context, tenantID string) (int, error) {
	return r.count(ctx, "unposted transactions", `SELECT COUNT(*) FROM transactions t WHERE `+unpostedTransaction+`;`, tenantID)
}

func (r *PgxSourceRepository) ListUnpostedPurchases(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases p WHERE ` + unpostedPurchase + ` AND p.purchase_id > $2 ORDER BY p.purchase_id LIMIT $3;`
	return listPage(ctx, r.Pool, "unposted purchases", query, scanPurchase, mapping.ToDomainPurchase, tenantID, afterID, limit)
}

func (r *PgxSourceRepository) CountUnpostedPurchases(ctx context.Context, tenantID string) (int, error) {
	return r.count(ctx, "unposted purchases", `SELECT COUNT(*) FROM purchases p WHERE `+unpostedPurchase+`;`, tenantID)
}

func (r *PgxSourceRepository) ListCompletedSales(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE ` + completedSale + ` AND s.sale_id > $2 ORDER BY s.sale_id LIMIT $3;`
	return listPage(ctx, r.Pool, "completed sales", query, scanSale, mapping.ToDomainSale, tenantID, afterID, limit)
}

func (r *PgxSourceRepository) CountCompletedSales(ctx context.Context, tenantID string) (int, error) {
	return r.count(ctx, "completed sales", `SELECT COUNT(*) FROM sales s WHERE `+completedSale+`;`, tenantID)
}

// FindTransactionBySource retrieves the unified-ledger row mirroring a document.
func (r *PgxSourceRepository) FindTransactionBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.tenant_id = $1 AND t.source_type = $2 AND t.source_id = $3;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, tenantID, string(source.Type), source.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction for " + source.String())
		}
		return nil, fmt.Errorf("failed to find transaction for %s: %w", source, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// InsertSourcedTransaction inserts a mirrored row. The partial unique index on
// (tenant_id, source_type, source_id) turns a second insert into a no-op.
func (r *PgxSourceRepository) InsertSourcedTransaction(ctx context.Context, txn domain.Transaction) (bool, error) {
	if txn.Source == nil {
		return false, fmt.Errorf("%w: sourced transaction needs a source", apperrors.ErrValidation)
	}
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, tenant_id, type, amount, category, description, date, status,
			source_type, source_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (tenant_id, source_type, source_id) WHERE source_type IS NOT NULL DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.TenantID,
		m.Type,
		m.Amount,
		m.Category,
		m.Description,
		m.Date,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction for %s: %w", txn.Source, err)
	}
	return tag.RowsAffected() == 1, nil
}
