package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ReadSnapshot runs fn inside a read-only repeatable-read transaction so all
// of its queries see the same committed state.
func (r *reportingRepository) ReadSnapshot(ctx context.Context, fn func(portsrepo.LedgerReader) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin snapshot", err)
	}
	defer r.Rollback(ctx, tx)

	if err := fn(ledgerReader{q: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

type ledgerReader struct {
	q querier
}

var _ portsrepo.LedgerReader = ledgerReader{}

// SumByAccount retrieves debit and credit totals per account.
func (r ledgerReader) SumByAccount(ctx context.Context, tenantID string, window domain.DateWindow) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			SUM(l.debit) AS total_debit,
			SUM(l.credit) AS total_credit
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE j.tenant_id = $1
			AND j.status = 'POSTED'
			AND ($2::date IS NULL OR j.journal_date >= $2::date)
			AND ($3::date IS NULL OR j.journal_date < $3::date)
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`
	rows, err := r.q.Query(ctx, query, tenantID, nullableDate(window.From), nullableDate(window.Until))
	if err != nil {
		return nil, fmt.Errorf("error querying account activity: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AccountActivity, error) {
		var a domain.AccountActivity
		var accountType string
		err := row.Scan(&a.AccountID, &a.AccountCode, &a.AccountName, &accountType, &a.Debit, &a.Credit)
		a.AccountType = domain.AccountType(accountType)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning account activity: %w", err)
	}
	return out, nil
}

// ListLines retrieves posted lines in chronological then insertion order.
func (r ledgerReader) ListLines(ctx context.Context, tenantID string, accountCode *string, window domain.DateWindow) ([]domain.LedgerLine, error) {
	query := `
		SELECT
			j.journal_id,
			j.reference,
			j.description,
			j.journal_date,
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			l.debit,
			l.credit
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE j.tenant_id = $1
			AND j.status = 'POSTED'
			AND ($2::text IS NULL OR a.code = $2::text)
			AND ($3::date IS NULL OR j.journal_date >= $3::date)
			AND ($4::date IS NULL OR j.journal_date < $4::date)
		ORDER BY j.journal_date, l.line_seq
	`
	rows, err := r.q.Query(ctx, query, tenantID, accountCode, nullableDate(window.From), nullableDate(window.Until))
	if err != nil {
		return nil, fmt.Errorf("error querying ledger lines: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LedgerLine, error) {
		var l domain.LedgerLine
		var accountType string
		err := row.Scan(
			&l.JournalID,
			&l.Reference,
			&l.Description,
			&l.JournalDate,
			&l.AccountID,
			&l.AccountCode,
			&l.AccountName,
			&accountType,
			&l.Debit,
			&l.Credit,
		)
		l.AccountType = domain.AccountType(accountType)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning ledger lines: %w", err)
	}
	return out, nil
}

// ListCashMovements retrieves completed unified-ledger rows in the window.
func (r ledgerReader) ListCashMovements(ctx context.Context, tenantID string, window domain.DateWindow) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		WHERE t.tenant_id = $1
			AND t.status = 'completed'
			AND ($2::date IS NULL OR t.date >= $2::date)
			AND ($3::date IS NULL OR t.date < $3::date)
		ORDER BY t.date, t.transaction_id
	`
	scan := func(row pgx.CollectableRow) (models.Transaction, error) { return scanTransaction(row) }
	return listPage(ctx, r.q, "cash movements", query, scan, mapping.ToDomainTransaction, tenantID, nullableDate(window.From), nullableDate(window.Until))
}
