package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/models"
	"github.com/SscSPs/pos_ledger/internal/utils/mapping"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const journalColumns = `journal_id, tenant_id, reference, journal_date, description, kind, status,
	source_type, source_id, amount, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.TenantID,
		&m.Reference,
		&m.JournalDate,
		&m.Description,
		&m.Kind,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveJournal writes the journal as a draft, inserts its lines in one batch,
// re-checks the persisted totals and flips the journal to posted, all inside
// a single transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error) {
	m := mapping.ToModelJournal(journal)
	m.Status = models.Draft

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, journalQuery,
		m.JournalID,
		m.TenantID,
		m.Reference,
		m.JournalDate,
		m.Description,
		m.Kind,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: journal for %v already exists", apperrors.ErrDuplicate, journal.Source)
		}
		return nil, apperrors.NewAppError(500, "failed to insert journal", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, account_id, debit, credit, line_no, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		lm := mapping.ToModelJournalLine(l)
		batch.Queue(lineQuery,
			lm.LineID,
			m.JournalID,
			lm.AccountID,
			lm.Debit,
			lm.Credit,
			lm.LineNo,
			lm.Notes,
			lm.CreatedAt,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert journal lines", err)
	}

	var debit, credit decimal.Decimal
	var count int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM journal_lines WHERE journal_id = $1;
	`, m.JournalID).Scan(&debit, &credit, &count)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to total journal lines", err)
	}
	if count < 2 || !debit.Equal(credit) {
		return nil, fmt.Errorf("%w: persisted debits %s, credits %s over %d lines", apperrors.ErrUnbalancedEntry, debit, credit, count)
	}

	_, err = tx.Exec(ctx, `UPDATE journals SET status = $1 WHERE journal_id = $2;`, models.Posted, m.JournalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to post journal", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	out := journal
	out.Status = domain.Posted
	out.Lines = make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		l.JournalID = journal.JournalID
		out.Lines[i] = l
	}
	return &out, nil
}

// FindJournalByID retrieves a posted journal and its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, tenantID, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE tenant_id = $1 AND journal_id = $2 AND status = 'POSTED';`
	return r.findOne(ctx, "journal "+journalID, query, tenantID, journalID)
}

// FindJournalBySource retrieves the posted journal derived from a source document.
func (r *PgxJournalRepository) FindJournalBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Journal, error) {
	query := `
		SELECT ` + journalColumns + ` FROM journals
		WHERE tenant_id = $1 AND source_type = $2 AND source_id = $3 AND status = 'POSTED';
	`
	return r.findOne(ctx, "journal for "+source.String(), query, tenantID, string(source.Type), source.ID)
}

func (r *PgxJournalRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.Journal, error) {
	m, err := scanJournal(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what)
		}
		return nil, apperrors.NewAppError(500, "failed to find "+what, err)
	}
	lines, err := r.findLines(ctx, m.JournalID)
	if err != nil {
		return nil, err
	}
	j := mapping.ToDomainJournal(m)
	j.Lines = lines
	return &j, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.journal_id, l.account_id, a.code, l.debit, l.credit, l.line_no, l.notes, l.created_at
		FROM journal_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.journal_id = $1
		ORDER BY l.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.JournalLine, error) {
		var m models.JournalLine
		err := row.Scan(&m.LineID, &m.JournalID, &m.AccountID, &m.AccountCode, &m.Debit, &m.Credit, &m.LineNo, &m.Notes, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal lines", err)
	}
	return mapping.ToDomainJournalLines(ms), nil
}

// ListJournals retrieves posted journals newest first. The cursor is the
// (journal_date, created_at, journal_id) tuple of the last journal returned.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + journalColumns + ` FROM journals WHERE tenant_id = $1 AND status = 'POSTED'`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeJournalCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %w", apperrors.ErrValidation, err)
		}
		query += ` AND (journal_date, created_at, journal_id) < ($2, $3, $4)`
		args = append(args, cursor.JournalDate, cursor.CreatedAt, cursor.JournalID)
	}
	query += ` ORDER BY journal_date DESC, created_at DESC, journal_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals for tenant "+tenantID, err)
	}
	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Journal, error) {
		return scanJournal(row)
	})
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan journal rows for tenant "+tenantID, err)
	}

	var next *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.JournalCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID}.Encode()
		next = &token
		ms = ms[:limit]
	}

	out := make([]domain.Journal, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainJournal(m)
	}
	return out, next, nil
}
