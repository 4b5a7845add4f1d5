package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ReadSnapshot holds the read lock for the duration of fn.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(portsrepo.LedgerReader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(snapshot{s})
}

// snapshot reads the store without locking; ReadSnapshot holds the lock.
type snapshot struct {
	s *Store
}

var _ portsrepo.LedgerReader = snapshot{}

func (r snapshot) postedLines(tenantID string, window domain.DateWindow) []storedLine {
	out := []storedLine{}
	for _, l := range r.s.lines {
		j, ok := r.s.journals[l.JournalID]
		if !ok || j.TenantID != tenantID || j.Status != domain.Posted || !window.Contains(j.JournalDate) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (r snapshot) SumByAccount(ctx context.Context, tenantID string, window domain.DateWindow) ([]domain.AccountActivity, error) {
	totals := map[string]*domain.AccountActivity{}
	for _, l := range r.postedLines(tenantID, window) {
		a, ok := totals[l.AccountID]
		if !ok {
			acc := r.s.accounts[l.AccountID]
			a = &domain.AccountActivity{
				AccountID:   acc.AccountID,
				AccountCode: acc.Code,
				AccountName: acc.Name,
				AccountType: acc.AccountType,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			totals[l.AccountID] = a
		}
		a.Debit = a.Debit.Add(l.Debit)
		a.Credit = a.Credit.Add(l.Credit)
	}
	out := make([]domain.AccountActivity, 0, len(totals))
	for _, a := range totals {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (r snapshot) ListLines(ctx context.Context, tenantID string, accountCode *string, window domain.DateWindow) ([]domain.LedgerLine, error) {
	type keyed struct {
		line domain.LedgerLine
		seq  int64
	}
	rows := []keyed{}
	for _, l := range r.postedLines(tenantID, window) {
		acc := r.s.accounts[l.AccountID]
		if accountCode != nil && acc.Code != *accountCode {
			continue
		}
		j := r.s.journals[l.JournalID]
		rows = append(rows, keyed{seq: l.seq, line: domain.LedgerLine{
			JournalID:   j.JournalID,
			Reference:   j.Reference,
			Description: j.Description,
			JournalDate: j.JournalDate,
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].line.JournalDate.Equal(rows[j].line.JournalDate) {
			return rows[i].line.JournalDate.Before(rows[j].line.JournalDate)
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]domain.LedgerLine, len(rows))
	for i, k := range rows {
		out[i] = k.line
	}
	return out, nil
}

func (r snapshot) ListCashMovements(ctx context.Context, tenantID string, window domain.DateWindow) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	for _, txn := range r.s.transactions {
		if txn.TenantID == tenantID && txn.Status == domain.StatusCompleted && window.Contains(txn.Date) {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out, nil
}
