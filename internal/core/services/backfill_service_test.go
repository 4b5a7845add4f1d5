package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addHistory stores unposted documents: four completed sales (one of them
// zero), a pending sale, two manual transactions, a row mirrored from a sale
// and a paid purchase.
func addHistory(f *ledgerFixture) {
	f.store.AddSale(f.sale("s-1", "2024-01-02", "cash", "10", "1", "0"))
	f.store.AddSale(f.sale("s-2", "2024-01-03", "card", "20", "2", "1"))
	f.store.AddSale(f.sale("s-3", "2024-01-04", "qris", "30", "0", "0"))
	f.store.AddSale(f.sale("s-4", "2024-01-05", "cash", "0", "0", "0"))

	pending := f.sale("s-5", "2024-01-06", "cash", "99", "0", "0")
	pending.Status = "pending"
	f.store.AddSale(pending)

	f.store.AddTransaction(f.manual("t-1", "2024-01-07", domain.TxnExpense, "Utilities", "15"))
	f.store.AddTransaction(f.manual("t-2", "2024-01-08", domain.TxnIncome, "Tips", "4"))
	mirrored := f.manual("t-3", "2024-01-02", domain.TxnIncome, domain.SaleTransactionCategory, "11")
	mirrored.Source = &domain.SourceRef{Type: domain.SourceSale, ID: "s-1"}
	f.store.AddTransaction(mirrored)

	f.store.AddPurchase(f.purchase("p-1", "2024-01-09", "bank_transfer", "50"))
}

func TestBackfill_DryRunCountsWithoutWriting(t *testing.T) {
	f := newLedgerFixture(t)
	addHistory(f)

	res, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{DryRun: true})

	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 4, res.SalesCount)
	assert.Equal(t, 2, res.TransactionsCount)
	assert.Equal(t, 1, res.PurchasesCount)
	assert.Equal(t, 7, res.Total)
	assert.Equal(t, 0, f.store.JournalCount(f.actor.TenantID))
}

func TestBackfill_PostsEveryKindAndIsRepeatable(t *testing.T) {
	f := newLedgerFixture(t)
	addHistory(f)

	res, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, res.SalesCount)
	assert.Equal(t, 2, res.TransactionsCount)
	assert.Equal(t, 1, res.PurchasesCount)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 1, res.Skipped, "zero sale")
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 6, f.store.JournalCount(f.actor.TenantID))

	again, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Total)
	assert.Equal(t, 6, f.store.JournalCount(f.actor.TenantID))

	tb, err := f.svc.Ledger.TrialBalance(f.ctx, f.actor, day("2024-12-31"))
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
}

func TestBackfill_SelectsOneKind(t *testing.T) {
	f := newLedgerFixture(t)
	addHistory(f)

	res, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{TransactionsOnly: true})

	require.NoError(t, err)
	assert.Equal(t, 0, res.SalesCount)
	assert.Equal(t, 2, res.TransactionsCount)
	assert.Equal(t, 0, res.PurchasesCount)
	assert.Equal(t, 2, f.store.JournalCount(f.actor.TenantID))
}

func TestBackfill_RejectsConflictingSelections(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{SalesOnly: true, PurchasesOnly: true})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBackfill_FailuresDoNotStopTheRun(t *testing.T) {
	f := newLedgerFixture(t)
	addHistory(f)
	broken := f.sale("s-0", "2024-01-01", "cash", "100", "0", "0")
	broken.TotalAmount = dec("90")
	f.store.AddSale(broken)

	res, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{SalesOnly: true})

	require.NoError(t, err)
	assert.Equal(t, 3, res.SalesCount)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, domain.SourceRef{Type: domain.SourceSale, ID: "s-0"}, res.Failures[0].Source)
	assert.Contains(t, res.Failures[0].Reason, "not balanced")
}

func TestBackfill_ReportsProgress(t *testing.T) {
	f := newLedgerFixture(t)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		f.store.AddSale(f.sale("s-"+id, "2024-01-02", "cash", "10", "0", "0"))
	}

	var (
		mu    sync.Mutex
		calls []int
		total int
	)
	res, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{
		SalesOnly: true,
		Workers:   2,
		BatchSize: 2,
		Progress: func(source domain.SourceType, done, n int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, domain.SourceSale, source)
			calls = append(calls, done)
			total = n
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, res.SalesCount)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
	assert.Equal(t, 5, total)
}

func TestBackfill_StopsOnCancellation(t *testing.T) {
	f := newLedgerFixture(t)
	addHistory(f)
	ctx, cancel := context.WithCancel(f.ctx)
	cancel()

	res, err := f.svc.Backfill.Run(ctx, f.actor, dto.BackfillOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, f.store.JournalCount(f.actor.TenantID))
}
