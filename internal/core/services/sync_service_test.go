package services_test

import (
	"testing"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addSales(f *ledgerFixture) {
	f.store.AddSale(f.sale("s-1", "2024-01-02", "cash", "10", "1", "0"))
	f.store.AddSale(f.sale("s-2", "2024-01-03", "card", "20", "0", "0"))
	f.store.AddSale(f.sale("s-3", "2024-01-04", "cash", "30", "3", "3"))
	cancelled := f.sale("s-4", "2024-01-05", "cash", "40", "0", "0")
	cancelled.Status = "cancelled"
	f.store.AddSale(cancelled)
}

func TestSyncSales_MirrorsEachCompletedSaleOnce(t *testing.T) {
	f := newLedgerFixture(t)
	addSales(f)

	res, err := f.svc.Sync.SyncSales(f.ctx, f.actor, dto.SyncOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 3, res.Synced)
	assert.Equal(t, 0, res.Failed)

	rows := f.store.TransactionsFor(f.actor.TenantID)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, domain.TxnIncome, row.Type)
		assert.Equal(t, domain.SaleTransactionCategory, row.Category)
		assert.Equal(t, domain.StatusCompleted, row.Status)
		require.NotNil(t, row.Source)
		assert.Equal(t, domain.SourceSale, row.Source.Type)
	}

	again, err := f.svc.Sync.SyncSales(f.ctx, f.actor, dto.SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Synced)
	assert.Equal(t, 3, again.AlreadySynced)
	assert.Len(t, f.store.TransactionsFor(f.actor.TenantID), 3)
}

func TestSyncSales_DryRunWritesNothing(t *testing.T) {
	f := newLedgerFixture(t)
	addSales(f)

	res, err := f.svc.Sync.SyncSales(f.ctx, f.actor, dto.SyncOptions{DryRun: true})

	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 3, res.Synced)
	assert.Empty(t, f.store.TransactionsFor(f.actor.TenantID))
}

func TestSyncSales_ConflictingRowFails(t *testing.T) {
	f := newLedgerFixture(t)
	addSales(f)
	stale := f.manual("t-stale", "2024-01-02", domain.TxnIncome, domain.SaleTransactionCategory, "5")
	stale.Source = &domain.SourceRef{Type: domain.SourceSale, ID: "s-1"}
	f.store.AddTransaction(stale)

	res, err := f.svc.Sync.SyncSales(f.ctx, f.actor, dto.SyncOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "s-1", res.Failures[0].Source.ID)
	assert.Contains(t, res.Failures[0].Reason, "conflicts")
}

func TestSyncSales_MirroredRowsFeedCashFlowNotBackfill(t *testing.T) {
	f := newLedgerFixture(t)
	addSales(f)
	_, err := f.svc.Sync.SyncSales(f.ctx, f.actor, dto.SyncOptions{})
	require.NoError(t, err)

	dry, err := f.svc.Backfill.Run(f.ctx, f.actor, dto.BackfillOptions{TransactionsOnly: true, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, dry.TransactionsCount)

	cf, err := f.svc.Reporting.CashFlow(f.ctx, f.actor, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, cf.Operating.Items, 1)
	assert.True(t, cf.Operating.Items[0].Inflow.Equal(dec("61")))
	assert.True(t, cf.NetCashFlow.Equal(dec("61")))
}
