package services_test

import (
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitAndLoss(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedScenario()

	pl, err := f.svc.Reporting.ProfitAndLoss(f.ctx, f.actor, day("2024-01-01"), day("2024-02-29"))
	require.NoError(t, err)

	assert.True(t, pl.TotalRevenue.Equal(dec("105")))
	assert.True(t, pl.TotalExpenses.Equal(dec("30")))
	assert.True(t, pl.NetProfit.Equal(dec("75")))
	assert.Len(t, pl.Revenue, 2)
	require.Len(t, pl.Expenses, 1)
	assert.Equal(t, "6101", pl.Expenses[0].AccountCode)
}

func TestProfitAndLoss_PeriodOnly(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedScenario()

	pl, err := f.svc.Reporting.ProfitAndLoss(f.ctx, f.actor, day("2024-02-01"), day("2024-02-29"))
	require.NoError(t, err)

	assert.True(t, pl.TotalRevenue.Equal(dec("5")))
	assert.True(t, pl.NetProfit.Equal(dec("-25")))
}

func TestProfitAndLoss_InvalidRange(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.svc.Reporting.ProfitAndLoss(f.ctx, f.actor, day("2024-02-01"), day("2024-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
}

func TestProfitAndLoss_DiscountReducesRevenue(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(domain.NewSaleEvent(f.sale("s-1", "2024-03-01", "cash", "100", "0", "10")))

	pl, err := f.svc.Reporting.ProfitAndLoss(f.ctx, f.actor, day("2024-03-01"), day("2024-03-31"))
	require.NoError(t, err)

	assert.True(t, pl.TotalRevenue.Equal(dec("90")))
}

func TestBalanceSheet_CarriesCurrentEarnings(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedScenario()

	bs, err := f.svc.Reporting.BalanceSheet(f.ctx, f.actor, day("2024-02-29"))
	require.NoError(t, err)

	assert.True(t, bs.Balanced)
	assert.True(t, bs.TotalAssets.Equal(dec("85")))
	assert.True(t, bs.TotalLiabilities.Equal(dec("10")))
	assert.True(t, bs.CurrentEarnings.Equal(dec("75")))
	assert.True(t, bs.TotalEquity.Equal(dec("75")))
	require.Len(t, bs.Equity, 1)
	assert.Equal(t, domain.CurrentEarningsName, bs.Equity[0].Name)
}

func TestBalanceSheet_AtEarlierDate(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedScenario()

	bs, err := f.svc.Reporting.BalanceSheet(f.ctx, f.actor, day("2024-01-31"))
	require.NoError(t, err)

	assert.True(t, bs.Balanced)
	assert.True(t, bs.TotalAssets.Equal(dec("110")))
	assert.True(t, bs.CurrentEarnings.Equal(dec("100")))
}

func TestCashFlow_BucketsByActivity(t *testing.T) {
	f := newLedgerFixture(t)
	f.seedScenario()
	f.store.AddTransaction(f.manual("t-3", "2024-02-12", domain.TxnExpense, "Equipment", "20"))
	f.store.AddTransaction(f.manual("t-4", "2024-02-15", domain.TxnIncome, "Loan", "200"))
	pending := f.manual("t-5", "2024-02-16", domain.TxnIncome, "Loan", "1000")
	pending.Status = "pending"
	f.store.AddTransaction(pending)

	cf, err := f.svc.Reporting.CashFlow(f.ctx, f.actor, day("2024-02-01"), day("2024-02-29"))
	require.NoError(t, err)

	assert.True(t, cf.Operating.Total.Equal(dec("-25")))
	require.Len(t, cf.Operating.Items, 2)
	assert.Equal(t, "interest", cf.Operating.Items[0].Category)
	assert.Equal(t, "rent", cf.Operating.Items[1].Category)
	assert.True(t, cf.Investing.Total.Equal(dec("-20")))
	assert.True(t, cf.Financing.Total.Equal(dec("200")))
	assert.True(t, cf.NetCashFlow.Equal(dec("155")))
}

func TestCashFlow_MergesCategoriesAcrossCase(t *testing.T) {
	f := newLedgerFixture(t)
	f.store.AddTransaction(f.manual("t-1", "2024-02-05", domain.TxnExpense, "Rent", "30"))
	f.store.AddTransaction(f.manual("t-2", "2024-02-06", domain.TxnExpense, "rent", "20"))
	f.store.AddTransaction(f.manual("t-3", "2024-02-07", domain.TxnExpense, " RENT ", "5"))

	cf, err := f.svc.Reporting.CashFlow(f.ctx, f.actor, day("2024-02-01"), day("2024-02-29"))
	require.NoError(t, err)

	require.Len(t, cf.Operating.Items, 1)
	item := cf.Operating.Items[0]
	assert.Equal(t, "rent", item.Category)
	assert.True(t, item.Outflow.Equal(dec("55")))
	assert.True(t, item.Net.Equal(dec("-55")))
	assert.True(t, cf.NetCashFlow.Equal(dec("-55")))
}

func TestCashFlow_CustomCategoryMapping(t *testing.T) {
	f := newLedgerFixture(t, func(cfg *domain.PostingConfig) {
		cfg.CashFlowCategories["Dividends"] = domain.Financing
	})
	f.store.AddTransaction(f.manual("t-1", "2024-02-12", domain.TxnExpense, "dividends", "50"))

	cf, err := f.svc.Reporting.CashFlow(f.ctx, f.actor, day("2024-02-01"), day("2024-02-29"))
	require.NoError(t, err)

	assert.True(t, cf.Financing.Total.Equal(dec("-50")))
	assert.Empty(t, cf.Operating.Items)
}
