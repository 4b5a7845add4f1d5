package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// ledgerFixture wires the real services over the in-memory store with the
// default chart seeded for one tenant.
type ledgerFixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
	actor domain.Actor
}

func newLedgerFixture(t *testing.T, tweaks ...func(*domain.PostingConfig)) *ledgerFixture {
	t.Helper()
	cfg := domain.DefaultPostingConfig()
	for _, tweak := range tweaks {
		tweak(&cfg)
	}
	cfg.Normalize()

	store := memory.NewStore()
	f := &ledgerFixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		svc:   services.NewServiceContainer(store.Provider(), cfg, services.WithBatchDefaults(3, 2)),
		actor: domain.Actor{TenantID: "tenant-" + uuid.NewString()[:8], UserID: "user-1"},
	}
	_, err := f.svc.Account.SeedChart(f.ctx, f.actor)
	require.NoError(t, err)
	return f
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *ledgerFixture) sale(id, date, method, subtotal, tax, discount string) domain.Sale {
	sub, tx, disc := dec(subtotal), dec(tax), dec(discount)
	return domain.Sale{
		SaleID:        id,
		TenantID:      f.actor.TenantID,
		Status:        domain.StatusCompleted,
		PaymentMethod: method,
		Subtotal:      sub,
		Tax:           tx,
		Discount:      disc,
		TotalAmount:   sub.Add(tx).Sub(disc),
		CreatedAt:     day(date).Add(10 * time.Hour),
	}
}

func (f *ledgerFixture) manual(id, date string, typ domain.TransactionType, category, amount string) domain.Transaction {
	return domain.Transaction{
		TransactionID: id,
		TenantID:      f.actor.TenantID,
		Type:          typ,
		Amount:        dec(amount),
		Category:      category,
		Date:          day(date),
		Status:        domain.StatusCompleted,
	}
}

func (f *ledgerFixture) purchase(id, date, method, total string) domain.Purchase {
	return domain.Purchase{
		PurchaseID:    id,
		TenantID:      f.actor.TenantID,
		Status:        domain.StatusPaid,
		PaymentMethod: method,
		TotalAmount:   dec(total),
		Date:          day(date),
	}
}

// post records event and fails the test on error.
func (f *ledgerFixture) post(event domain.PostingEvent) *domain.Journal {
	f.t.Helper()
	j, created, err := f.svc.Journal.Post(f.ctx, f.actor, event)
	require.NoError(f.t, err)
	require.True(f.t, created)
	return j
}

// seedScenario posts a small two-month history:
//
//	2024-01-10 cash sale 100 + 10 tax
//	2024-01-15 paid purchase 40 in cash
//	2024-02-05 rent expense 30
//	2024-02-10 interest income 5
func (f *ledgerFixture) seedScenario() {
	f.post(domain.NewSaleEvent(f.sale("s-1", "2024-01-10", "cash", "100", "10", "0")))
	f.post(domain.NewPurchaseEvent(f.purchase("p-1", "2024-01-15", "cash", "40")))

	rent := f.manual("t-1", "2024-02-05", domain.TxnExpense, "Rent", "30")
	interest := f.manual("t-2", "2024-02-10", domain.TxnIncome, "Interest", "5")
	f.store.AddTransaction(rent)
	f.store.AddTransaction(interest)
	f.post(domain.NewTransactionEvent(rent))
	f.post(domain.NewTransactionEvent(interest))
}
