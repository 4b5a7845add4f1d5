package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalLine_Validate(t *testing.T) {
	d := decimal.RequireFromString

	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{"debit only", domain.JournalLine{Debit: d("10.00")}, false},
		{"credit only", domain.JournalLine{Credit: d("0.01")}, false},
		{"both sides", domain.JournalLine{Debit: d("1"), Credit: d("1")}, true},
		{"neither side", domain.JournalLine{}, true},
		{"negative debit", domain.JournalLine{Debit: d("-5")}, true},
		{"negative credit with debit", domain.JournalLine{Debit: d("5"), Credit: d("-5")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidLine))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournal_TotalsAndBalance(t *testing.T) {
	j := domain.Journal{Lines: []domain.JournalLine{
		{Debit: decimal.NewFromInt(110)},
		{Credit: decimal.NewFromInt(100)},
		{Credit: decimal.NewFromInt(10)},
	}}
	debit, credit := j.Totals()
	assert.True(t, debit.Equal(decimal.NewFromInt(110)))
	assert.True(t, credit.Equal(decimal.NewFromInt(110)))
	assert.True(t, j.IsBalanced())

	j.Lines = j.Lines[:2]
	assert.False(t, j.IsBalanced())
}

func TestJournalLine_SideAndAmount(t *testing.T) {
	debit := domain.JournalLine{Debit: decimal.NewFromInt(7)}
	credit := domain.JournalLine{Credit: decimal.NewFromInt(9)}

	assert.Equal(t, domain.Debit, debit.Side())
	assert.True(t, debit.Amount().Equal(decimal.NewFromInt(7)))
	assert.Equal(t, domain.Credit, credit.Side())
	assert.True(t, credit.Amount().Equal(decimal.NewFromInt(9)))
}

func TestSourceRef_String(t *testing.T) {
	ref := domain.SourceRef{Type: domain.SourceSale, ID: "s-1"}
	assert.Equal(t, "SALE:s-1", ref.String())
	assert.True(t, domain.SourcePurchase.IsValid())
	assert.False(t, domain.SourceType("REFUND").IsValid())
}

func TestDateWindow(t *testing.T) {
	day := func(s string) time.Time {
		v, err := time.Parse(time.DateOnly, s)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}

	between := domain.Between(day("2024-03-01"), day("2024-03-31"))
	assert.True(t, between.Contains(day("2024-03-01")))
	assert.True(t, between.Contains(day("2024-03-31").Add(23*time.Hour)))
	assert.False(t, between.Contains(day("2024-04-01")))
	assert.False(t, between.Contains(day("2024-02-29")))

	through := domain.Through(day("2024-03-31"))
	assert.True(t, through.Contains(day("1999-01-01")))
	assert.True(t, through.Contains(day("2024-03-31")))
	assert.False(t, through.Contains(day("2024-04-01")))

	before := domain.Before(day("2024-03-01"))
	assert.True(t, before.Contains(day("2024-02-29")))
	assert.False(t, before.Contains(day("2024-03-01")))

	assert.True(t, domain.DateWindow{}.Contains(day("2100-01-01")))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	in := time.Date(2024, 5, 17, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), domain.DateOf(in))
}

func TestActor_Valid(t *testing.T) {
	assert.True(t, domain.Actor{TenantID: "t", UserID: "u"}.Valid())
	assert.False(t, domain.Actor{TenantID: " ", UserID: "u"}.Valid())
	assert.False(t, domain.Actor{TenantID: "t"}.Valid())
}

func TestPostingEvents_Postable(t *testing.T) {
	sale := domain.NewSaleEvent(domain.Sale{SaleID: "s", Status: "completed"})
	assert.True(t, sale.Postable())
	assert.Equal(t, domain.SourceRef{Type: domain.SourceSale, ID: "s"}, sale.Source())
	assert.Equal(t, domain.KindSale, sale.Kind())

	pending := domain.NewSaleEvent(domain.Sale{SaleID: "s", Status: "pending"})
	assert.False(t, pending.Postable())

	for status, want := range map[string]bool{"completed": true, "paid": true, "ordered": false} {
		p := domain.NewPurchaseEvent(domain.Purchase{PurchaseID: "p", Status: status})
		assert.Equal(t, want, p.Postable(), status)
	}

	txn := domain.NewTransactionEvent(domain.Transaction{TransactionID: "x", Status: "completed", Type: domain.TxnExpense, Category: "Rent"})
	assert.True(t, txn.Postable())
	assert.Equal(t, domain.KindGeneral, txn.Kind())
	assert.Equal(t, "Rent expense", txn.Describe())
}

func TestPostingConfig_Lookups(t *testing.T) {
	cfg := domain.DefaultPostingConfig()
	cfg.Normalize()

	assert.Equal(t, domain.AccountKeyBank, cfg.PaymentAccountKey(" Card "))
	assert.Equal(t, domain.AccountKeyCash, cfg.PaymentAccountKey("barter"))
	assert.Equal(t, domain.AccountKeyCash, cfg.PaymentAccountKey(""))

	code, ok := cfg.CategoryAccountCode("RENT")
	assert.True(t, ok)
	assert.Equal(t, "6101", code)
	_, ok = cfg.CategoryAccountCode("marketing")
	assert.False(t, ok)

	assert.Equal(t, domain.Investing, cfg.ActivityFor("Equipment"))
	assert.Equal(t, domain.Financing, cfg.ActivityFor("loan"))
	assert.Equal(t, domain.Operating, cfg.ActivityFor("Sales"))
}

func TestAccountType(t *testing.T) {
	assert.True(t, domain.Asset.DebitNormal())
	assert.True(t, domain.Expense.DebitNormal())
	assert.False(t, domain.Revenue.DebitNormal())
	assert.False(t, domain.AccountType("CONTRA").IsValid())
}
