package accounting

import (
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSignedBalance(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        string
	}{
		{domain.Asset, "70"},
		{domain.Expense, "70"},
		{domain.Liability, "-70"},
		{domain.Equity, "-70"},
		{domain.Revenue, "-70"},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := SignedBalance(tt.accountType, d("110"), d("40"))
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := SignedBalance("GAIN", d("1"), d("0"))
	assert.Error(t, err)
}

func TestValidateJournalBalance(t *testing.T) {
	debit := func(amount string) domain.JournalLine {
		return domain.JournalLine{AccountCode: "1101", Debit: d(amount)}
	}
	credit := func(amount string) domain.JournalLine {
		return domain.JournalLine{AccountCode: "4101", Credit: d(amount)}
	}

	assert.NoError(t, ValidateJournalBalance([]domain.JournalLine{debit("110"), credit("100"), credit("10")}))

	err := ValidateJournalBalance([]domain.JournalLine{debit("10")})
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)

	err = ValidateJournalBalance([]domain.JournalLine{debit("10"), credit("9.99")})
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)

	both := domain.JournalLine{AccountCode: "1101", Debit: d("5"), Credit: d("5")}
	err = ValidateJournalBalance([]domain.JournalLine{both, credit("0")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTrialBalanceSides(t *testing.T) {
	dr, cr := TrialBalanceSides(d("110"), d("40"))
	assert.True(t, d("70").Equal(dr))
	assert.True(t, cr.IsZero())

	dr, cr = TrialBalanceSides(d("0"), d("15"))
	assert.True(t, dr.IsZero())
	assert.True(t, d("15").Equal(cr))

	dr, cr = TrialBalanceSides(d("8"), d("8"))
	assert.True(t, dr.IsZero())
	assert.True(t, cr.IsZero())
}
