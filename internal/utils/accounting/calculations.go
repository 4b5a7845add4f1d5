package accounting

import (
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance applies the sign convention of accountType to summed activity.
//
//	ASSET/EXPENSE              debit - credit
//	LIABILITY/EQUITY/REVENUE   credit - debit
func SignedBalance(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ValidateJournalBalance checks the line rules of a journal: at least two
// lines, one positive side per line, and equal debit and credit totals.
func ValidateJournalBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal must have at least two lines", apperrors.ErrUnbalancedEntry)
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
	}
	debit, credit := domain.SumLines(lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedEntry, debit, credit)
	}
	return nil
}

// TrialBalanceSides nets an account's debit and credit totals onto the larger side.
func TrialBalanceSides(debit, credit decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	net := debit.Sub(credit)
	if net.IsPositive() {
		return net, decimal.Zero
	}
	return decimal.Zero, net.Neg()
}
