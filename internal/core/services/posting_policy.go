package services

import (
	"fmt"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// postingPolicy maps events to posting lines using a read-only PostingConfig.
type postingPolicy struct {
	cfg domain.PostingConfig
}

// NewPostingPolicy creates a resolver over cfg.
func NewPostingPolicy(cfg domain.PostingConfig) portssvc.PostingResolver {
	return &postingPolicy{cfg: cfg}
}

var _ portssvc.PostingResolver = (*postingPolicy)(nil)

// Resolve returns the lines for event. Lines are unpersisted and carry account
// codes only; the posting engine resolves codes against the chart.
func (p *postingPolicy) Resolve(event domain.PostingEvent) ([]domain.PostingLine, error) {
	var (
		lines []domain.PostingLine
		err   error
	)
	switch e := event.(type) {
	case domain.SaleEvent:
		lines, err = p.resolveSale(e)
	case *domain.SaleEvent:
		lines, err = p.resolveSale(*e)
	case domain.TransactionEvent:
		lines, err = p.resolveTransaction(e)
	case *domain.TransactionEvent:
		lines, err = p.resolveTransaction(*e)
	case domain.PurchaseEvent:
		lines, err = p.resolvePurchase(e)
	case *domain.PurchaseEvent:
		lines, err = p.resolvePurchase(*e)
	default:
		return nil, apperrors.NewValidationError("unsupported posting event %T", event)
	}
	if err != nil {
		return nil, err
	}
	if err := checkBalanced(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (p *postingPolicy) code(key string) (string, error) {
	code, ok := p.cfg.AccountCode(key)
	if !ok {
		return "", fmt.Errorf("%w: no account configured for %q", apperrors.ErrUnresolvedAccount, key)
	}
	return code, nil
}

func (p *postingPolicy) paymentCode(method string) (string, error) {
	code, ok := p.cfg.PaymentAccountCode(method)
	if !ok {
		return "", fmt.Errorf("%w: no account configured for payment method %q", apperrors.ErrUnresolvedAccount, method)
	}
	return code, nil
}

// resolveSale debits the payment account for the total and any discount, and
// credits revenue for the subtotal and tax payable for the tax.
func (p *postingPolicy) resolveSale(e domain.SaleEvent) ([]domain.PostingLine, error) {
	if e.Total.IsNegative() || e.Subtotal.IsNegative() || e.Tax.IsNegative() || e.Discount.IsNegative() {
		return nil, apperrors.NewValidationError("sale %s has negative amounts", e.SaleID)
	}
	if e.Total.IsZero() && e.Subtotal.IsZero() && e.Tax.IsZero() {
		return nil, fmt.Errorf("%w: sale %s has a zero total", apperrors.ErrNothingToPost, e.SaleID)
	}

	payment, err := p.paymentCode(e.PaymentMethod)
	if err != nil {
		return nil, err
	}
	revenue, err := p.code(domain.AccountKeySalesRevenue)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.PostingLine, 0, 4)
	if e.Total.IsPositive() {
		lines = append(lines, domain.PostingLine{AccountCode: payment, Side: domain.Debit, Amount: e.Total, Memo: "Payment received"})
	}
	if e.Discount.IsPositive() {
		discount, err := p.code(domain.AccountKeySalesDiscount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.PostingLine{AccountCode: discount, Side: domain.Debit, Amount: e.Discount, Memo: "Sales discount"})
	}
	if e.Subtotal.IsPositive() {
		lines = append(lines, domain.PostingLine{AccountCode: revenue, Side: domain.Credit, Amount: e.Subtotal, Memo: "Sales revenue"})
	}
	if e.Tax.IsPositive() {
		tax, err := p.code(domain.AccountKeyTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.PostingLine{AccountCode: tax, Side: domain.Credit, Amount: e.Tax, Memo: "Tax collected"})
	}
	return lines, nil
}

// resolveTransaction posts income against cash and a category or other-income
// account, and expenses against a category or other-expense account and cash.
func (p *postingPolicy) resolveTransaction(e domain.TransactionEvent) ([]domain.PostingLine, error) {
	if !e.Type.IsValid() {
		return nil, apperrors.NewValidationError("transaction %s has unknown type %q", e.TransactionID, e.Type)
	}
	if e.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("transaction %s has a negative amount", e.TransactionID)
	}
	if e.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transaction %s has a zero amount", apperrors.ErrNothingToPost, e.TransactionID)
	}

	cash, err := p.code(domain.AccountKeyCash)
	if err != nil {
		return nil, err
	}

	fallbackKey := domain.AccountKeyOtherExpense
	if e.Type == domain.TxnIncome {
		fallbackKey = domain.AccountKeyOtherIncome
	}
	counter, ok := p.cfg.CategoryAccountCode(e.Category)
	if !ok {
		if p.cfg.UnmappedCategoryPolicy == domain.UnmappedReject {
			return nil, fmt.Errorf("%w: category %q has no account mapping", apperrors.ErrUnresolvedAccount, e.Category)
		}
		if counter, err = p.code(fallbackKey); err != nil {
			return nil, err
		}
	}

	memo := e.Category
	if e.Type == domain.TxnIncome {
		return []domain.PostingLine{
			{AccountCode: cash, Side: domain.Debit, Amount: e.Amount, Memo: memo},
			{AccountCode: counter, Side: domain.Credit, Amount: e.Amount, Memo: memo},
		}, nil
	}
	return []domain.PostingLine{
		{AccountCode: counter, Side: domain.Debit, Amount: e.Amount, Memo: memo},
		{AccountCode: cash, Side: domain.Credit, Amount: e.Amount, Memo: memo},
	}, nil
}

// resolvePurchase debits inventory and credits the payment account.
func (p *postingPolicy) resolvePurchase(e domain.PurchaseEvent) ([]domain.PostingLine, error) {
	if e.Total.IsNegative() {
		return nil, apperrors.NewValidationError("purchase %s has a negative total", e.PurchaseID)
	}
	if e.Total.IsZero() {
		return nil, fmt.Errorf("%w: purchase %s has a zero total", apperrors.ErrNothingToPost, e.PurchaseID)
	}
	inventory, err := p.code(domain.AccountKeyInventory)
	if err != nil {
		return nil, err
	}
	payment, err := p.paymentCode(e.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return []domain.PostingLine{
		{AccountCode: inventory, Side: domain.Debit, Amount: e.Total, Memo: "Stock purchase"},
		{AccountCode: payment, Side: domain.Credit, Amount: e.Total, Memo: "Stock purchase"},
	}, nil
}

func checkBalanced(lines []domain.PostingLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: only %d line(s) resolved", apperrors.ErrUnbalancedEntry, len(lines))
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		if l.Side == domain.Debit {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedEntry, debit, credit)
	}
	return nil
}
