package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusCompleted is the status a source document must carry to be posted.
const StatusCompleted = "completed"

// StatusPaid is accepted for purchases alongside StatusCompleted.
const StatusPaid = "paid"

// SaleTransactionCategory is the unified-ledger category given to rows mirrored from sales.
const SaleTransactionCategory = "Sales"

// TransactionType indicates whether a unified-ledger row is money in or money out.
type TransactionType string

const (
	TxnIncome  TransactionType = "income"
	TxnExpense TransactionType = "expense"
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	return t == TxnIncome || t == TxnExpense
}

// Transaction is a row of the tenant's unified cash ledger. Rows without a
// Source are manual entries; rows with one mirror another document.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	TenantID      string          `json:"tenantID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
	Source        *SourceRef      `json:"source,omitempty"`
	AuditFields
}

// IsManual reports whether the row was entered by hand rather than mirrored.
func (t Transaction) IsManual() bool {
	return t.Source == nil
}

// Sale is a point-of-sale document owned by the POS application.
type Sale struct {
	SaleID        string          `json:"saleID"`
	TenantID      string          `json:"tenantID"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Purchase is a stock purchase document owned by the POS application.
type Purchase struct {
	PurchaseID    string          `json:"purchaseID"`
	TenantID      string          `json:"tenantID"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Date          time.Time       `json:"date"`
}

// IsPostable reports whether the purchase has reached a status that hits the books.
func (p Purchase) IsPostable() bool {
	return p.Status == StatusCompleted || p.Status == StatusPaid
}
