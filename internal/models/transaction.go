package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the unified cash ledger.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	TenantID      string          `db:"tenant_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Category      string          `db:"category"`
	Description   string          `db:"description"`
	Date          time.Time       `db:"date"`
	Status        string          `db:"status"`
	SourceType    *string         `db:"source_type"`
	SourceID      *string         `db:"source_id"`
	AuditFields
}

// Sale is a row of the POS sales table.
type Sale struct {
	SaleID        string          `db:"sale_id"`
	TenantID      string          `db:"tenant_id"`
	Status        string          `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	Discount      decimal.Decimal `db:"discount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Purchase is a row of the POS purchases table.
type Purchase struct {
	PurchaseID    string          `db:"purchase_id"`
	TenantID      string          `db:"tenant_id"`
	Status        string          `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Date          time.Time       `db:"date"`
}
