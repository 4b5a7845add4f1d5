package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostSaleRequest carries a completed sale to be posted.
type PostSaleRequest struct {
	SaleID        string          `json:"saleID" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	PaymentMethod string          `json:"paymentMethod"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt" binding:"required"`
}

// ToEvent converts the request to a posting event.
func (r PostSaleRequest) ToEvent() domain.SaleEvent {
	return domain.NewSaleEvent(domain.Sale{
		SaleID:        r.SaleID,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		Discount:      r.Discount,
		TotalAmount:   r.TotalAmount,
		CreatedAt:     r.CreatedAt,
	})
}

// PostTransactionRequest carries a manual unified-ledger row to be posted.
type PostTransactionRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	Type          string          `json:"type" binding:"required,oneof=income expense"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date" binding:"required"`
}

// ToEvent converts the request to a posting event.
func (r PostTransactionRequest) ToEvent() domain.TransactionEvent {
	return domain.NewTransactionEvent(domain.Transaction{
		TransactionID: r.TransactionID,
		Status:        r.Status,
		Type:          domain.TransactionType(r.Type),
		Category:      r.Category,
		Description:   r.Description,
		Amount:        r.Amount,
		Date:          r.Date,
	})
}

// PostPurchaseRequest carries a purchase to be posted.
type PostPurchaseRequest struct {
	PurchaseID    string          `json:"purchaseID" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Date          time.Time       `json:"date" binding:"required"`
}

// ToEvent converts the request to a posting event.
func (r PostPurchaseRequest) ToEvent() domain.PurchaseEvent {
	return domain.NewPurchaseEvent(domain.Purchase{
		PurchaseID:    r.PurchaseID,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		TotalAmount:   r.TotalAmount,
		Date:          r.Date,
	})
}
