package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PostingEvent is a business event the posting engine can turn into a journal.
// The set of implementations is closed: SaleEvent, TransactionEvent and PurchaseEvent.
type PostingEvent interface {
	Source() SourceRef
	Kind() JournalKind
	Date() time.Time
	Describe() string
	Postable() bool
	isPostingEvent()
}

// SaleEvent carries what the sale rule needs.
type SaleEvent struct {
	SaleID        string
	Status        string
	PaymentMethod string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	OccurredAt    time.Time
}

// NewSaleEvent builds the event for a sale document.
func NewSaleEvent(s Sale) SaleEvent {
	return SaleEvent{
		SaleID:        s.SaleID,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Discount:      s.Discount,
		Total:         s.TotalAmount,
		OccurredAt:    s.CreatedAt,
	}
}

func (e SaleEvent) Source() SourceRef { return SourceRef{Type: SourceSale, ID: e.SaleID} }
func (e SaleEvent) Kind() JournalKind { return KindSale }
func (e SaleEvent) Date() time.Time   { return e.OccurredAt }
func (e SaleEvent) Describe() string  { return fmt.Sprintf("Sale %s", e.SaleID) }
func (e SaleEvent) Postable() bool    { return e.Status == StatusCompleted }
func (SaleEvent) isPostingEvent()     {}

// TransactionEvent carries a manual unified-ledger row.
type TransactionEvent struct {
	TransactionID string
	Status        string
	Type          TransactionType
	Category      string
	Description   string
	Amount        decimal.Decimal
	OccurredAt    time.Time
}

// NewTransactionEvent builds the event for a manual transaction.
func NewTransactionEvent(t Transaction) TransactionEvent {
	return TransactionEvent{
		TransactionID: t.TransactionID,
		Status:        t.Status,
		Type:          t.Type,
		Category:      t.Category,
		Description:   t.Description,
		Amount:        t.Amount,
		OccurredAt:    t.Date,
	}
}

func (e TransactionEvent) Source() SourceRef {
	return SourceRef{Type: SourceTransaction, ID: e.TransactionID}
}
func (e TransactionEvent) Kind() JournalKind { return KindGeneral }
func (e TransactionEvent) Date() time.Time   { return e.OccurredAt }
func (e TransactionEvent) Describe() string {
	if e.Description != "" {
		return e.Description
	}
	return fmt.Sprintf("%s %s", e.Category, e.Type)
}
func (e TransactionEvent) Postable() bool { return e.Status == StatusCompleted }
func (TransactionEvent) isPostingEvent()  {}

// PurchaseEvent carries what the purchase rule needs.
type PurchaseEvent struct {
	PurchaseID    string
	Status        string
	PaymentMethod string
	Total         decimal.Decimal
	OccurredAt    time.Time
}

// NewPurchaseEvent builds the event for a purchase document.
func NewPurchaseEvent(p Purchase) PurchaseEvent {
	return PurchaseEvent{
		PurchaseID:    p.PurchaseID,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		Total:         p.TotalAmount,
		OccurredAt:    p.Date,
	}
}

func (e PurchaseEvent) Source() SourceRef { return SourceRef{Type: SourcePurchase, ID: e.PurchaseID} }
func (e PurchaseEvent) Kind() JournalKind { return KindPurchase }
func (e PurchaseEvent) Date() time.Time   { return e.OccurredAt }
func (e PurchaseEvent) Describe() string  { return fmt.Sprintf("Purchase %s", e.PurchaseID) }
func (e PurchaseEvent) Postable() bool {
	return e.Status == StatusCompleted || e.Status == StatusPaid
}
func (PurchaseEvent) isPostingEvent() {}
