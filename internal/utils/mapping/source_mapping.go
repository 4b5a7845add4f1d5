package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	sourceType, sourceID := ToModelSource(d.Source)
	return models.Transaction{
		TransactionID: d.TransactionID,
		TenantID:      d.TenantID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		Category:      d.Category,
		Description:   d.Description,
		Date:          d.Date,
		Status:        d.Status,
		SourceType:    sourceType,
		SourceID:      sourceID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		TenantID:      m.TenantID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Category:      m.Category,
		Description:   m.Description,
		Date:          m.Date,
		Status:        m.Status,
		Source:        ToDomainSource(m.SourceType, m.SourceID),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSale converts a model Sale to a domain Sale
func ToDomainSale(m models.Sale) domain.Sale {
	return domain.Sale(m)
}

// ToDomainPurchase converts a model Purchase to a domain Purchase
func ToDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase(m)
}
