package mapping

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/models"
)

// ToModelSource splits an optional source reference into its nullable columns.
func ToModelSource(ref *domain.SourceRef) (*string, *string) {
	if ref == nil {
		return nil, nil
	}
	t, id := string(ref.Type), ref.ID
	return &t, &id
}

// ToDomainSource joins nullable source columns back into a reference.
func ToDomainSource(sourceType, sourceID *string) *domain.SourceRef {
	if sourceType == nil || sourceID == nil {
		return nil
	}
	return &domain.SourceRef{Type: domain.SourceType(*sourceType), ID: *sourceID}
}

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	sourceType, sourceID := ToModelSource(d.Source)
	return models.Journal{
		JournalID:   d.JournalID,
		TenantID:    d.TenantID,
		Reference:   d.Reference,
		JournalDate: d.JournalDate,
		Description: d.Description,
		Kind:        string(d.Kind),
		Status:      models.JournalStatus(d.Status),
		SourceType:  sourceType,
		SourceID:    sourceID,
		Amount:      d.Amount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:   m.JournalID,
		TenantID:    m.TenantID,
		Reference:   m.Reference,
		JournalDate: m.JournalDate,
		Description: m.Description,
		Kind:        domain.JournalKind(m.Kind),
		Status:      domain.JournalStatus(m.Status),
		Source:      ToDomainSource(m.SourceType, m.SourceID),
		Amount:      m.Amount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		JournalID:   d.JournalID,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		LineNo:      d.LineNo,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		LineNo:      m.LineNo,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainJournalLines converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLines(ms []models.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainJournalLine(m)
	}
	return out
}
