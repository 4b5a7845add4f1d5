package dto

import (
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Notes       string          `json:"notes,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID   string                `json:"journalID"`
	Reference   string                `json:"reference"`
	Date        string                `json:"date"`
	Description string                `json:"description"`
	Kind        string                `json:"kind"`
	Status      string                `json:"status"`
	SourceType  string                `json:"sourceType,omitempty"`
	SourceID    string                `json:"sourceID,omitempty"`
	Amount      decimal.Decimal       `json:"amount"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// PostingResponse is returned by the posting endpoints.
type PostingResponse struct {
	Created bool            `json:"created"`
	Journal JournalResponse `json:"journal"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:   j.JournalID,
		Reference:   j.Reference,
		Date:        j.JournalDate.Format("2006-01-02"),
		Description: j.Description,
		Kind:        string(j.Kind),
		Status:      string(j.Status),
		Amount:      j.Amount,
		CreatedAt:   j.CreatedAt,
		CreatedBy:   j.CreatedBy,
	}
	if j.Source != nil {
		resp.SourceType = string(j.Source.Type)
		resp.SourceID = j.Source.ID
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i, l := range j.Lines {
			resp.Lines[i] = JournalLineResponse{
				LineID:      l.LineID,
				AccountID:   l.AccountID,
				AccountCode: l.AccountCode,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Notes:       l.Notes,
			}
		}
	}
	return resp
}

// ToListJournalsResponse converts a page of journals.
func ToListJournalsResponse(journals []domain.Journal, nextToken *string) ListJournalsResponse {
	out := ListJournalsResponse{Journals: make([]JournalResponse, len(journals)), NextToken: nextToken}
	for i := range journals {
		out.Journals[i] = ToJournalResponse(&journals[i])
	}
	return out
}
