package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// Journal is a row of the journals table. SourceType and SourceID are both
// set or both NULL.
type Journal struct {
	JournalID   string          `db:"journal_id"`
	TenantID    string          `db:"tenant_id"`
	Reference   string          `db:"reference"`
	JournalDate time.Time       `db:"journal_date"`
	Description string          `db:"description"`
	Kind        string          `db:"kind"`
	Status      JournalStatus   `db:"status"`
	SourceType  *string         `db:"source_type"`
	SourceID    *string         `db:"source_id"`
	Amount      decimal.Decimal `db:"amount"`
	AuditFields
}

// JournalLine is a row of the journal_lines table joined with its account code.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	JournalID   string          `db:"journal_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	LineNo      int             `db:"line_no"`
	Notes       string          `db:"notes"`
	CreatedAt   time.Time       `db:"created_at"`
}
