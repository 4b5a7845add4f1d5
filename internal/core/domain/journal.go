package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
// An entry is written as Draft and flipped to Posted in the same unit of work.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// JournalKind classifies an entry by the business event that produced it.
type JournalKind string

const (
	KindSale     JournalKind = "SALE"
	KindPurchase JournalKind = "PURCHASE"
	KindGeneral  JournalKind = "GENERAL"
)

// SourceType names the kind of business document an entry was derived from.
type SourceType string

const (
	SourceSale        SourceType = "SALE"
	SourceTransaction SourceType = "TRANSACTION"
	SourcePurchase    SourceType = "PURCHASE"
)

// IsValid reports whether s is a known source type.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceSale, SourceTransaction, SourcePurchase:
		return true
	}
	return false
}

// SourceRef identifies the business document behind a journal entry.
// At most one posted entry exists per (tenant, SourceRef).
type SourceRef struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id"`
}

func (r SourceRef) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

// Side indicates whether a line debits or credits its account.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// ErrInvalidLine is returned for lines that do not carry exactly one positive side.
var ErrInvalidLine = errors.New("journal line must carry exactly one positive side")

// Journal is a single balanced financial event composed of two or more lines.
type Journal struct {
	JournalID   string          `json:"journalID"`
	TenantID    string          `json:"tenantID"`
	Reference   string          `json:"reference"`
	JournalDate time.Time       `json:"journalDate"`
	Description string          `json:"description"`
	Kind        JournalKind     `json:"kind"`
	Status      JournalStatus   `json:"status"`
	Source      *SourceRef      `json:"source,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Lines       []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// Totals returns the debit and credit sums of the journal's lines.
func (j Journal) Totals() (debit, credit decimal.Decimal) {
	return SumLines(j.Lines)
}

// IsBalanced reports whether the lines' debits equal their credits.
func (j Journal) IsBalanced() bool {
	d, c := j.Totals()
	return d.Equal(c)
}

// JournalLine debits or credits a single account. Exactly one of Debit and
// Credit is positive; the other is zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	LineNo      int             `json:"lineNo"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate checks the one-positive-side rule.
func (l JournalLine) Validate() error {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("%w: negative amount on account %s", ErrInvalidLine, l.AccountCode)
	}
	if l.Debit.IsZero() == l.Credit.IsZero() {
		return fmt.Errorf("%w: account %s has debit %s and credit %s", ErrInvalidLine, l.AccountCode, l.Debit, l.Credit)
	}
	return nil
}

// Side returns the side carrying the line's amount.
func (l JournalLine) Side() Side {
	if l.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the positive amount of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsPositive() {
		return l.Debit
	}
	return l.Credit
}

// SumLines totals debits and credits.
func SumLines(lines []JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// PostingLine is a resolved but not yet persisted line: an account code, a side
// and a positive amount.
type PostingLine struct {
	AccountCode string
	Side        Side
	Amount      decimal.Decimal
	Memo        string
}
