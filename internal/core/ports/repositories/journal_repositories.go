package repositories

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal and its lines.
	FindJournalByID(ctx context.Context, tenantID, journalID string) (*domain.Journal, error)

	// FindJournalBySource retrieves the posted journal derived from a source document.
	// Returns apperrors.ErrNotFound when the document has not been posted.
	FindJournalBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Journal, error)

	// ListJournals retrieves posted journals newest first using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveJournal persists a journal and its lines as one unit of work: the
	// journal is written as a draft, the lines are inserted, their totals are
	// re-checked inside the unit, and the journal is flipped to posted.
	// Returns apperrors.ErrDuplicate when the journal's source is already posted
	// and apperrors.ErrUnbalancedEntry when the persisted lines do not balance.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
