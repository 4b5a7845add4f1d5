package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// PostingResolver turns a business event into balanced posting lines.
type PostingResolver interface {
	Resolve(event domain.PostingEvent) ([]domain.PostingLine, error)
}

// JournalReaderSvc defines read operations for journal data.
type JournalReaderSvc interface {
	// GetJournal retrieves a journal and its lines.
	GetJournal(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of posted journals.
	ListJournals(ctx context.Context, actor domain.Actor, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines posting operations.
type JournalWriterSvc interface {
	// Post records the journal for event exactly once. created is false when
	// the event's source had already been posted and the existing journal is
	// returned instead.
	Post(ctx context.Context, actor domain.Actor, event domain.PostingEvent) (journal *domain.Journal, created bool, err error)

	// AutoPost posts event when automatic journal creation is enabled.
	// It returns nil, false, nil when it is disabled.
	AutoPost(ctx context.Context, actor domain.Actor, event domain.PostingEvent) (*domain.Journal, bool, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
