package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
)

const defaultJournalPageSize = 20

// journalService is the posting engine: it resolves events into lines and
// records each source document's journal exactly once.
type journalService struct {
	BaseService
	accountSvc  portssvc.AccountReaderSvc
	journalRepo portsrepo.JournalRepositoryFacade
	policy      portssvc.PostingResolver
	autoCreate  bool
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountReaderSvc, policy portssvc.PostingResolver, cfg domain.PostingConfig) portssvc.JournalSvcFacade {
	return &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		policy:      policy,
		autoCreate:  cfg.AutoCreateJournalEntries,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) AutoPost(ctx context.Context, actor domain.Actor, event domain.PostingEvent) (*domain.Journal, bool, error) {
	if !s.autoCreate {
		s.LogDebug(ctx, "Automatic journal creation disabled, skipping", slog.String("source", event.Source().String()))
		return nil, false, nil
	}
	return s.Post(ctx, actor, event)
}

func (s *journalService) Post(ctx context.Context, actor domain.Actor, event domain.PostingEvent) (*domain.Journal, bool, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, false, err
	}
	if event == nil {
		return nil, false, apperrors.NewValidationError("posting event is required")
	}
	source := event.Source()
	if source.ID == "" {
		return nil, false, apperrors.NewValidationError("posting event has no source id")
	}
	logger := s.GetLogger(ctx).With(slog.String("tenant_id", actor.TenantID), slog.String("source", source.String()))

	existing, err := s.journalRepo.FindJournalBySource(ctx, actor.TenantID, source)
	if err == nil {
		logger.Debug("Source already posted", slog.String("journal_id", existing.JournalID))
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up journal by source", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to look up journal for %s: %w", source, err)
	}

	if !event.Postable() {
		return nil, false, fmt.Errorf("%w: %s", apperrors.ErrIneligibleSource, source)
	}

	postingLines, err := s.policy.Resolve(event)
	if err != nil {
		return nil, false, err
	}

	accounts, err := s.resolveAccounts(ctx, actor, postingLines)
	if err != nil {
		logger.Warn("Posting account resolution failed", slog.String("error", err.Error()))
		return nil, false, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	lines := make([]domain.JournalLine, len(postingLines))
	for i, pl := range postingLines {
		acc := accounts[pl.AccountCode]
		line := domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			LineNo:      i + 1,
			Notes:       pl.Memo,
			CreatedAt:   now,
		}
		if pl.Side == domain.Debit {
			line.Debit = pl.Amount
		} else {
			line.Credit = pl.Amount
		}
		lines[i] = line
	}
	if err := accounting.ValidateJournalBalance(lines); err != nil {
		logger.Error("Resolved lines failed validation", slog.String("error", err.Error()))
		return nil, false, err
	}

	debit, _ := domain.SumLines(lines)
	journal := domain.Journal{
		JournalID:   journalID,
		TenantID:    actor.TenantID,
		Reference:   referenceFor(source.Type, journalID),
		JournalDate: domain.DateOf(event.Date()),
		Description: event.Describe(),
		Kind:        event.Kind(),
		Status:      domain.Draft,
		Source:      &source,
		Amount:      debit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	saved, err := s.journalRepo.SaveJournal(ctx, journal, lines)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			winner, findErr := s.journalRepo.FindJournalBySource(ctx, actor.TenantID, source)
			if findErr != nil {
				logger.Error("Journal reported duplicate but could not be loaded", slog.String("error", findErr.Error()))
				return nil, false, fmt.Errorf("failed to load concurrently posted journal for %s: %w", source, findErr)
			}
			logger.Debug("Lost posting race, returning existing journal", slog.String("journal_id", winner.JournalID))
			return winner, false, nil
		}
		logger.Error("Failed to save journal", slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to save journal for %s: %w", source, err)
	}

	logger.Info("Journal posted",
		slog.String("journal_id", saved.JournalID),
		slog.String("reference", saved.Reference),
		slog.String("amount", saved.Amount.String()))
	return saved, true, nil
}

// resolveAccounts looks up every distinct code through the chart registry.
func (s *journalService) resolveAccounts(ctx context.Context, actor domain.Actor, lines []domain.PostingLine) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(lines))
	for _, l := range lines {
		if _, ok := accounts[l.AccountCode]; ok {
			continue
		}
		acc, err := s.accountSvc.GetByCode(ctx, actor, l.AccountCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrAccountNotFound) {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrUnresolvedAccount, err)
			}
			return nil, err
		}
		accounts[l.AccountCode] = *acc
	}
	return accounts, nil
}

func (s *journalService) GetJournal(ctx context.Context, actor domain.Actor, journalID string) (*domain.Journal, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	journal, err := s.journalRepo.FindJournalByID(ctx, actor.TenantID, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return journal, nil
}

func (s *journalService) ListJournals(ctx context.Context, actor domain.Actor, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	journals, nextToken, err := s.journalRepo.ListJournals(ctx, actor.TenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}
	resp := dto.ToListJournalsResponse(journals, nextToken)
	s.LogDebug(ctx, "Journals listed", slog.Int("count", len(journals)))
	return &resp, nil
}

// referenceFor builds a human-readable reference such as SAL-1A2B3C4D.
func referenceFor(source domain.SourceType, journalID string) string {
	prefix := "GEN"
	switch source {
	case domain.SourceSale:
		prefix = "SAL"
	case domain.SourceTransaction:
		prefix = "TRX"
	case domain.SourcePurchase:
		prefix = "PUR"
	}
	id := strings.ToUpper(strings.ReplaceAll(journalID, "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + "-" + id
}
