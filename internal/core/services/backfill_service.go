package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// backfillService posts journals for historical documents that lack one.
type backfillService struct {
	BaseService
	sourceRepo portsrepo.SourceReader
	journalSvc portssvc.JournalWriterSvc
	settings   batchSettings
}

// NewBackfillService creates a new BackfillSvc.
func NewBackfillService(sourceRepo portsrepo.SourceReader, journalSvc portssvc.JournalWriterSvc, options ...BatchOption) portssvc.BackfillSvc {
	return &backfillService{
		sourceRepo: sourceRepo,
		journalSvc: journalSvc,
		settings:   newBatchSettings(options),
	}
}

var _ portssvc.BackfillSvc = (*backfillService)(nil)

// backfillSource describes one kind of document the backfill can scan.
type backfillSource struct {
	kind  domain.SourceType
	count func(ctx context.Context, tenantID string) (int, error)
	page  func(tenantID string) pageFetcher[domain.PostingEvent]
	tally func(r *dto.BackfillResult) *int
}

func (s *backfillService) sources(opts dto.BackfillOptions) []backfillSource {
	sales := backfillSource{
		kind:  domain.SourceSale,
		count: s.sourceRepo.CountUnpostedSales,
		page: func(tenantID string) pageFetcher[domain.PostingEvent] {
			return func(ctx context.Context, afterID string, limit int) ([]domain.PostingEvent, error) {
				rows, err := s.sourceRepo.ListUnpostedSales(ctx, tenantID, afterID, limit)
				if err != nil {
					return nil, err
				}
				events := make([]domain.PostingEvent, len(rows))
				for i, r := range rows {
					events[i] = domain.NewSaleEvent(r)
				}
				return events, nil
			}
		},
		tally: func(r *dto.BackfillResult) *int { return &r.SalesCount },
	}
	transactions := backfillSource{
		kind:  domain.SourceTransaction,
		count: s.sourceRepo.CountUnpostedTransactions,
		page: func(tenantID string) pageFetcher[domain.PostingEvent] {
			return func(ctx context.Context, afterID string, limit int) ([]domain.PostingEvent, error) {
				rows, err := s.sourceRepo.ListUnpostedTransactions(ctx, tenantID, afterID, limit)
				if err != nil {
					return nil, err
				}
				events := make([]domain.PostingEvent, len(rows))
				for i, r := range rows {
					events[i] = domain.NewTransactionEvent(r)
				}
				return events, nil
			}
		},
		tally: func(r *dto.BackfillResult) *int { return &r.TransactionsCount },
	}
	purchases := backfillSource{
		kind:  domain.SourcePurchase,
		count: s.sourceRepo.CountUnpostedPurchases,
		page: func(tenantID string) pageFetcher[domain.PostingEvent] {
			return func(ctx context.Context, afterID string, limit int) ([]domain.PostingEvent, error) {
				rows, err := s.sourceRepo.ListUnpostedPurchases(ctx, tenantID, afterID, limit)
				if err != nil {
					return nil, err
				}
				events := make([]domain.PostingEvent, len(rows))
				for i, r := range rows {
					events[i] = domain.NewPurchaseEvent(r)
				}
				return events, nil
			}
		},
		tally: func(r *dto.BackfillResult) *int { return &r.PurchasesCount },
	}

	switch {
	case opts.SalesOnly:
		return []backfillSource{sales}
	case opts.TransactionsOnly:
		return []backfillSource{transactions}
	case opts.PurchasesOnly:
		return []backfillSource{purchases}
	default:
		return []backfillSource{sales, transactions, purchases}
	}
}

// Run scans the selected document kinds. A failure on one document is
// recorded and the run continues; cancellation stops dispatching and returns
// the partial result with the context error.
func (s *backfillService) Run(ctx context.Context, actor domain.Actor, opts dto.BackfillOptions) (*dto.BackfillResult, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	only := 0
	for _, set := range []bool{opts.SalesOnly, opts.TransactionsOnly, opts.PurchasesOnly} {
		if set {
			only++
		}
	}
	if only > 1 {
		return nil, apperrors.NewValidationError("at most one of sales-only, transactions-only and purchases-only may be set")
	}

	workers, batchSize := s.settings.resolve(opts.Workers, opts.BatchSize)
	result := &dto.BackfillResult{DryRun: opts.DryRun}
	progress := &batchProgress{fn: opts.Progress}
	logger := s.GetLogger(ctx).With(slog.String("tenant_id", actor.TenantID), slog.Bool("dry_run", opts.DryRun))

	var runErr error
	for _, src := range s.sources(opts) {
		total, err := src.count(ctx, actor.TenantID)
		if err != nil {
			logger.Error("Failed to count backfill candidates", slog.String("source_type", string(src.kind)), slog.String("error", err.Error()))
			runErr = err
			break
		}
		if opts.DryRun {
			*src.tally(result) = total
			logger.Info("Backfill candidates found", slog.String("source_type", string(src.kind)), slog.Int("count", total))
			continue
		}

		progress.reset(src.kind, total)
		err = scanPages(ctx, batchSize, src.page(actor.TenantID), eventSourceID, func(ctx context.Context, page []domain.PostingEvent) error {
			return forEachBounded(ctx, page, workers, func(ctx context.Context, event domain.PostingEvent) {
				s.postOne(ctx, actor, event, src, result, progress)
			})
		})
		if err != nil {
			runErr = err
			break
		}
	}

	result.Total = result.SalesCount + result.TransactionsCount + result.PurchasesCount
	attrs := []any{
		slog.Int("sales", result.SalesCount),
		slog.Int("transactions", result.TransactionsCount),
		slog.Int("purchases", result.PurchasesCount),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			logger.Warn("Backfill interrupted", attrs...)
		} else {
			logger.Error("Backfill aborted", append(attrs, slog.String("error", runErr.Error()))...)
		}
		return result, runErr
	}
	logger.Info("Backfill completed", attrs...)
	return result, nil
}

func (s *backfillService) postOne(ctx context.Context, actor domain.Actor, event domain.PostingEvent, src backfillSource, result *dto.BackfillResult, progress *batchProgress) {
	_, created, err := s.journalSvc.Post(ctx, actor, event)
	if err != nil && isCancellation(ctx, err) {
		return
	}
	if err != nil && !errors.Is(err, apperrors.ErrNothingToPost) {
		s.LogError(ctx, err, "Backfill posting failed", slog.String("source", event.Source().String()))
	}
	progress.step(func() {
		switch {
		case err == nil && created:
			*src.tally(result)++
		case err == nil, errors.Is(err, apperrors.ErrNothingToPost):
			result.Skipped++
		default:
			result.Failed++
			result.Failures = append(result.Failures, dto.BatchFailure{Source: event.Source(), Reason: err.Error()})
		}
	})
}
