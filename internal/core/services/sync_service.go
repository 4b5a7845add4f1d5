package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/google/uuid"
)

// syncService mirrors completed sales into the unified ledger.
type syncService struct {
	BaseService
	sourceRepo portsrepo.SourceRepositoryFacade
	settings   batchSettings
}

// NewSyncService creates a new SyncSvc.
func NewSyncService(sourceRepo portsrepo.SourceRepositoryFacade, options ...BatchOption) portssvc.SyncSvc {
	return &syncService{sourceRepo: sourceRepo, settings: newBatchSettings(options)}
}

var _ portssvc.SyncSvc = (*syncService)(nil)

// SyncSales ensures every completed sale has exactly one income row. Rows that
// exist and agree are counted as already synced; rows that disagree fail.
func (s *syncService) SyncSales(ctx context.Context, actor domain.Actor, opts dto.SyncOptions) (*dto.SyncResult, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	workers, batchSize := s.settings.resolve(opts.Workers, opts.BatchSize)
	logger := s.GetLogger(ctx).With(slog.String("tenant_id", actor.TenantID), slog.Bool("dry_run", opts.DryRun))

	total, err := s.sourceRepo.CountCompletedSales(ctx, actor.TenantID)
	if err != nil {
		logger.Error("Failed to count completed sales", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	result := &dto.SyncResult{DryRun: opts.DryRun}
	progress := &batchProgress{fn: opts.Progress}
	progress.reset(domain.SourceSale, total)

	fetch := func(ctx context.Context, afterID string, limit int) ([]domain.Sale, error) {
		return s.sourceRepo.ListCompletedSales(ctx, actor.TenantID, afterID, limit)
	}
	saleID := func(sale domain.Sale) string { return sale.SaleID }

	runErr := scanPages(ctx, batchSize, fetch, saleID, func(ctx context.Context, page []domain.Sale) error {
		return forEachBounded(ctx, page, workers, func(ctx context.Context, sale domain.Sale) {
			s.syncOne(ctx, actor, sale, opts.DryRun, result, progress)
		})
	})

	attrs := []any{
		slog.Int("processed", result.TotalProcessed),
		slog.Int("synced", result.Synced),
		slog.Int("already_synced", result.AlreadySynced),
		slog.Int("failed", result.Failed),
	}
	if runErr != nil {
		logger.Warn("Sales sync stopped early", append(attrs, slog.String("error", runErr.Error()))...)
		return result, runErr
	}
	logger.Info("Sales sync completed", attrs...)
	return result, nil
}

type syncOutcome int

const (
	syncInserted syncOutcome = iota
	syncExisting
	syncFailed
)

func (s *syncService) syncOne(ctx context.Context, actor domain.Actor, sale domain.Sale, dryRun bool, result *dto.SyncResult, progress *batchProgress) {
	outcome, err := s.ensureRow(ctx, actor, sale, dryRun)
	if err != nil && isCancellation(ctx, err) {
		return
	}
	if err != nil {
		s.LogError(ctx, err, "Sale sync failed", slog.String("sale_id", sale.SaleID))
	}
	progress.step(func() {
		result.TotalProcessed++
		switch outcome {
		case syncInserted:
			result.Synced++
		case syncExisting:
			result.AlreadySynced++
		default:
			result.Failed++
			result.Failures = append(result.Failures, dto.BatchFailure{
				Source: domain.SourceRef{Type: domain.SourceSale, ID: sale.SaleID},
				Reason: err.Error(),
			})
		}
	})
}

func (s *syncService) ensureRow(ctx context.Context, actor domain.Actor, sale domain.Sale, dryRun bool) (syncOutcome, error) {
	ref := domain.SourceRef{Type: domain.SourceSale, ID: sale.SaleID}
	existing, err := s.sourceRepo.FindTransactionBySource(ctx, actor.TenantID, ref)
	switch {
	case err == nil:
		if existing.Type == domain.TxnIncome && existing.Amount.Equal(sale.TotalAmount) {
			return syncExisting, nil
		}
		return syncFailed, fmt.Errorf("%w: sale %s total %s, row %s %s",
			apperrors.ErrSyncRowConflict, sale.SaleID, sale.TotalAmount, existing.Type, existing.Amount)
	case !errors.Is(err, apperrors.ErrNotFound):
		return syncFailed, err
	}

	if dryRun {
		return syncInserted, nil
	}

	now := time.Now().UTC()
	inserted, err := s.sourceRepo.InsertSourcedTransaction(ctx, domain.Transaction{
		TransactionID: uuid.NewString(),
		TenantID:      actor.TenantID,
		Type:          domain.TxnIncome,
		Amount:        sale.TotalAmount,
		Category:      domain.SaleTransactionCategory,
		Description:   fmt.Sprintf("Sale %s", sale.SaleID),
		Date:          domain.DateOf(sale.CreatedAt),
		Status:        domain.StatusCompleted,
		Source:        &ref,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	})
	if err != nil {
		return syncFailed, err
	}
	if !inserted {
		return syncExisting, nil
	}
	return syncInserted, nil
}
