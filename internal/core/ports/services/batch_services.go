package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// BackfillSvc posts journals for historical documents that lack one.
type BackfillSvc interface {
	// Run scans the selected document kinds and posts each unposted one.
	// On cancellation it returns the partial result together with ctx.Err().
	Run(ctx context.Context, actor domain.Actor, opts dto.BackfillOptions) (*dto.BackfillResult, error)
}

// SyncSvc mirrors completed sales into the unified ledger.
type SyncSvc interface {
	SyncSales(ctx context.Context, actor domain.Actor, opts dto.SyncOptions) (*dto.SyncResult, error)
}
