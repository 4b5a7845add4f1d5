package dto

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// ProgressFunc is called after each document of a batch run is handled.
// Calls are serialized.
type ProgressFunc func(source domain.SourceType, done, total int)

// BackfillOptions selects what a journal backfill run does.
// At most one of the *Only flags may be set.
type BackfillOptions struct {
	SalesOnly        bool
	TransactionsOnly bool
	PurchasesOnly    bool
	DryRun           bool
	Workers          int
	BatchSize        int
	Progress         ProgressFunc
}

// BatchFailure records one document a batch run could not handle.
type BatchFailure struct {
	Source domain.SourceRef `json:"source"`
	Reason string           `json:"reason"`
}

// BackfillResult summarizes a backfill run. In a dry run the counts are the
// candidates found; otherwise they are the journals created.
type BackfillResult struct {
	DryRun            bool           `json:"dryRun"`
	SalesCount        int            `json:"salesCount"`
	TransactionsCount int            `json:"transactionsCount"`
	PurchasesCount    int            `json:"purchasesCount"`
	Total             int            `json:"total"`
	Skipped           int            `json:"skipped"`
	Failed            int            `json:"failed"`
	Failures          []BatchFailure `json:"failures,omitempty"`
}

// SyncOptions selects what a sales sync run does.
type SyncOptions struct {
	DryRun    bool
	Workers   int
	BatchSize int
	Progress  ProgressFunc
}

// SyncResult summarizes a sales sync run.
type SyncResult struct {
	DryRun         bool           `json:"dryRun"`
	TotalProcessed int            `json:"totalProcessed"`
	Synced         int            `json:"synced"`
	AlreadySynced  int            `json:"alreadySynced"`
	Failed         int            `json:"failed"`
	Failures       []BatchFailure `json:"failures,omitempty"`
}
