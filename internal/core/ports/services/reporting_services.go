package services

import (
	"context"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// LedgerQuerySvc answers balance questions from posted lines only.
type LedgerQuerySvc interface {
	// TrialBalance lists every account with activity up to and including asOf.
	TrialBalance(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.TrialBalance, error)

	// GeneralLedger lists lines from start through end with running balances.
	// A nil accountCode covers every account with activity.
	GeneralLedger(ctx context.Context, actor domain.Actor, accountCode *string, start, end time.Time) (*domain.GeneralLedger, error)

	// AccountBalance returns the signed balance of one account at asOf.
	AccountBalance(ctx context.Context, actor domain.Actor, accountCode string, asOf time.Time) (*domain.AccountBalance, error)

	// AccountActivity returns per-account totals for the window.
	AccountActivity(ctx context.Context, actor domain.Actor, window domain.DateWindow) ([]domain.AccountActivity, error)
}

// ReportingService defines operations for generating financial statements.
type ReportingService interface {
	// ProfitAndLoss generates a profit and loss report for a specific period
	ProfitAndLoss(ctx context.Context, actor domain.Actor, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.BalanceSheetReport, error)

	// CashFlow buckets unified-ledger movements of a period by activity.
	CashFlow(ctx context.Context, actor domain.Actor, from, to time.Time) (*domain.CashFlowReport, error)
}
