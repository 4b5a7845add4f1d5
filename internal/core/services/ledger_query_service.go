package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerQueryService reads balances from posted lines inside one snapshot per call.
type ledgerQueryService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
}

// NewLedgerQueryService creates a new LedgerQuerySvc.
func NewLedgerQueryService(accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository) portssvc.LedgerQuerySvc {
	return &ledgerQueryService{accountRepo: accountRepo, reportingRepo: reportingRepo}
}

var _ portssvc.LedgerQuerySvc = (*ledgerQueryService)(nil)

func (s *ledgerQueryService) AccountActivity(ctx context.Context, actor domain.Actor, window domain.DateWindow) ([]domain.AccountActivity, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	var activity []domain.AccountActivity
	err := s.reportingRepo.ReadSnapshot(ctx, func(r portsrepo.LedgerReader) error {
		var err error
		activity, err = r.SumByAccount(ctx, actor.TenantID, window)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read account activity")
		return nil, fmt.Errorf("failed to read account activity: %w", err)
	}
	return activity, nil
}

// TrialBalance sums the debits and credits of every account. The totals
// must agree; a mismatch is logged as an integrity failure and reported
// through Balanced.
func (s *ledgerQueryService) TrialBalance(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.TrialBalance, error) {
	activity, err := s.AccountActivity(ctx, actor, domain.Through(asOf))
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		AsOf:        domain.DateOf(asOf),
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, a := range activity {
		netDebit, netCredit := accounting.TrialBalanceSides(a.Debit, a.Credit)
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			AccountCode: a.AccountCode,
			AccountName: a.AccountName,
			AccountType: a.AccountType,
			Debit:       a.Debit,
			Credit:      a.Credit,
			NetDebit:    netDebit,
			NetCredit:   netCredit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(a.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(a.Credit)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].AccountCode < tb.Rows[j].AccountCode })
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)

	if !tb.Balanced {
		s.LogError(ctx, apperrors.ErrUnbalancedEntry, "Trial balance does not balance",
			slog.String("tenant_id", actor.TenantID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	s.LogInfo(ctx, "Trial balance generated",
		slog.String("tenant_id", actor.TenantID),
		slog.Time("as_of", tb.AsOf),
		slog.Int("rows", len(tb.Rows)))
	return tb, nil
}

func (s *ledgerQueryService) GeneralLedger(ctx context.Context, actor domain.Actor, accountCode *string, start, end time.Time) (*domain.GeneralLedger, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", apperrors.ErrInvalidDateRange,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	var only *domain.Account
	if accountCode != nil {
		acc, err := s.accountRepo.FindAccountByCode(ctx, actor.TenantID, *accountCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, *accountCode)
			}
			return nil, fmt.Errorf("failed to find account %s: %w", *accountCode, err)
		}
		only = acc
	}

	var (
		opening []domain.AccountActivity
		lines   []domain.LedgerLine
	)
	err := s.reportingRepo.ReadSnapshot(ctx, func(r portsrepo.LedgerReader) error {
		var err error
		if opening, err = r.SumByAccount(ctx, actor.TenantID, domain.Before(start)); err != nil {
			return err
		}
		lines, err = r.ListLines(ctx, actor.TenantID, accountCode, domain.Between(start, end))
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read general ledger")
		return nil, fmt.Errorf("failed to read general ledger: %w", err)
	}

	byID := make(map[string]*domain.AccountLedger)
	ensure := func(id, code, name string, t domain.AccountType) *domain.AccountLedger {
		if l, ok := byID[id]; ok {
			return l
		}
		l := &domain.AccountLedger{
			AccountID:      id,
			AccountCode:    code,
			AccountName:    name,
			AccountType:    t,
			OpeningBalance: decimal.Zero,
			Lines:          []domain.LedgerLine{},
			TotalDebit:     decimal.Zero,
			TotalCredit:    decimal.Zero,
		}
		byID[id] = l
		return l
	}

	if only != nil {
		ensure(only.AccountID, only.Code, only.Name, only.AccountType)
	}
	for _, a := range opening {
		if only != nil && a.AccountID != only.AccountID {
			continue
		}
		l := ensure(a.AccountID, a.AccountCode, a.AccountName, a.AccountType)
		bal, err := accounting.SignedBalance(a.AccountType, a.Debit, a.Credit)
		if err != nil {
			return nil, err
		}
		l.OpeningBalance = bal
	}
	for _, a := range byID {
		a.ClosingBalance = a.OpeningBalance
	}
	for _, line := range lines {
		l := ensure(line.AccountID, line.AccountCode, line.AccountName, line.AccountType)
		delta, err := accounting.SignedBalance(line.AccountType, line.Debit, line.Credit)
		if err != nil {
			return nil, err
		}
		l.ClosingBalance = l.ClosingBalance.Add(delta)
		line.RunningBalance = l.ClosingBalance
		l.Lines = append(l.Lines, line)
		l.TotalDebit = l.TotalDebit.Add(line.Debit)
		l.TotalCredit = l.TotalCredit.Add(line.Credit)
	}

	gl := &domain.GeneralLedger{StartDate: start, EndDate: end, Accounts: make([]domain.AccountLedger, 0, len(byID))}
	for _, l := range byID {
		gl.Accounts = append(gl.Accounts, *l)
	}
	sort.Slice(gl.Accounts, func(i, j int) bool { return gl.Accounts[i].AccountCode < gl.Accounts[j].AccountCode })

	s.LogInfo(ctx, "General ledger generated",
		slog.String("tenant_id", actor.TenantID),
		slog.Int("accounts", len(gl.Accounts)),
		slog.Int("lines", len(lines)))
	return gl, nil
}

func (s *ledgerQueryService) AccountBalance(ctx context.Context, actor domain.Actor, accountCode string, asOf time.Time) (*domain.AccountBalance, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	acc, err := s.accountRepo.FindAccountByCode(ctx, actor.TenantID, accountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, accountCode)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}

	activity, err := s.AccountActivity(ctx, actor, domain.Through(asOf))
	if err != nil {
		return nil, err
	}
	out := &domain.AccountBalance{
		AccountActivity: domain.AccountActivity{
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		},
		AsOf:    domain.DateOf(asOf),
		Balance: decimal.Zero,
	}
	for _, a := range activity {
		if a.AccountID == acc.AccountID {
			out.Debit, out.Credit = a.Debit, a.Credit
			break
		}
	}
	if out.Balance, err = accounting.SignedBalance(acc.AccountType, out.Debit, out.Credit); err != nil {
		return nil, err
	}
	return out, nil
}
