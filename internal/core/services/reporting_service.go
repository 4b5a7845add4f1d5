package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService compiles financial statements from ledger query results.
type reportingService struct {
	BaseService
	ledger        portssvc.LedgerQuerySvc
	reportingRepo portsrepo.ReportingRepository
	cfg           domain.PostingConfig
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithPostingConfig sets the configuration used to bucket cash flow categories.
func WithPostingConfig(cfg domain.PostingConfig) ReportingServiceOption {
	return func(s *reportingService) {
		s.cfg = cfg
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(ledger portssvc.LedgerQuerySvc, repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		ledger:        ledger,
		reportingRepo: repo,
		cfg:           domain.DefaultPostingConfig(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func checkPeriod(from, to time.Time) error {
	if domain.DateOf(to).Before(domain.DateOf(from)) {
		return fmt.Errorf("%w: end %s is before start %s", apperrors.ErrInvalidDateRange,
			to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return nil
}

func amountOf(a domain.AccountActivity, net decimal.Decimal) domain.AccountAmount {
	return domain.AccountAmount{AccountID: a.AccountID, AccountCode: a.AccountCode, Name: a.AccountName, NetAmount: net}
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, actor domain.Actor, from, to time.Time) (*domain.PAndLReport, error) {
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}
	activity, err := s.ledger.AccountActivity(ctx, actor, domain.Between(from, to))
	if err != nil {
		return nil, err
	}

	report := &domain.PAndLReport{
		StartDate:     domain.DateOf(from),
		EndDate:       domain.DateOf(to),
		Revenue:       []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, a := range activity {
		switch a.AccountType {
		case domain.Revenue:
			net := a.Credit.Sub(a.Debit)
			report.Revenue = append(report.Revenue, amountOf(a, net))
			report.TotalRevenue = report.TotalRevenue.Add(net)
		case domain.Expense:
			net := a.Debit.Sub(a.Credit)
			report.Expenses = append(report.Expenses, amountOf(a, net))
			report.TotalExpenses = report.TotalExpenses.Add(net)
		}
	}
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)

	s.LogInfo(ctx, "Profit and loss report generated",
		slog.String("tenant_id", actor.TenantID),
		slog.String("net_profit", report.NetProfit.String()))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date. Revenue
// and expense activity to date is carried into equity as Current Earnings.
func (s *reportingService) BalanceSheet(ctx context.Context, actor domain.Actor, asOf time.Time) (*domain.BalanceSheetReport, error) {
	activity, err := s.ledger.AccountActivity(ctx, actor, domain.Through(asOf))
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:             domain.DateOf(asOf),
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		CurrentEarnings:  decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, a := range activity {
		switch a.AccountType {
		case domain.Asset:
			net := a.Debit.Sub(a.Credit)
			report.Assets = append(report.Assets, amountOf(a, net))
			report.TotalAssets = report.TotalAssets.Add(net)
		case domain.Liability:
			net := a.Credit.Sub(a.Debit)
			report.Liabilities = append(report.Liabilities, amountOf(a, net))
			report.TotalLiabilities = report.TotalLiabilities.Add(net)
		case domain.Equity:
			net := a.Credit.Sub(a.Debit)
			report.Equity = append(report.Equity, amountOf(a, net))
			report.TotalEquity = report.TotalEquity.Add(net)
		case domain.Revenue:
			report.CurrentEarnings = report.CurrentEarnings.Add(a.Credit.Sub(a.Debit))
		case domain.Expense:
			report.CurrentEarnings = report.CurrentEarnings.Sub(a.Debit.Sub(a.Credit))
		}
	}
	if !report.CurrentEarnings.IsZero() {
		report.Equity = append(report.Equity, domain.AccountAmount{Name: domain.CurrentEarningsName, NetAmount: report.CurrentEarnings})
		report.TotalEquity = report.TotalEquity.Add(report.CurrentEarnings)
	}
	report.Balanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))

	if !report.Balanced {
		s.LogError(ctx, apperrors.ErrUnbalancedEntry, "Balance sheet does not balance",
			slog.String("tenant_id", actor.TenantID),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	s.LogInfo(ctx, "Balance sheet report generated", slog.String("tenant_id", actor.TenantID))
	return report, nil
}

// CashFlow buckets completed unified-ledger rows of the period by activity and
// category. Income adds to a bucket and expense subtracts from it.
func (s *reportingService) CashFlow(ctx context.Context, actor domain.Actor, from, to time.Time) (*domain.CashFlowReport, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}

	var movements []domain.Transaction
	err := s.reportingRepo.ReadSnapshot(ctx, func(r portsrepo.LedgerReader) error {
		var err error
		movements, err = r.ListCashMovements(ctx, actor.TenantID, domain.Between(from, to))
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read cash movements")
		return nil, fmt.Errorf("failed to read cash movements: %w", err)
	}

	type bucketKey struct {
		activity domain.CashFlowActivity
		category string
	}
	items := make(map[bucketKey]*domain.CashFlowItem)
	for _, m := range movements {
		category := domain.NormalizeCategory(m.Category)
		key := bucketKey{activity: s.cfg.ActivityFor(category), category: category}
		it, ok := items[key]
		if !ok {
			it = &domain.CashFlowItem{Category: category, Inflow: decimal.Zero, Outflow: decimal.Zero, Net: decimal.Zero}
			items[key] = it
		}
		switch m.Type {
		case domain.TxnIncome:
			it.Inflow = it.Inflow.Add(m.Amount)
		case domain.TxnExpense:
			it.Outflow = it.Outflow.Add(m.Amount)
		}
		it.Net = it.Inflow.Sub(it.Outflow)
	}

	report := &domain.CashFlowReport{
		StartDate: domain.DateOf(from),
		EndDate:   domain.DateOf(to),
		Operating: domain.CashFlowSection{Activity: domain.Operating, Items: []domain.CashFlowItem{}, Total: decimal.Zero},
		Investing: domain.CashFlowSection{Activity: domain.Investing, Items: []domain.CashFlowItem{}, Total: decimal.Zero},
		Financing: domain.CashFlowSection{Activity: domain.Financing, Items: []domain.CashFlowItem{}, Total: decimal.Zero},
	}
	sections := map[domain.CashFlowActivity]*domain.CashFlowSection{
		domain.Operating: &report.Operating,
		domain.Investing: &report.Investing,
		domain.Financing: &report.Financing,
	}
	for key, it := range items {
		section, ok := sections[key.activity]
		if !ok {
			section = &report.Operating
		}
		section.Items = append(section.Items, *it)
		section.Total = section.Total.Add(it.Net)
	}
	for _, section := range sections {
		sort.Slice(section.Items, func(i, j int) bool { return section.Items[i].Category < section.Items[j].Category })
	}
	report.NetCashFlow = report.Operating.Total.Add(report.Investing.Total).Add(report.Financing.Total)

	s.LogInfo(ctx, "Cash flow report generated",
		slog.String("tenant_id", actor.TenantID),
		slog.Int("movements", len(movements)),
		slog.String("net_cash_flow", report.NetCashFlow.String()))
	return report, nil
}
