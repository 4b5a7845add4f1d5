package dto

import (
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

// ReportPeriodParams binds the period query of period reports. An empty
// StartDate means the first day of the current month and an empty EndDate today.
type ReportPeriodParams struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ReportAsOfParams binds the point-in-time query of balance reports.
// An empty AsOf means today.
type ReportAsOfParams struct {
	AsOf string `form:"asOf"`
}

// GeneralLedgerParams binds the general ledger query.
type GeneralLedgerParams struct {
	ReportPeriodParams
	AccountCode string `form:"accountCode"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	NetDebit    decimal.Decimal `json:"netDebit"`
	NetCredit   decimal.Decimal `json:"netCredit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf     string                    `json:"asOf"`
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Balanced bool                      `json:"balanced"`
	Totals   struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
}

// LedgerLineResponse is a line of the general ledger response.
type LedgerLineResponse struct {
	JournalID      string          `json:"journalID"`
	Reference      string          `json:"reference"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedgerResponse is one account of the general ledger response.
type AccountLedgerResponse struct {
	AccountID      string               `json:"accountID"`
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	AccountType    string               `json:"accountType"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
	TotalDebit     decimal.Decimal      `json:"totalDebit"`
	TotalCredit    decimal.Decimal      `json:"totalCredit"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
}

// GeneralLedgerResponse represents the general ledger report response
type GeneralLedgerResponse struct {
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Accounts  []AccountLedgerResponse `json:"accounts"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID   string          `json:"accountID,omitempty"`
	AccountCode string          `json:"accountCode,omitempty"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Balanced    bool                    `json:"balanced"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	} `json:"summary"`
}

// CashFlowItemResponse is one category of a cash flow section.
type CashFlowItemResponse struct {
	Category string          `json:"category"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"`
	Net      decimal.Decimal `json:"net"`
}

// CashFlowSectionResponse is one activity section.
type CashFlowSectionResponse struct {
	Items []CashFlowItemResponse `json:"items"`
	Total decimal.Decimal        `json:"total"`
}

// CashFlowResponse represents the cash flow report response
type CashFlowResponse struct {
	FromDate    string                  `json:"fromDate"`
	ToDate      string                  `json:"toDate"`
	Operating   CashFlowSectionResponse `json:"operating"`
	Investing   CashFlowSectionResponse `json:"investing"`
	Financing   CashFlowSectionResponse `json:"financing"`
	NetCashFlow decimal.Decimal         `json:"netCashFlow"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:     tb.AsOf.Format(reportDateLayout),
		Rows:     make([]TrialBalanceRowResponse, len(tb.Rows)),
		Balanced: tb.Balanced,
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
			NetDebit:    row.NetDebit,
			NetCredit:   row.NetCredit,
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

// ToGeneralLedgerResponse converts a domain general ledger to a DTO response
func ToGeneralLedgerResponse(gl *domain.GeneralLedger) GeneralLedgerResponse {
	response := GeneralLedgerResponse{
		StartDate: gl.StartDate.Format(reportDateLayout),
		EndDate:   gl.EndDate.Format(reportDateLayout),
		Accounts:  make([]AccountLedgerResponse, len(gl.Accounts)),
	}
	for i, acc := range gl.Accounts {
		lines := make([]LedgerLineResponse, len(acc.Lines))
		for j, l := range acc.Lines {
			lines[j] = LedgerLineResponse{
				JournalID:      l.JournalID,
				Reference:      l.Reference,
				Date:           l.JournalDate.Format(reportDateLayout),
				Description:    l.Description,
				Debit:          l.Debit,
				Credit:         l.Credit,
				RunningBalance: l.RunningBalance,
			}
		}
		response.Accounts[i] = AccountLedgerResponse{
			AccountID:      acc.AccountID,
			AccountCode:    acc.AccountCode,
			AccountName:    acc.AccountName,
			AccountType:    string(acc.AccountType),
			OpeningBalance: acc.OpeningBalance,
			Lines:          lines,
			TotalDebit:     acc.TotalDebit,
			TotalCredit:    acc.TotalCredit,
			ClosingBalance: acc.ClosingBalance,
		}
	}
	return response
}

func toAccountAmountResponses(in []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(in))
	for i, a := range in {
		out[i] = AccountAmountResponse{
			AccountID:   a.AccountID,
			AccountCode: a.AccountCode,
			Name:        a.Name,
			Amount:      a.NetAmount,
		}
	}
	return out
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: report.StartDate.Format(reportDateLayout),
		ToDate:   report.EndDate.Format(reportDateLayout),
		Revenue:  toAccountAmountResponses(report.Revenue),
		Expenses: toAccountAmountResponses(report.Expenses),
	}
	response.Summary.TotalRevenue = report.TotalRevenue
	response.Summary.TotalExpenses = report.TotalExpenses
	response.Summary.NetProfit = report.NetProfit
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        report.AsOf.Format(reportDateLayout),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
		Balanced:    report.Balanced,
	}
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.CurrentEarnings = report.CurrentEarnings
	return response
}

func toCashFlowSectionResponse(s domain.CashFlowSection) CashFlowSectionResponse {
	out := CashFlowSectionResponse{Items: make([]CashFlowItemResponse, len(s.Items)), Total: s.Total}
	for i, it := range s.Items {
		out.Items[i] = CashFlowItemResponse(it)
	}
	return out
}

// ToCashFlowResponse converts a domain cash flow report to a DTO response
func ToCashFlowResponse(report *domain.CashFlowReport) CashFlowResponse {
	return CashFlowResponse{
		FromDate:    report.StartDate.Format(reportDateLayout),
		ToDate:      report.EndDate.Format(reportDateLayout),
		Operating:   toCashFlowSectionResponse(report.Operating),
		Investing:   toCashFlowSectionResponse(report.Investing),
		Financing:   toCashFlowSectionResponse(report.Financing),
		NetCashFlow: report.NetCashFlow,
	}
}

// AccountBalanceResponse is the balance of one account at a date.
type AccountBalanceResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	AsOf        string          `json:"asOf"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// ToAccountBalanceResponse converts a domain account balance to a DTO response
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:   b.AccountID,
		AccountCode: b.AccountCode,
		AccountName: b.AccountName,
		AccountType: string(b.AccountType),
		AsOf:        b.AsOf.Format(reportDateLayout),
		Debit:       b.Debit,
		Credit:      b.Credit,
		Balance:     b.Balance,
	}
}
