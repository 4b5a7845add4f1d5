package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateWindow selects journal dates in [From, Until). A zero bound is open.
type DateWindow struct {
	From  time.Time
	Until time.Time
}

// Through returns the window of every date up to and including day.
func Through(day time.Time) DateWindow {
	return DateWindow{Until: DateOf(day).AddDate(0, 0, 1)}
}

// Before returns the window of every date strictly before day.
func Before(day time.Time) DateWindow {
	return DateWindow{Until: DateOf(day)}
}

// Between returns the window of dates from start through end, both inclusive.
func Between(start, end time.Time) DateWindow {
	return DateWindow{From: DateOf(start), Until: DateOf(end).AddDate(0, 0, 1)}
}

// Contains reports whether day falls inside the window.
func (w DateWindow) Contains(day time.Time) bool {
	d := DateOf(day)
	if !w.From.IsZero() && d.Before(w.From) {
		return false
	}
	if !w.Until.IsZero() && !d.Before(w.Until) {
		return false
	}
	return true
}

// AccountActivity is the summed debit and credit activity of one account.
type AccountActivity struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceRow represents a single row in a trial balance report.
// Debit and Credit are the account's summed activity; NetDebit and NetCredit
// carry the difference on its side, so at most one of them is non-zero.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	NetDebit    decimal.Decimal `json:"netDebit"`
	NetCredit   decimal.Decimal `json:"netCredit"`
}

// TrialBalance lists every account with activity up to AsOf.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// LedgerLine is a posted journal line joined with its journal and account.
type LedgerLine struct {
	JournalID      string          `json:"journalID"`
	Reference      string          `json:"reference"`
	Description    string          `json:"description"`
	JournalDate    time.Time       `json:"journalDate"`
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is one account's section of the general ledger.
type AccountLedger struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// GeneralLedger lists posted lines per account for a period.
type GeneralLedger struct {
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Accounts  []AccountLedger `json:"accounts"`
}

// AccountBalance is the signed balance of one account at a date.
type AccountBalance struct {
	AccountActivity
	AsOf    time.Time       `json:"asOf"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// CurrentEarningsName labels the computed equity line of the balance sheet.
const CurrentEarningsName = "Current Earnings"

// BalanceSheetReport represents a balance sheet report.
// Equity includes the Current Earnings line.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Balanced         bool            `json:"balanced"`
}

// CashFlowItem aggregates unified-ledger rows of one category.
type CashFlowItem struct {
	Category string          `json:"category"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"`
	Net      decimal.Decimal `json:"net"`
}

// CashFlowSection is one activity section of the cash flow statement.
type CashFlowSection struct {
	Activity CashFlowActivity `json:"activity"`
	Items    []CashFlowItem   `json:"items"`
	Total    decimal.Decimal  `json:"total"`
}

// CashFlowReport is the cash flow statement for a period.
type CashFlowReport struct {
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Operating   CashFlowSection `json:"operating"`
	Investing   CashFlowSection `json:"investing"`
	Financing   CashFlowSection `json:"financing"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
}
