package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/platform/app"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	asOfFlag    string
	fromFlag    string
	toFlag      string
	accountFlag string
)

// reportCmd groups the read-only ledger reports.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print ledger reports and financial statements",
	Long: `Print a report computed from posted journal lines.

Example:
  ledgerctl --tenant shop-1 report trial-balance --as-of 2024-12-31
  ledgerctl --tenant shop-1 report general-ledger --account 1000 --from 2024-01-01 --to 2024-01-31
  ledgerctl --tenant shop-1 report profit-and-loss --from 2024-01-01 --to 2024-12-31`,
}

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Debit and credit balance per account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReport(cmd, func(r reporter) error {
			asOf, err := parseDate(asOfFlag, time.Now())
			if err != nil {
				return err
			}
			tb, err := r.app.Services.Ledger.TrialBalance(cmd.Context(), r.actor, asOf)
			if err != nil {
				return err
			}
			printTrialBalance(cmd.OutOrStdout(), tb)
			return nil
		})
	},
}

var generalLedgerCmd = &cobra.Command{
	Use:   "general-ledger",
	Short: "Posted lines with running balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReport(cmd, func(r reporter) error {
			from, to, err := parsePeriod()
			if err != nil {
				return err
			}
			var code *string
			if accountFlag != "" {
				code = &accountFlag
			}
			gl, err := r.app.Services.Ledger.GeneralLedger(cmd.Context(), r.actor, code, from, to)
			if err != nil {
				return err
			}
			printGeneralLedger(cmd.OutOrStdout(), gl)
			return nil
		})
	},
}

var profitAndLossCmd = &cobra.Command{
	Use:   "profit-and-loss",
	Short: "Revenue and expenses for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReport(cmd, func(r reporter) error {
			from, to, err := parsePeriod()
			if err != nil {
				return err
			}
			pl, err := r.app.Services.Reporting.ProfitAndLoss(cmd.Context(), r.actor, from, to)
			if err != nil {
				return err
			}
			printProfitAndLoss(cmd.OutOrStdout(), pl)
			return nil
		})
	},
}

var balanceSheetCmd = &cobra.Command{
	Use:   "balance-sheet",
	Short: "Assets, liabilities and equity at a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReport(cmd, func(r reporter) error {
			asOf, err := parseDate(asOfFlag, time.Now())
			if err != nil {
				return err
			}
			bs, err := r.app.Services.Reporting.BalanceSheet(cmd.Context(), r.actor, asOf)
			if err != nil {
				return err
			}
			printBalanceSheet(cmd.OutOrStdout(), bs)
			return nil
		})
	},
}

var cashFlowCmd = &cobra.Command{
	Use:   "cash-flow",
	Short: "Cash movements by activity for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReport(cmd, func(r reporter) error {
			from, to, err := parsePeriod()
			if err != nil {
				return err
			}
			cf, err := r.app.Services.Reporting.CashFlow(cmd.Context(), r.actor, from, to)
			if err != nil {
				return err
			}
			printCashFlow(cmd.OutOrStdout(), cf)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{trialBalanceCmd, balanceSheetCmd} {
		c.Flags().StringVar(&asOfFlag, "as-of", "", "report date (YYYY-MM-DD), default today")
	}
	for _, c := range []*cobra.Command{generalLedgerCmd, profitAndLossCmd, cashFlowCmd} {
		c.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD), default first of this month")
		c.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD), default today")
	}
	generalLedgerCmd.Flags().StringVar(&accountFlag, "account", "", "limit to one account code")

	reportCmd.AddCommand(trialBalanceCmd, generalLedgerCmd, profitAndLossCmd, balanceSheetCmd, cashFlowCmd)
}

type reporter struct {
	app   *app.App
	actor domain.Actor
}

// withReport opens the application for the current actor and runs fn.
func withReport(cmd *cobra.Command, fn func(reporter) error) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}
	application, _, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(reporter{app: application, actor: actor})
}

func parseDate(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

func parsePeriod() (time.Time, time.Time, error) {
	now := time.Now()
	from, err := parseDate(fromFlag, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return from, now, err
	}
	to, err := parseDate(toFlag, now)
	return from, to, err
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func printTrialBalance(w io.Writer, tb *domain.TrialBalance) {
	fmt.Fprintf(w, "Trial balance as of %s\n\n", tb.AsOf.Format(dateLayout))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Code\tAccount\tType\tDebit\tCredit\tNet Debit\tNet Credit\t")
	for _, row := range tb.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", row.AccountCode, row.AccountName, row.AccountType,
			amount(row.Debit), amount(row.Credit), amount(row.NetDebit), amount(row.NetCredit))
	}
	fmt.Fprintf(tw, "\tTotal\t\t%s\t%s\t\t\t\n", amount(tb.TotalDebit), amount(tb.TotalCredit))
	tw.Flush()
	if !tb.Balanced {
		fmt.Fprintln(w, "\nWARNING: debits and credits do not agree")
	}
}

func printGeneralLedger(w io.Writer, gl *domain.GeneralLedger) {
	fmt.Fprintf(w, "General ledger %s to %s\n", gl.StartDate.Format(dateLayout), gl.EndDate.Format(dateLayout))
	for _, acc := range gl.Accounts {
		fmt.Fprintf(w, "\n%s %s (%s)\n", acc.AccountCode, acc.AccountName, acc.AccountType)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Date\tReference\tDebit\tCredit\tBalance\t")
		fmt.Fprintf(tw, "\tOpening\t\t\t%s\t\n", amount(acc.OpeningBalance))
		for _, l := range acc.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", l.JournalDate.Format(dateLayout), l.Reference, amount(l.Debit), amount(l.Credit), amount(l.RunningBalance))
		}
		fmt.Fprintf(tw, "\tClosing\t%s\t%s\t%s\t\n", amount(acc.TotalDebit), amount(acc.TotalCredit), amount(acc.ClosingBalance))
		tw.Flush()
	}
}

func printAmounts(tw *tabwriter.Writer, title string, rows []domain.AccountAmount, total decimal.Decimal) {
	fmt.Fprintf(tw, "%s\t\t\n", title)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s %s\t%s\t\n", r.AccountCode, r.Name, amount(r.NetAmount))
	}
	fmt.Fprintf(tw, "Total %s\t%s\t\n", title, amount(total))
}

func printProfitAndLoss(w io.Writer, pl *domain.PAndLReport) {
	fmt.Fprintf(w, "Profit and loss %s to %s\n\n", pl.StartDate.Format(dateLayout), pl.EndDate.Format(dateLayout))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	printAmounts(tw, "Revenue", pl.Revenue, pl.TotalRevenue)
	printAmounts(tw, "Expenses", pl.Expenses, pl.TotalExpenses)
	fmt.Fprintf(tw, "Net profit\t%s\t\n", amount(pl.NetProfit))
	tw.Flush()
}

func printBalanceSheet(w io.Writer, bs *domain.BalanceSheetReport) {
	fmt.Fprintf(w, "Balance sheet as of %s\n\n", bs.AsOf.Format(dateLayout))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	printAmounts(tw, "Assets", bs.Assets, bs.TotalAssets)
	printAmounts(tw, "Liabilities", bs.Liabilities, bs.TotalLiabilities)
	printAmounts(tw, "Equity", bs.Equity, bs.TotalEquity)
	tw.Flush()
	if !bs.Balanced {
		fmt.Fprintln(w, "\nWARNING: assets do not equal liabilities plus equity")
	}
}

func printCashFlow(w io.Writer, cf *domain.CashFlowReport) {
	fmt.Fprintf(w, "Cash flow %s to %s\n\n", cf.StartDate.Format(dateLayout), cf.EndDate.Format(dateLayout))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, section := range []domain.CashFlowSection{cf.Operating, cf.Investing, cf.Financing} {
		fmt.Fprintf(tw, "%s\t\t\t\t\n", section.Activity)
		for _, item := range section.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t\n", item.Category, amount(item.Inflow), amount(item.Outflow), amount(item.Net))
		}
		fmt.Fprintf(tw, "Total %s\t\t\t%s\t\n", section.Activity, amount(section.Total))
	}
	fmt.Fprintf(tw, "Net cash flow\t\t\t%s\t\n", amount(cf.NetCashFlow))
	tw.Flush()
}
