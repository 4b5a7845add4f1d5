package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/spf13/cobra"
)

var (
	salesOnly        bool
	transactionsOnly bool
	purchasesOnly    bool
	dryRun           bool
	workers          int
	batchSize        int
)

// backfillCmd posts journals for documents that have none.
var backfillCmd = &cobra.Command{
	Use:   "journal-backfill",
	Short: "Post journals for historical documents",
	Long: `Scan completed sales, manual transactions and purchases that have no
journal yet and post one for each. Documents that fail are reported and the
run continues. Running it again posts nothing new.

Example:
  ledgerctl --tenant shop-1 journal-backfill --dry-run
  ledgerctl --tenant shop-1 journal-backfill --sales-only --workers 8`,
	RunE: runBackfill,
}

// syncSalesCmd mirrors completed sales into the unified ledger.
var syncSalesCmd = &cobra.Command{
	Use:   "sync-sales",
	Short: "Mirror completed sales into the transactions ledger",
	Long: `Insert one income row into the unified transactions ledger for every
completed sale that does not have one yet.

Example:
  ledgerctl --tenant shop-1 sync-sales --dry-run`,
	RunE: runSyncSales,
}

func init() {
	backfillCmd.Flags().BoolVar(&salesOnly, "sales-only", false, "only backfill sales")
	backfillCmd.Flags().BoolVar(&transactionsOnly, "transactions-only", false, "only backfill manual transactions")
	backfillCmd.Flags().BoolVar(&purchasesOnly, "purchases-only", false, "only backfill purchases")
	backfillCmd.MarkFlagsMutuallyExclusive("sales-only", "transactions-only", "purchases-only")

	for _, c := range []*cobra.Command{backfillCmd, syncSalesCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be done without writing")
		c.Flags().IntVar(&workers, "workers", 0, "concurrent documents (default from BACKFILL_WORKERS)")
		c.Flags().IntVar(&batchSize, "batch-size", 0, "documents read per page (default from BACKFILL_BATCH_SIZE)")
	}
}

// progressPrinter reports progress on stderr every step documents.
func progressPrinter(w io.Writer, step int) dto.ProgressFunc {
	if step <= 0 {
		step = 100
	}
	return func(source domain.SourceType, done, total int) {
		if done == total || done%step == 0 {
			fmt.Fprintf(w, "%s: %d/%d\n", source, done, total)
		}
	}
}

func runBackfill(cmd *cobra.Command, args []string) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}
	application, cfg, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	slog.Info("Starting journal backfill", "tenant", actor.TenantID, "dry_run", dryRun)
	result, err := application.Services.Backfill.Run(cmd.Context(), actor, dto.BackfillOptions{
		SalesOnly:        salesOnly,
		TransactionsOnly: transactionsOnly,
		PurchasesOnly:    purchasesOnly,
		DryRun:           dryRun,
		Workers:          workers,
		BatchSize:        batchSize,
		Progress:         progressPrinter(os.Stderr, cfg.BackfillBatchSize),
	})
	if result != nil {
		printBackfillResult(cmd.OutOrStdout(), result)
	}
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d documents: %w", result.Failed, errPartial)
	}
	return nil
}

func printBackfillResult(w io.Writer, r *dto.BackfillResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if r.DryRun {
		fmt.Fprintln(tw, "DRY RUN: counts are candidates, nothing was written")
	}
	fmt.Fprintf(tw, "Sales\t%d\n", r.SalesCount)
	fmt.Fprintf(tw, "Transactions\t%d\n", r.TransactionsCount)
	fmt.Fprintf(tw, "Purchases\t%d\n", r.PurchasesCount)
	fmt.Fprintf(tw, "Total\t%d\n", r.Total)
	fmt.Fprintf(tw, "Skipped\t%d\n", r.Skipped)
	fmt.Fprintf(tw, "Failed\t%d\n", r.Failed)
	tw.Flush()
	printFailures(w, r.Failures)
}

func runSyncSales(cmd *cobra.Command, args []string) error {
	actor, err := currentActor()
	if err != nil {
		return err
	}
	application, cfg, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	slog.Info("Starting sales sync", "tenant", actor.TenantID, "dry_run", dryRun)
	result, err := application.Services.Sync.SyncSales(cmd.Context(), actor, dto.SyncOptions{
		DryRun:    dryRun,
		Workers:   workers,
		BatchSize: batchSize,
		Progress:  progressPrinter(os.Stderr, cfg.BackfillBatchSize),
	})
	if result != nil {
		printSyncResult(cmd.OutOrStdout(), result)
	}
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d sales: %w", result.Failed, result.TotalProcessed, errPartial)
	}
	return nil
}

func printSyncResult(w io.Writer, r *dto.SyncResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if r.DryRun {
		fmt.Fprintln(tw, "DRY RUN: nothing was written")
	}
	fmt.Fprintf(tw, "Processed\t%d\n", r.TotalProcessed)
	fmt.Fprintf(tw, "Synced\t%d\n", r.Synced)
	fmt.Fprintf(tw, "Already synced\t%d\n", r.AlreadySynced)
	fmt.Fprintf(tw, "Failed\t%d\n", r.Failed)
	tw.Flush()
	printFailures(w, r.Failures)
}

func printFailures(w io.Writer, failures []dto.BatchFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailures:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range failures {
		fmt.Fprintf(tw, "  %s\t%s\n", f.Source, f.Reason)
	}
	tw.Flush()
}
