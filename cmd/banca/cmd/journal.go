package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/banca/journal"
	"github.com/rustyeddy/banca/ledger"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded operations",
	Long: `List operations oldest first.

Examples:
  banca list
  banca list --month 2024-05`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Show results grouped by strategy",
	Args:  cobra.NoArgs,
	RunE:  runStrategies,
}

var showCmd = &cobra.Command{
	Use:   "show <operation-id>",
	Short: "Show one operation as an Org entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger",
	Long: `Export the ledger for spreadsheets or Org-mode notes.

Subcommands:
  csv     - Every operation as CSV
  org     - Every operation as Org headings
  review  - This month's review page in Org-mode

Examples:
  banca export csv -o ledger.csv
  banca export review`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export operations as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExportCSV,
}

var exportOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Export operations as Org headings",
	Args:  cobra.NoArgs,
	RunE:  runExportOrg,
}

var exportReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Export the monthly review page",
	Args:  cobra.NoArgs,
	RunE:  runExportReview,
}

var (
	listMonth    string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportOrgCmd)
	exportCmd.AddCommand(exportReviewCmd)

	listCmd.Flags().StringVarP(&listMonth, "month", "m", "", "only operations in this month (YYYY-MM)")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	ops := b.State().Operations
	if listMonth != "" {
		start, end, err := monthBounds(listMonth)
		if err != nil {
			return err
		}
		if ops, err = operationsBetween(cmd.Context(), b, start, end); err != nil {
			return fmt.Errorf("query operations: %w", err)
		}
	}
	return r.RenderOperations(cmd.OutOrStdout(), ops)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	return r.RenderStrategies(cmd.OutOrStdout(), b.Breakdown())
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	if cfg.Journal.Type == "sqlite" {
		j, err := journal.NewSQLite(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer j.Close()

		op, err := j.GetOperation(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get operation: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatOperationOrg(op))
		return nil
	}

	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	for _, op := range b.State().Operations {
		if op.ID == id {
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatOperationOrg(op))
			return nil
		}
	}
	return fmt.Errorf("get operation: %s not found", id)
}

// withOutput runs fn against the --output file, or stdout when unset.
func withOutput(cmd *cobra.Command, fn func(w io.Writer) error) (err error) {
	if exportOutput == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	return withOutput(cmd, func(w io.Writer) error {
		return journal.WriteCSV(w, b.State().Operations)
	})
}

func runExportOrg(cmd *cobra.Command, args []string) error {
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	return withOutput(cmd, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, journal.FormatOperationsOrg(b.State().Operations))
		return err
	})
}

func runExportReview(cmd *cobra.Command, args []string) error {
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	now := time.Now()
	snap := b.KPIs(now)
	month, err := operationsBetween(cmd.Context(), b, snap.MonthStart, now.Add(time.Nanosecond))
	if err != nil {
		return fmt.Errorf("query operations: %w", err)
	}

	review := journal.MonthReview{
		Account:    cfg.Account.ID,
		Currency:   cfg.Account.Currency,
		Created:    now,
		KPIs:       snap,
		Strategies: ledger.StrategyBreakdown(ledger.State{Operations: month}),
		Operations: month,
	}
	return withOutput(cmd, func(w io.Writer) error {
		return journal.WriteReviewOrg(w, review)
	})
}
