package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set the initial balance of an empty ledger",
	Long: `Set the balance the ledger starts from. This only works before the
first operation is recorded.

Example:
  banca init --balance 5000`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new operation",
	Long: `Record the outcome of one trade and print the updated KPIs.

Examples:
  banca add --amount 100 --result WIN --payout 80
  banca add --amount 50 --result LOSS --strategy breakout`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var checkCmd = &cobra.Command{
	Use:   "check <amount>",
	Short: "Check a stake against the risk limits",
	Long: `Report which bankroll limits a stake of <amount> would break, without
recording anything. Exits non-zero when any limit is broken.

Example:
  banca check 250`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Show the dashboard KPIs",
	Args:  cobra.NoArgs,
	RunE:  runKPI,
}

var (
	initBalance string
	addInput    ledger.OperationInput
)

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(kpiCmd)
	rootCmd.AddCommand(checkCmd)

	initCmd.Flags().StringVarP(&initBalance, "balance", "b", "", "initial balance (required)")
	initCmd.MarkFlagRequired("balance")

	addCmd.Flags().StringVarP(&addInput.Amount, "amount", "a", "", "amount at stake (required)")
	addCmd.Flags().StringVarP(&addInput.Result, "result", "r", "", "WIN or LOSS (required)")
	addCmd.Flags().StringVarP(&addInput.PayoutPercent, "payout", "p", "", "payout percent on a win, 0-100 (default 100)")
	addCmd.Flags().StringVarP(&addInput.Strategy, "strategy", "s", "", "strategy label")
	addCmd.Flags().StringVarP(&addInput.Description, "description", "d", "", "free-form notes")
	addCmd.MarkFlagRequired("amount")
	addCmd.MarkFlagRequired("result")
}

func runInit(cmd *cobra.Command, args []string) error {
	balance, err := decimal.NewFromString(initBalance)
	if err != nil {
		return fmt.Errorf("balance %q: %w", initBalance, err)
	}

	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.SetInitialBalance(cmd.Context(), balance); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Initial balance set to %s\n", balance.StringFixed(2))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	rc, err := b.Record(cmd.Context(), addInput, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	op := rc.Operation
	fmt.Fprintf(out, "✓ Recorded %s %s %s\n", op.ID, op.Result, r.SignedMoney(ledger.Profit(op)))
	for _, v := range rc.Warnings {
		fmt.Fprintf(out, "⚠ %s: %s\n", v.Code, v.Msg)
	}
	fmt.Fprintln(out)
	return r.Render(out, rc.KPIs)
}

func runKPI(cmd *cobra.Command, args []string) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	return r.Render(cmd.OutOrStdout(), b.KPIs(time.Now()))
}

func runCheck(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil || !amount.IsPositive() {
		return fmt.Errorf("amount %q must be a positive number", args[0])
	}
	r, err := newRenderer()
	if err != nil {
		return err
	}
	b, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()

	d := b.Assess(amount, time.Now())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Stake %s is %s of balance %s\n", r.Money(amount), r.Percent(d.StakePct), r.Money(d.Balance))
	if d.Allowed {
		fmt.Fprintln(out, "✓ Within limits")
		return nil
	}
	for _, v := range d.Violations {
		fmt.Fprintf(out, "⚠ %s: %s\n", v.Code, v.Msg)
	}
	return fmt.Errorf("%d risk limit(s) broken", len(d.Violations))
}
