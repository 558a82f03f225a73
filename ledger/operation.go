// Package ledger holds the trading journal's data model and the pure
// calculations derived from it: per-operation profit, the running balance
// and the monthly KPI set shown on the dashboard.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Result is the outcome of a single operation.
type Result string

const (
	Win  Result = "WIN"
	Loss Result = "LOSS"
)

// ParseResult accepts exactly "WIN" or "LOSS".
func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case Win, Loss:
		return Result(s), nil
	}
	return "", fmt.Errorf("unknown result %q", s)
}

func (r Result) String() string { return string(r) }

var hundred = decimal.NewFromInt(100)

// Operation is one recorded trade. It is never edited after creation.
type Operation struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Amount    decimal.Decimal `json:"amount"` // always positive

	Result Result `json:"result"`

	// PayoutPercent only applies to wins. Nil means a 1:1 payout.
	PayoutPercent *decimal.Decimal `json:"payoutPercent,omitempty"`

	Strategy    string `json:"strategy,omitempty"`
	Description string `json:"description,omitempty"`
}

// PayoutRatio returns the fraction of Amount credited on a win.
func (op Operation) PayoutRatio() decimal.Decimal {
	if op.PayoutPercent == nil {
		return decimal.NewFromInt(1)
	}
	return op.PayoutPercent.Div(hundred)
}

// Profit is the signed balance change caused by op. Wins pay
// Amount*PayoutRatio; losses always cost the full Amount.
func Profit(op Operation) decimal.Decimal {
	if op.Result == Win {
		return op.Amount.Mul(op.PayoutRatio())
	}
	return op.Amount.Neg()
}

// Check reports whether op satisfies the model invariants. The calculator
// never calls it; it is for loaders and input handling.
func (op Operation) Check() error {
	if !op.Amount.IsPositive() {
		return fmt.Errorf("operation %s: %w", op.ID, ErrInvalidAmount)
	}
	if _, err := ParseResult(string(op.Result)); err != nil {
		return fmt.Errorf("operation %s: %w", op.ID, ErrInvalidResult)
	}
	if op.PayoutPercent != nil && !payoutInRange(*op.PayoutPercent) {
		return fmt.Errorf("operation %s: %w", op.ID, ErrInvalidPayout)
	}
	return nil
}

func payoutInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}
