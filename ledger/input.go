package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrInvalidPayout = errors.New("payout must be between 0 and 100")
	ErrInvalidResult = errors.New("result must be WIN or LOSS")
)

// ValidationError is a rejected form submission. Message is meant for the
// user; Err is one of the ErrInvalid* sentinels.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// OperationInput holds the raw form fields for a new operation.
type OperationInput struct {
	Amount        string `json:"amount"`
	Result        string `json:"result"`
	PayoutPercent string `json:"payoutPercent,omitempty"`
	Strategy      string `json:"strategy,omitempty"`
	Description   string `json:"description,omitempty"`
}

// NewOperation validates in and builds the Operation it describes, stamped
// with id and now. Any error is a *ValidationError.
func NewOperation(in OperationInput, id string, now time.Time) (Operation, error) {
	amount, err := parseDecimal(in.Amount)
	if err != nil || !amount.IsPositive() {
		return Operation{}, &ValidationError{
			Field:   "amount",
			Message: "informe um valor positivo",
			Err:     ErrInvalidAmount,
		}
	}

	result, err := ParseResult(strings.TrimSpace(in.Result))
	if err != nil {
		return Operation{}, &ValidationError{
			Field:   "result",
			Message: "resultado deve ser WIN ou LOSS",
			Err:     ErrInvalidResult,
		}
	}

	var payout *decimal.Decimal
	if strings.TrimSpace(in.PayoutPercent) != "" {
		p, err := parseDecimal(in.PayoutPercent)
		if err != nil || !payoutInRange(p) {
			return Operation{}, &ValidationError{
				Field:   "payoutPercent",
				Message: "payout deve estar entre 0 e 100",
				Err:     ErrInvalidPayout,
			}
		}
		payout = &p
	}

	return Operation{
		ID:            id,
		CreatedAt:     now,
		Amount:        amount,
		Result:        result,
		PayoutPercent: payout,
		Strategy:      strings.TrimSpace(in.Strategy),
		Description:   strings.TrimSpace(in.Description),
	}, nil
}

// parseDecimal accepts "12.34" and "12,34".
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
