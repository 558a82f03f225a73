package journal

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/rustyeddy/banca/ledger"
)

var csvHeader = []string{"id", "created_at", "amount", "result", "payout_percent", "profit", "strategy", "description"}

// WriteCSV writes ops to w, one row per operation, with a header row.
func WriteCSV(w io.Writer, ops []ledger.Operation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, op := range ops {
		payout := ""
		if op.PayoutPercent != nil {
			payout = op.PayoutPercent.String()
		}
		if err := cw.Write([]string{
			op.ID,
			op.CreatedAt.Format(time.RFC3339),
			op.Amount.StringFixed(2),
			op.Result.String(),
			payout,
			ledger.Profit(op).StringFixed(2),
			op.Strategy,
			op.Description,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
