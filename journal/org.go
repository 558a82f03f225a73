package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/banca/ledger"
)

// FormatOperationOrg renders an Operation as an Org-mode block suitable for
// pasting into a journal. Structured facts go in a PROPERTIES drawer; the
// Thesis/Execution/Review headings are left for notes.
func FormatOperationOrg(op ledger.Operation) string {
	label := op.Strategy
	if label == "" {
		label = "operation"
	}
	heading := fmt.Sprintf("** %s: %s (%s)", op.Result, label, shortID(op.ID))
	created := op.CreatedAt.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", op.ID))
	b.WriteString(fmt.Sprintf(":CREATED: %s\n", created))
	b.WriteString(fmt.Sprintf(":RESULT: %s\n", op.Result))
	b.WriteString(fmt.Sprintf(":AMOUNT: %s\n", op.Amount.StringFixed(2)))
	if op.PayoutPercent != nil {
		b.WriteString(fmt.Sprintf(":PAYOUT_PCT: %s\n", op.PayoutPercent.String()))
	}
	b.WriteString(fmt.Sprintf(":PROFIT: %s\n", ledger.Profit(op).StringFixed(2)))
	if op.Strategy != "" {
		b.WriteString(fmt.Sprintf(":STRATEGY: %s\n", op.Strategy))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	if op.Description != "" {
		b.WriteString(op.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatOperationsOrg renders multiple operations separated by blank lines.
func FormatOperationsOrg(ops []ledger.Operation) string {
	var b strings.Builder
	for i, op := range ops {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatOperationOrg(op))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
