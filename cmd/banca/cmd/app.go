package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/banca/book"
	"github.com/rustyeddy/banca/journal"
	"github.com/rustyeddy/banca/ledger"
	"github.com/rustyeddy/banca/report"
	"github.com/rustyeddy/banca/risk"
	"github.com/shopspring/decimal"
)

func openBook(ctx context.Context, observers ...book.Observer) (*book.Book, error) {
	st, err := journal.Open(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	def := decimal.NewFromFloat(cfg.Account.InitialBalance)
	b := book.Open(ctx, st, def, log, observers...)
	b.SetPolicy(risk.PolicyFrom(cfg.Risk))
	return b, nil
}

func newRenderer() (*report.Renderer, error) {
	return report.NewRenderer(cfg.Account.Locale, cfg.Account.Currency)
}

// monthBounds parses YYYY-MM in the local zone and returns [start, end).
func monthBounds(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("month must be YYYY-MM: %w", err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// operationsBetween returns operations with start <= CreatedAt < end. The
// SQLite journal answers with a query; the JSON snapshot is filtered in
// memory.
func operationsBetween(ctx context.Context, b *book.Book, start, end time.Time) ([]ledger.Operation, error) {
	if cfg.Journal.Type == "sqlite" {
		j, err := journal.NewSQLite(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		defer j.Close()
		return j.ListOperationsBetween(ctx, start, end)
	}

	var out []ledger.Operation
	for _, op := range b.State().Operations {
		if !op.CreatedAt.Before(start) && op.CreatedAt.Before(end) {
			out = append(out, op)
		}
	}
	return out, nil
}
