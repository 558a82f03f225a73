// Package book is the single writer of the ledger. It validates new
// operations, persists them, and recomputes KPIs.
package book

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/banca/journal"
	"github.com/rustyeddy/banca/ledger"
	"github.com/rustyeddy/banca/pkg/id"
	"github.com/rustyeddy/banca/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrLedgerNotEmpty is returned when the initial balance is changed after
// operations were recorded.
var ErrLedgerNotEmpty = errors.New("initial balance can only be set before the first operation")

// Observer is told about every recorded operation and the KPIs that follow.
// Recorded and Observe run under the Book lock and must not call back into it.
type Observer interface {
	Recorded(op ledger.Operation)
	Rejected()
	Observe(snap ledger.KPISnapshot)
}

// Receipt describes a recorded operation. Warnings are the risk rules the
// stake broke, judged against the ledger before it was appended.
type Receipt struct {
	Operation ledger.Operation   `json:"operation"`
	KPIs      ledger.KPISnapshot `json:"kpis"`
	Warnings  []risk.Violation   `json:"warnings,omitempty"`
}

type Book struct {
	mu        sync.Mutex
	store     journal.Store
	state     ledger.State
	policy    risk.Policy
	log       *zap.Logger
	observers []Observer
}

// Open loads the ledger from store, falling back to an empty ledger at
// defaultBalance.
func Open(ctx context.Context, store journal.Store, defaultBalance decimal.Decimal, log *zap.Logger, observers ...Observer) *Book {
	b := &Book{
		store:     store,
		state:     journal.LoadOrDefault(ctx, store, defaultBalance, log),
		log:       log,
		observers: observers,
	}
	log.Info("ledger loaded",
		zap.String("initial_balance", b.state.InitialBalance.String()),
		zap.Int("operations", len(b.state.Operations)))
	return b
}

// Record validates in, appends the resulting operation and persists the
// new state. On any error the ledger is left as it was.
func (b *Book) Record(ctx context.Context, in ledger.OperationInput, now time.Time) (Receipt, error) {
	op, err := ledger.NewOperation(in, id.NewAt(now), now)
	if err != nil {
		b.log.Info("operation rejected", zap.Error(err))
		for _, o := range b.observers {
			o.Rejected()
		}
		return Receipt{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	decision := risk.Evaluate(b.policy, b.state, op.Amount, now)
	next := b.state.Append(op)
	if err := b.store.Save(ctx, next); err != nil {
		return Receipt{}, fmt.Errorf("save ledger: %w", err)
	}
	b.state = next

	snap := ledger.ComputeKPIs(next, now)
	b.log.Info("operation recorded",
		zap.String("id", op.ID),
		zap.String("result", op.Result.String()),
		zap.String("amount", op.Amount.String()),
		zap.String("balance", snap.CurrentBalance.String()))
	for _, v := range decision.Violations {
		b.log.Warn("risk rule broken", zap.String("id", op.ID), zap.String("code", v.Code), zap.String("detail", v.Msg))
	}
	for _, o := range b.observers {
		o.Recorded(op)
		o.Observe(snap)
	}
	return Receipt{Operation: op, KPIs: snap, Warnings: decision.Violations}, nil
}

// SetPolicy replaces the risk limits used by Record and Assess.
func (b *Book) SetPolicy(p risk.Policy) {
	b.mu.Lock()
	b.policy = p
	b.mu.Unlock()
}

// Assess checks a prospective stake without recording anything.
func (b *Book) Assess(amount decimal.Decimal, now time.Time) risk.Decision {
	b.mu.Lock()
	defer b.mu.Unlock()
	return risk.Evaluate(b.policy, b.state, amount, now)
}

// SetInitialBalance replaces the starting balance of an empty ledger.
func (b *Book) SetInitialBalance(ctx context.Context, initial decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.state.Operations) > 0 {
		return ErrLedgerNotEmpty
	}
	next := ledger.NewState(initial)
	if err := b.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	b.state = next
	b.log.Info("initial balance set", zap.String("initial_balance", initial.String()))
	return nil
}

// KPIs computes the snapshot for the current state at now and publishes it
// to observers. Publishing happens under the lock, so observers never see
// an older snapshot after a newer one.
func (b *Book) KPIs(now time.Time) ledger.KPISnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := ledger.ComputeKPIs(b.state, now)
	for _, o := range b.observers {
		o.Observe(snap)
	}
	return snap
}

// State returns the current ledger. The returned value shares no mutable
// storage with the book: Append never writes into an existing array.
func (b *Book) State() ledger.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Book) Breakdown() []ledger.StrategyStats {
	return ledger.StrategyBreakdown(b.State())
}

// Close closes the underlying store.
func (b *Book) Close() error {
	return b.store.Close()
}
