// Package journal persists the ledger and exports it for review.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/banca/config"
	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNoSnapshot means nothing has been saved yet.
var ErrNoSnapshot = errors.New("no saved ledger")

// Store loads and saves the canonical ledger.
type Store interface {
	Load(ctx context.Context) (ledger.State, error)
	// Save persists s. When s extends what was saved before only the new
	// operations are written; otherwise the stored ledger is replaced by s.
	Save(ctx context.Context, s ledger.State) error
	Close() error
}

// Open returns the Store selected by cfg.
func Open(cfg config.JournalConfig) (Store, error) {
	switch cfg.Type {
	case "json":
		return NewSnapshot(cfg.Path), nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}

// LoadOrDefault loads the saved ledger, or returns an empty ledger starting
// at def when there is nothing saved or the saved data is unreadable. Load
// errors are logged and never returned.
func LoadOrDefault(ctx context.Context, st Store, def decimal.Decimal, log *zap.Logger) ledger.State {
	s, err := st.Load(ctx)
	if err == nil {
		err = s.Check()
	}
	switch {
	case err == nil:
		return s
	case errors.Is(err, ErrNoSnapshot):
		log.Debug("no saved ledger, starting fresh", zap.String("initial_balance", def.String()))
	default:
		log.Warn("saved ledger unreadable, starting fresh",
			zap.Error(err),
			zap.String("initial_balance", def.String()))
	}
	return ledger.NewState(def)
}
