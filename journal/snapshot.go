package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
)

// SnapshotStore keeps the whole ledger in one JSON document, rewritten on
// every save.
type SnapshotStore struct {
	path string
}

func NewSnapshot(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

type snapshotDoc struct {
	InitialBalance json.Number    `json:"initialBalance"`
	Operations     []operationDoc `json:"operations"`
}

type operationDoc struct {
	ID            string       `json:"id"`
	CreatedAt     string       `json:"createdAt"`
	Amount        json.Number  `json:"amount"`
	Result        string       `json:"result"`
	PayoutPercent *json.Number `json:"payoutPercent"`
	Strategy      string       `json:"strategy"`
	Description   string       `json:"description"`
}

func (j *SnapshotStore) Load(ctx context.Context) (ledger.State, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.State{}, ErrNoSnapshot
	}
	if err != nil {
		return ledger.State{}, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

func (j *SnapshotStore) Save(ctx context.Context, s ledger.State) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(j.path)
	tmp, err := os.CreateTemp(dir, ".banca-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (j *SnapshotStore) Close() error { return nil }

// EncodeSnapshot renders s in the snapshot format: numbers for money and
// RFC 3339 strings for timestamps.
func EncodeSnapshot(s ledger.State) ([]byte, error) {
	doc := snapshotDoc{
		InitialBalance: json.Number(s.InitialBalance.String()),
		Operations:     make([]operationDoc, 0, len(s.Operations)),
	}
	for _, op := range s.Operations {
		od := operationDoc{
			ID:          op.ID,
			CreatedAt:   op.CreatedAt.Format(time.RFC3339Nano),
			Amount:      json.Number(op.Amount.String()),
			Result:      op.Result.String(),
			Strategy:    op.Strategy,
			Description: op.Description,
		}
		if op.PayoutPercent != nil {
			p := json.Number(op.PayoutPercent.String())
			od.PayoutPercent = &p
		}
		doc.Operations = append(doc.Operations, od)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot document. It rejects anything it cannot
// read exactly; callers decide how to recover.
func DecodeSnapshot(data []byte) (ledger.State, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return ledger.State{}, fmt.Errorf("parse snapshot: %w", err)
	}

	initial, err := decimal.NewFromString(doc.InitialBalance.String())
	if err != nil {
		return ledger.State{}, fmt.Errorf("initialBalance: %w", err)
	}

	s := ledger.State{
		InitialBalance: initial,
		Operations:     make([]ledger.Operation, 0, len(doc.Operations)),
	}
	for i, od := range doc.Operations {
		op, err := od.operation()
		if err != nil {
			return ledger.State{}, fmt.Errorf("operation %d: %w", i, err)
		}
		s.Operations = append(s.Operations, op)
	}
	return s, nil
}

func (od operationDoc) operation() (ledger.Operation, error) {
	created, err := time.Parse(time.RFC3339Nano, od.CreatedAt)
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("createdAt: %w", err)
	}
	amount, err := decimal.NewFromString(od.Amount.String())
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("amount: %w", err)
	}
	result, err := ledger.ParseResult(od.Result)
	if err != nil {
		return ledger.Operation{}, err
	}

	op := ledger.Operation{
		ID:          od.ID,
		CreatedAt:   created,
		Amount:      amount,
		Result:      result,
		Strategy:    od.Strategy,
		Description: od.Description,
	}
	if od.PayoutPercent != nil {
		p, err := decimal.NewFromString(od.PayoutPercent.String())
		if err != nil {
			return ledger.Operation{}, fmt.Errorf("payoutPercent: %w", err)
		}
		op.PayoutPercent = &p
	}
	return op, op.Check()
}
