package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
)

// SQLiteStore keeps the ledger in a SQLite database. Money is stored as
// decimal text so nothing is lost to float rounding; row order follows the
// autoincrement seq column.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

const operationColumns = `id, created_at, amount, result, payout_percent, strategy, description`

func (j *SQLiteStore) Load(ctx context.Context) (ledger.State, error) {
	var raw string
	err := j.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, initialBalanceKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.State{}, ErrNoSnapshot
	}
	if err != nil {
		return ledger.State{}, err
	}

	initial, err := decimal.NewFromString(raw)
	if err != nil {
		return ledger.State{}, fmt.Errorf("initial balance %q: %w", raw, err)
	}

	ops, err := j.queryOperations(ctx, `SELECT `+operationColumns+` FROM operations ORDER BY seq ASC`)
	if err != nil {
		return ledger.State{}, err
	}
	return ledger.State{InitialBalance: initial, Operations: ops}, nil
}

// Save writes the initial balance and the operation log. When the stored
// log is a prefix of s only the new tail is inserted; otherwise the stored
// log is replaced, which is how a state that failed to load gets
// overwritten.
func (j *SQLiteStore) Save(ctx context.Context, s ledger.State) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		initialBalanceKey, s.InitialBalance.String(),
	); err != nil {
		return fmt.Errorf("save initial balance: %w", err)
	}

	stored, err := storedPrefix(ctx, tx, s.Operations)
	if err != nil {
		return err
	}
	if stored < 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM operations`); err != nil {
			return fmt.Errorf("replace operations: %w", err)
		}
		stored = 0
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operations
		(`+operationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, op := range s.Operations[stored:] {
		var payout sql.NullString
		if op.PayoutPercent != nil {
			payout = sql.NullString{String: op.PayoutPercent.String(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			op.ID, op.CreatedAt.UTC(), op.Amount.String(), op.Result.String(),
			payout, op.Strategy, op.Description,
		); err != nil {
			return fmt.Errorf("save operation %s: %w", op.ID, err)
		}
	}

	return tx.Commit()
}

// storedPrefix returns how many rows are already stored when the last
// stored id sits at the same position in ops, or -1 when the stored log
// diverges from ops. Stored rows are never edited, so that match means the
// stored log is a prefix of ops.
func storedPrefix(ctx context.Context, tx *sql.Tx, ops []ledger.Operation) (int, error) {
	var (
		count  int
		lastID sql.NullString
	)
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*), (SELECT id FROM operations ORDER BY seq DESC LIMIT 1)
		FROM operations`).Scan(&count, &lastID)
	if err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	switch {
	case count == 0:
		return 0, nil
	case count > len(ops), ops[count-1].ID != lastID.String:
		return -1, nil
	}
	return count, nil
}

func (j *SQLiteStore) Close() error {
	return j.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperation(row rowScanner) (ledger.Operation, error) {
	var (
		op      ledger.Operation
		created time.Time
		amount  string
		result  string
		payout  sql.NullString
	)
	if err := row.Scan(&op.ID, &created, &amount, &result, &payout, &op.Strategy, &op.Description); err != nil {
		return ledger.Operation{}, err
	}

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("operation %s amount: %w", op.ID, err)
	}
	r, err := ledger.ParseResult(result)
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("operation %s: %w", op.ID, err)
	}
	op.CreatedAt = created
	op.Amount = a
	op.Result = r

	if payout.Valid {
		p, err := decimal.NewFromString(payout.String)
		if err != nil {
			return ledger.Operation{}, fmt.Errorf("operation %s payout: %w", op.ID, err)
		}
		op.PayoutPercent = &p
	}
	return op, nil
}

func (j *SQLiteStore) queryOperations(ctx context.Context, query string, args ...any) ([]ledger.Operation, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
