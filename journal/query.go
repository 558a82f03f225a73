package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/banca/ledger"
)

// GetOperation returns a single operation by ID.
func (j *SQLiteStore) GetOperation(ctx context.Context, id string) (ledger.Operation, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE id = ?`, id)

	op, err := scanOperation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return ledger.Operation{}, fmt.Errorf("operation %q not found", id)
		}
		return ledger.Operation{}, err
	}
	return op, nil
}

// ListOperationsBetween returns operations created within [start, end), in
// the order they were recorded.
func (j *SQLiteStore) ListOperationsBetween(ctx context.Context, start, end time.Time) ([]ledger.Operation, error) {
	return j.queryOperations(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE created_at >= ? AND created_at < ?
		ORDER BY seq ASC`, start.UTC(), end.UTC())
}
