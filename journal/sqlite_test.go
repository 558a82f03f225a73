package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/banca/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testOp(id string, at time.Time, amount string, r ledger.Result) ledger.Operation {
	return ledger.Operation{ID: id, CreatedAt: at, Amount: dec(amount), Result: r}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('settings','operations')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["settings"])
	assert.True(t, found["operations"])
}

func TestSQLiteLoadEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	win := testOp("01HQ0000000000000000000001", at, "100.10", ledger.Win)
	p := dec("87.5")
	win.PayoutPercent = &p
	win.Strategy = "breakout"
	win.Description = "EURUSD M5"

	s := ledger.NewState(dec("5000")).Append(win)
	require.NoError(t, j.Save(ctx, s))

	s = s.Append(testOp("01HQ0000000000000000000002", at.Add(time.Minute), "50", ledger.Loss))
	require.NoError(t, j.Save(ctx, s))
	// Saving the same state twice must not duplicate rows.
	require.NoError(t, j.Save(ctx, s))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.Load(ctx)
	require.NoError(t, err)

	assert.True(t, got.InitialBalance.Equal(dec("5000")))
	require.Len(t, got.Operations, 2)

	first := got.Operations[0]
	assert.Equal(t, win.ID, first.ID)
	assert.True(t, first.CreatedAt.Equal(at))
	assert.True(t, first.Amount.Equal(dec("100.10")))
	assert.Equal(t, ledger.Win, first.Result)
	require.NotNil(t, first.PayoutPercent)
	assert.True(t, first.PayoutPercent.Equal(p))
	assert.Equal(t, "breakout", first.Strategy)
	assert.Equal(t, "EURUSD M5", first.Description)

	second := got.Operations[1]
	assert.Equal(t, ledger.Loss, second.Result)
	assert.Nil(t, second.PayoutPercent)
}

func TestSQLiteKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	// Recorded out of chronological order on purpose.
	s := ledger.NewState(dec("0")).
		Append(testOp("C", base.Add(10*time.Hour), "1", ledger.Win)).
		Append(testOp("A", base.Add(2*time.Hour), "1", ledger.Loss)).
		Append(testOp("B", base.Add(5*time.Hour), "1", ledger.Win))
	require.NoError(t, j.Save(ctx, s))

	got, err := j.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Operations, 3)
	assert.Equal(t, "C", got.Operations[0].ID)
	assert.Equal(t, "A", got.Operations[1].ID)
	assert.Equal(t, "B", got.Operations[2].ID)
}

func TestSQLiteUpdatesInitialBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	require.NoError(t, j.Save(ctx, ledger.NewState(dec("100"))))
	require.NoError(t, j.Save(ctx, ledger.NewState(dec("-25.5"))))

	got, err := j.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.InitialBalance.Equal(dec("-25.5")))
	assert.Empty(t, got.Operations)
}

func TestSQLiteSaveReplacesUnreadableState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	saved := ledger.NewState(dec("5000")).Append(testOp("01HQ00000000000000000000AA", at, "10", ledger.Win))
	require.NoError(t, j.Save(ctx, saved))
	_, err := j.db.ExecContext(ctx, `UPDATE operations SET amount = '-1'`)
	require.NoError(t, err)

	s := LoadOrDefault(ctx, j, dec("100"), zap.NewNop())
	require.Empty(t, s.Operations)

	s = s.Append(testOp("01HQ00000000000000000000BB", at.Add(time.Hour), "20", ledger.Win))
	require.NoError(t, j.Save(ctx, s))
	require.NoError(t, j.Close())

	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()

	got, err := j2.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, got.Check())
	assert.True(t, got.InitialBalance.Equal(dec("100")))
	require.Len(t, got.Operations, 1)
	assert.Equal(t, "01HQ00000000000000000000BB", got.Operations[0].ID)
}

func TestSQLiteSaveAppendsOnlyNewOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := ledger.NewState(dec("0"))
	for i, id := range []string{"A", "B", "C", "D"} {
		s = s.Append(testOp(id, base.Add(time.Duration(i)*time.Minute), "1", ledger.Loss))
		require.NoError(t, j.Save(ctx, s))
	}

	var maxSeq int
	require.NoError(t, j.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM operations`).Scan(&maxSeq))
	// Each row was inserted once, so seq never skipped.
	assert.Equal(t, 4, maxSeq)

	got, err := j.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Operations, 4)
	assert.Equal(t, "D", got.Operations[3].ID)
}
