package journal

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/banca/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotLoadMissing(t *testing.T) {
	t.Parallel()

	j := NewSnapshot(filepath.Join(t.TempDir(), "banca.json"))
	_, err := j.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotSaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "banca.json")
	j := NewSnapshot(path)

	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2024, 7, 3, 10, 15, 30, 123000000, loc)
	win := testOp("01J0000000000000000000000A", at, "100", ledger.Win)
	p := dec("80")
	win.PayoutPercent = &p
	win.Strategy = "scalp"

	s := ledger.NewState(dec("5000")).
		Append(win).
		Append(testOp("01J0000000000000000000000B", at.Add(time.Hour), "49.99", ledger.Loss))
	require.NoError(t, j.Save(ctx, s))

	got, err := j.Load(ctx)
	require.NoError(t, err)

	assert.True(t, got.InitialBalance.Equal(dec("5000")))
	require.Len(t, got.Operations, 2)
	assert.Equal(t, win.ID, got.Operations[0].ID)
	assert.True(t, got.Operations[0].CreatedAt.Equal(at))
	require.NotNil(t, got.Operations[0].PayoutPercent)
	assert.True(t, got.Operations[0].PayoutPercent.Equal(p))
	assert.Equal(t, "scalp", got.Operations[0].Strategy)
	assert.True(t, got.Operations[1].Amount.Equal(dec("49.99")))
	assert.Nil(t, got.Operations[1].PayoutPercent)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestEncodeSnapshotFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 7, 3, 10, 15, 30, 0, time.UTC)
	s := ledger.NewState(dec("5000.5")).Append(testOp("X", at, "100", ledger.Loss))

	data, err := EncodeSnapshot(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, 5000.5, raw["initialBalance"])
	ops := raw["operations"].([]any)
	require.Len(t, ops, 1)
	op := ops[0].(map[string]any)
	assert.Equal(t, "2024-07-03T10:15:30Z", op["createdAt"])
	assert.Equal(t, 100.0, op["amount"])
	assert.Equal(t, "LOSS", op["result"])
	assert.Nil(t, op["payoutPercent"])
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not_json", `{{{`},
		{"missing_balance", `{"operations": []}`},
		{"bad_time", `{"initialBalance": 1, "operations": [{"id":"a","createdAt":"yesterday","amount":1,"result":"WIN"}]}`},
		{"bad_result", `{"initialBalance": 1, "operations": [{"id":"a","createdAt":"2024-01-01T00:00:00Z","amount":1,"result":"DRAW"}]}`},
		{"zero_amount", `{"initialBalance": 1, "operations": [{"id":"a","createdAt":"2024-01-01T00:00:00Z","amount":0,"result":"WIN"}]}`},
		{"payout_out_of_range", `{"initialBalance": 1, "operations": [{"id":"a","createdAt":"2024-01-01T00:00:00Z","amount":1,"result":"WIN","payoutPercent":150}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeSnapshot([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeSnapshotAcceptsEmptyOperations(t *testing.T) {
	t.Parallel()

	s, err := DecodeSnapshot([]byte(`{"initialBalance": -12.5}`))
	require.NoError(t, err)
	assert.True(t, s.InitialBalance.Equal(dec("-12.5")))
	assert.Empty(t, s.Operations)
}
