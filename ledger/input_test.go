package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      OperationInput
		wantErr error
		field   string
	}{
		{name: "win", in: OperationInput{Amount: "100", Result: "WIN"}},
		{name: "loss_with_comma", in: OperationInput{Amount: "12,50", Result: "LOSS"}},
		{name: "payout_bounds_low", in: OperationInput{Amount: "1", Result: "WIN", PayoutPercent: "0"}},
		{name: "payout_bounds_high", in: OperationInput{Amount: "1", Result: "WIN", PayoutPercent: "100"}},
		{name: "blank_payout", in: OperationInput{Amount: "1", Result: "WIN", PayoutPercent: "  "}},
		{name: "empty_amount", in: OperationInput{Result: "WIN"}, wantErr: ErrInvalidAmount, field: "amount"},
		{name: "zero_amount", in: OperationInput{Amount: "0", Result: "WIN"}, wantErr: ErrInvalidAmount, field: "amount"},
		{name: "negative_amount", in: OperationInput{Amount: "-5", Result: "WIN"}, wantErr: ErrInvalidAmount, field: "amount"},
		{name: "garbage_amount", in: OperationInput{Amount: "abc", Result: "WIN"}, wantErr: ErrInvalidAmount, field: "amount"},
		{name: "lowercase_result", in: OperationInput{Amount: "1", Result: "win"}, wantErr: ErrInvalidResult, field: "result"},
		{name: "unknown_result", in: OperationInput{Amount: "1", Result: "DRAW"}, wantErr: ErrInvalidResult, field: "result"},
		{name: "payout_over", in: OperationInput{Amount: "1", Result: "WIN", PayoutPercent: "100.5"}, wantErr: ErrInvalidPayout, field: "payoutPercent"},
		{name: "payout_negative", in: OperationInput{Amount: "1", Result: "WIN", PayoutPercent: "-1"}, wantErr: ErrInvalidPayout, field: "payoutPercent"},
		{name: "payout_garbage", in: OperationInput{Amount: "1", Result: "WIN", PayoutPercent: "x"}, wantErr: ErrInvalidPayout, field: "payoutPercent"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewOperation(tt.in, "id-1", now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "id-1", got.ID)
				assert.True(t, got.CreatedAt.Equal(now))
				assert.NoError(t, got.Check())
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestNewOperationFields(t *testing.T) {
	t.Parallel()

	got, err := NewOperation(OperationInput{
		Amount:        " 250.75 ",
		Result:        " WIN ",
		PayoutPercent: "87,5",
		Strategy:      "  breakout ",
		Description:   " EURUSD M5 ",
	}, "id-2", now)
	require.NoError(t, err)

	assert.True(t, got.Amount.Equal(d("250.75")))
	assert.Equal(t, Win, got.Result)
	require.NotNil(t, got.PayoutPercent)
	assert.True(t, got.PayoutPercent.Equal(d("87.5")))
	assert.Equal(t, "breakout", got.Strategy)
	assert.Equal(t, "EURUSD M5", got.Description)
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	r, err := ParseResult("WIN")
	require.NoError(t, err)
	assert.Equal(t, Win, r)

	r, err = ParseResult("LOSS")
	require.NoError(t, err)
	assert.Equal(t, Loss, r)

	_, err = ParseResult("Loss")
	assert.Error(t, err)
}
