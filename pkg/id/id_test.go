package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndSorted(t *testing.T) {
	t.Parallel()

	prev := ""
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		s := New()
		require.True(t, Valid(s))
		assert.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
		assert.Greater(t, s, prev)
		prev = s
	}
}

func TestNewAtCarriesTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	s := NewAt(at)

	parsed, err := ulid.ParseStrict(s)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-ulid"))
	assert.True(t, Valid(New()))
}
