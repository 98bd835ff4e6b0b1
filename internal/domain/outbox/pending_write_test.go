package outbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingWrite_GeneratesIdempotencyKey(t *testing.T) {
	w1 := NewPendingWrite("POST", "/orders", []byte(`{"total":"10"}`))
	w2 := NewPendingWrite("POST", "/orders", []byte(`{"total":"10"}`))

	require.NotEmpty(t, w1.IdempotencyKey)
	assert.NotEqual(t, w1.IdempotencyKey, w2.IdempotencyKey)
	assert.NotEqual(t, w1.ID, w2.ID)
	assert.Zero(t, w1.RetryCount)
}

func TestMarkFailed_AccumulatesWithoutDeadLetter(t *testing.T) {
	w := NewPendingWrite("PUT", "/products/42", nil)

	w.MarkFailed("connection refused")
	w.MarkFailed("gateway timeout")

	assert.Equal(t, 2, w.RetryCount)
	assert.Equal(t, "gateway timeout", w.LastError)
}
