package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyIsStable(t *testing.T) {
	g := NewGenerator()

	a := g.GenerateKey(ScopeRefund, map[string]interface{}{"order_id": 7, "lines": "1,2"})
	b := g.GenerateKey(ScopeRefund, map[string]interface{}{"lines": "1,2", "order_id": 7})
	assert.Equal(t, a, b)
	assert.Contains(t, a, "refund-")
}

func TestForAttemptDiffersPerAttempt(t *testing.T) {
	g := NewGenerator()

	first := g.ForAttempt(ScopeCreateOrder, 12, 1)
	second := g.ForAttempt(ScopeCreateOrder, 12, 2)
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, g.ForAttempt(ScopeCreateOrder, 12, 1))
	assert.NotEqual(t, first, g.ForAttempt(ScopeCreatePayment, 12, 1))
}
