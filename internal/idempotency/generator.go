package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Scope names the kind of remote write a key protects
type Scope string

const (
	ScopeCreateOrder        Scope = "create_order"
	ScopeCreatePayment      Scope = "create_payment"
	ScopeRefund             Scope = "refund"
	ScopeCreateShipment     Scope = "create_shipment"
	ScopeCreateSubscription Scope = "create_subscription"
	ScopeCreatePaymentLink  Scope = "create_payment_link"
)

// Generator derives stable Idempotency-Key values so a retried request maps onto the
// remote resource created by the first one
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateKey hashes the scope and the sorted parameters
func (g *Generator) GenerateKey(scope Scope, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, params[k]))
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s-%s", scope, hex.EncodeToString(hash[:8]))
}

// ForAttempt is the key for creating the remote resource of one payment attempt
func (g *Generator) ForAttempt(scope Scope, orderID, attempt int) string {
	return g.GenerateKey(scope, map[string]interface{}{
		"order_id": orderID,
		"attempt":  attempt,
	})
}
