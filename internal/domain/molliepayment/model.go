package molliepayment

import (
	"time"

	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// Record is one payment attempt of a storefront order at the gateway
type Record struct {
	ID             string `db:"id" json:"id"`
	OrderID        int    `db:"order_id" json:"order_id"`
	PaymentAttempt int    `db:"payment_attempt" json:"payment_attempt"`
	// MollieOrderID is set when the attempt was created through the order API
	MollieOrderID string `db:"mollie_order_id" json:"mollie_order_id,omitempty"`
	TransactionID string `db:"transaction_id" json:"transaction_id,omitempty"`
	Method        string `db:"method" json:"method"`
	// BankAccount holds the issuer selected at checkout
	BankAccount          string          `db:"bank_account" json:"bank_account,omitempty"`
	BankStatus           string          `db:"bank_status" json:"bank_status,omitempty"`
	Amount               decimal.Decimal `db:"amount" json:"amount"`
	Currency             string          `db:"currency" json:"currency"`
	RefundID             string          `db:"refund_id" json:"refund_id,omitempty"`
	MollieSubscriptionID string          `db:"mollie_subscription_id" json:"mollie_subscription_id,omitempty"`
	OrderSubscriptionID  int             `db:"order_subscription_id" json:"order_subscription_id,omitempty"`
	NextPayment          *time.Time      `db:"next_payment" json:"next_payment,omitempty"`
	// SubscriptionEnd is nil for open ended subscriptions
	SubscriptionEnd *time.Time `db:"subscription_end" json:"subscription_end,omitempty"`
	DateModified         time.Time       `db:"date_modified" json:"date_modified"`
}

// Kind reports which gateway API the attempt was created with
func (r *Record) Kind() types.ResourceKind {
	if r.MollieOrderID != "" {
		return types.ResourceKindOrder
	}
	return types.ResourceKindPayment
}

// HasRefund reports whether a refund was already issued for the attempt
func (r *Record) HasRefund() bool {
	return r.RefundID != ""
}

// Status returns the last known remote status
func (r *Record) Status() types.PaymentStatus {
	return types.PaymentStatus(r.BankStatus)
}
