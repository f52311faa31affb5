package refund

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund is a refund issued at the gateway for an order
type Refund struct {
	ID            string          `db:"id" json:"id"`
	RefundID      string          `db:"refund_id" json:"refund_id"`
	OrderID       int             `db:"order_id" json:"order_id"`
	TransactionID string          `db:"transaction_id" json:"transaction_id,omitempty"`
	MollieOrderID string          `db:"mollie_order_id" json:"mollie_order_id,omitempty"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Status        string          `db:"status" json:"status"`
	DateCreated   time.Time       `db:"date_created" json:"date_created"`
}
