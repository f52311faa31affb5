package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one row of the append-only ledger of recurring payments
type Payment struct {
	ID                   string          `db:"id" json:"id"`
	TransactionID        string          `db:"transaction_id" json:"transaction_id"`
	MollieSubscriptionID string          `db:"mollie_subscription_id" json:"mollie_subscription_id"`
	MollieCustomerID     string          `db:"mollie_customer_id" json:"mollie_customer_id"`
	OrderSubscriptionID  int             `db:"order_subscription_id" json:"order_subscription_id"`
	Method               string          `db:"method" json:"method"`
	Status               string          `db:"status" json:"status"`
	// Amount is in the store default currency
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	DateCreated time.Time       `db:"date_created" json:"date_created"`
}
