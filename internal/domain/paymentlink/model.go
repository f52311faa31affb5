package paymentlink

import (
	"time"

	"github.com/shopspring/decimal"
)

// Link is a hosted payment link sent for an order
type Link struct {
	PaymentLinkID string          `db:"payment_link_id" json:"payment_link_id"`
	OrderID       int             `db:"order_id" json:"order_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	DateCreated   time.Time       `db:"date_created" json:"date_created"`
	DatePayment   *time.Time      `db:"date_payment" json:"date_payment,omitempty"`
}

func (l *Link) IsPaid() bool {
	return l.DatePayment != nil
}
