package currency

import "github.com/shopspring/decimal"

// Currency is a storefront currency. Value is its rate against the store default
// currency, which has value 1.
type Currency struct {
	CurrencyID int             `db:"currency_id" json:"currency_id"`
	Code       string          `db:"code" json:"code"`
	Value      decimal.Decimal `db:"value" json:"value"`
	Status     bool            `db:"status" json:"status"`
}
