package tax

import "github.com/shopspring/decimal"

type RateType string

const (
	RateTypePercentage RateType = "P"
	RateTypeFixed      RateType = "F"
)

// Rate is one tax rate of a tax class
type Rate struct {
	TaxRateID  int             `db:"tax_rate_id" json:"tax_rate_id"`
	TaxClassID int             `db:"tax_class_id" json:"tax_class_id"`
	Name       string          `db:"name" json:"name"`
	Rate       decimal.Decimal `db:"rate" json:"rate"`
	Type       RateType        `db:"type" json:"type"`
	Priority   int             `db:"priority" json:"priority"`
}
