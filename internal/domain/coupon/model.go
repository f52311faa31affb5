package coupon

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "F"
	DiscountTypePercentage DiscountType = "P"
)

// Coupon is a storefront coupon as applied at checkout
type Coupon struct {
	CouponID int             `db:"coupon_id" json:"coupon_id"`
	Code     string          `db:"code" json:"code"`
	Name     string          `db:"name" json:"name"`
	Type     DiscountType    `db:"type" json:"type"`
	Discount decimal.Decimal `db:"discount" json:"discount"`
	// Shipping is set when the coupon grants free shipping
	Shipping bool `db:"shipping" json:"shipping"`
	// ProductIDs restricts the coupon to these products, empty means the whole cart
	ProductIDs []int `db:"-" json:"product_ids,omitempty"`
}

// Applies reports whether the coupon discounts productID
func (c *Coupon) Applies(productID int) bool {
	return len(c.ProductIDs) == 0 || lo.Contains(c.ProductIDs, productID)
}
