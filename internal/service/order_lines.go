package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// Order total codes with a dedicated line or no line at all
const (
	TotalCodeShipping = "shipping"
	TotalCodeTax      = "tax"
	TotalCodeVoucher  = "voucher"
	TotalCodeSubTotal = "sub_total"
	TotalCodeCoupon   = "coupon"
	TotalCodeReward   = "reward"
	TotalCodeTotal    = "total"
)

var composedTotalCodes = []string{
	TotalCodeShipping, TotalCodeTax, TotalCodeVoucher, TotalCodeSubTotal,
	TotalCodeCoupon, TotalCodeReward, TotalCodeTotal,
}

var voucherCategories = []string{"meal", "eco", "gift"}

const roundingLineName = "Rounding correction"

// CartProduct is a product as the storefront cart prices it, excluding tax
type CartProduct struct {
	ProductID  int
	Total      decimal.Decimal
	TaxClassID int
	// Points is the number of reward points the product can be bought with
	Points int
}

// ShippingSelection is the shipping method chosen at checkout
type ShippingSelection struct {
	Title      string
	Cost       decimal.Decimal
	TaxClassID int
}

// OrderLineInput is everything the composer reads. Amounts are in the store default currency.
type OrderLineInput struct {
	Order        *order.Order
	Settings     config.StoreSettings
	Products     []*order.Product
	CartProducts []CartProduct
	Totals       []*order.Total
	Vouchers     []*order.Voucher
	Shipping     *ShippingSelection
	// Coupon is nil when no coupon was applied or it no longer exists
	Coupon              *coupon.Coupon
	SuperCouponActive   bool
	PinnedCurrencyValue decimal.Decimal
}

// OrderLine is a composed line in the charged currency
type OrderLine struct {
	Type        types.OrderLineType
	Name        string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	VATRate     decimal.Decimal
	VATAmount   decimal.Decimal
	Category    string
	Metadata    mollie.Metadata
}

// ToMollie renders the line with formatted amounts
func (l OrderLine) ToMollie(m money) mollie.OrderLine {
	return mollie.OrderLine{
		Type:        l.Type,
		Category:    l.Category,
		Name:        l.Name,
		Quantity:    l.Quantity,
		UnitPrice:   m.amount(l.UnitPrice),
		TotalAmount: m.amount(l.TotalAmount),
		VatRate:     types.FormatRate(l.VATRate),
		VatAmount:   m.amount(l.VATAmount),
		Metadata:    l.Metadata,
	}
}

// OrderLineComposer turns a storefront order into gateway order lines whose totals add
// up to the order total
type OrderLineComposer struct {
	tax    TaxCalculator
	logger *logger.Logger
}

func NewOrderLineComposer(tax TaxCalculator, logger *logger.Logger) *OrderLineComposer {
	return &OrderLineComposer{tax: tax, logger: logger}
}

// composition carries the state shared by the stages
type composition struct {
	ctx   context.Context
	in    *OrderLineInput
	m     money
	lines []OrderLine
}

func (c *composition) add(l OrderLine) {
	if l.Quantity == 0 {
		l.Quantity = 1
	}
	c.lines = append(c.lines, l)
}

// Compose runs the stages in their fixed order
func (c *OrderLineComposer) Compose(ctx context.Context, in *OrderLineInput) ([]OrderLine, error) {
	comp := &composition{
		ctx: ctx,
		in:  in,
		m:   orderMoney(in.Order, in.Settings, in.PinnedCurrencyValue),
	}

	stages := []func(*composition) error{
		c.productLines,
		c.shippingLine,
		c.couponLine,
		c.giftCardLine,
		c.rewardLine,
		c.voucherLines,
		c.otherTotalLines,
		c.roundingLine,
	}
	for _, stage := range stages {
		if err := stage(comp); err != nil {
			return nil, err
		}
	}

	c.logger.Debugw("composed order lines",
		"order_id", in.Order.ID,
		"lines", len(comp.lines),
	)
	return comp.lines, nil
}

// leadingRate is the first percentage rate of a tax class at amount
func (c *OrderLineComposer) leadingRate(ctx context.Context, amount decimal.Decimal, taxClassID int) (decimal.Decimal, error) {
	components, err := c.tax.GetRates(ctx, amount, taxClassID)
	if err != nil {
		return decimal.Zero, err
	}
	return LeadingRate(components), nil
}

// taxedLine prices a single amount tax inclusive in the charged currency
func (c *OrderLineComposer) taxedLine(comp *composition, lineType types.OrderLineType, name string, amount decimal.Decimal, taxClassID int) (OrderLine, error) {
	rate, err := c.leadingRate(comp.ctx, amount, taxClassID)
	if err != nil {
		return OrderLine{}, err
	}
	withTax, err := c.tax.Calculate(comp.ctx, amount, taxClassID)
	if err != nil {
		return OrderLine{}, err
	}

	value := comp.m.convert(withTax)
	return OrderLine{
		Type:        lineType,
		Name:        name,
		Quantity:    1,
		UnitPrice:   value,
		TotalAmount: value,
		VATRate:     rate,
		VATAmount:   comp.m.round(types.VATFromInclusive(value, rate)),
	}, nil
}

func (c *OrderLineComposer) productLines(comp *composition) error {
	for _, p := range comp.in.Products {
		rate, err := c.leadingRate(comp.ctx, p.Price, p.TaxClassID)
		if err != nil {
			return err
		}

		total := comp.m.convert(p.Price.Add(p.Tax).Mul(p.Quantity))

		quantity := int(p.Quantity.IntPart())
		if quantity < 1 {
			quantity = 1
		}
		price, tax := p.Price, p.Tax
		if p.Quantity.LessThan(decimal.NewFromInt(1)) {
			price = price.Mul(p.Quantity)
			tax = tax.Mul(p.Quantity)
		}

		line := OrderLine{
			Type:        types.OrderLineTypePhysical,
			Name:        p.Name,
			Quantity:    quantity,
			UnitPrice:   comp.m.convert(price.Add(tax)),
			TotalAmount: total,
			VATRate:     rate,
			VATAmount:   comp.m.round(types.VATFromInclusive(total, rate)),
			Metadata:    mollie.Metadata{"order_product_id": p.OrderProductID},
		}
		if lo.Contains(voucherCategories, p.VoucherCategory) {
			line.Category = p.VoucherCategory
		}
		comp.add(line)
	}
	return nil
}

func (c *OrderLineComposer) shippingLine(comp *composition) error {
	s := comp.in.Shipping
	if s == nil {
		return nil
	}

	line, err := c.taxedLine(comp, types.OrderLineTypeShippingFee, s.Title, s.Cost, s.TaxClassID)
	if err != nil {
		return err
	}
	comp.add(line)
	return nil
}

func (c *OrderLineComposer) couponLine(comp *composition) error {
	cp := comp.in.Coupon
	if cp == nil || comp.in.SuperCouponActive {
		return nil
	}

	qualifying := lo.Filter(comp.in.CartProducts, func(p CartProduct, _ int) bool {
		return cp.Applies(p.ProductID)
	})

	subTotal := decimal.Zero
	if len(cp.ProductIDs) == 0 {
		subTotal, _ = order.TotalValue(comp.in.Totals, TotalCodeSubTotal)
	} else {
		for _, p := range qualifying {
			subTotal = subTotal.Add(p.Total)
		}
	}

	fixed := decimal.Min(cp.Discount, subTotal)

	discountTotal := decimal.Zero
	couponVAT := decimal.Zero
	for _, p := range qualifying {
		discount := decimal.Zero
		switch cp.Type {
		case coupon.DiscountTypeFixed:
			if subTotal.IsPositive() {
				discount = fixed.Mul(p.Total).Div(subTotal)
			}
		case coupon.DiscountTypePercentage:
			discount = p.Total.Div(hundred).Mul(cp.Discount)
		}

		if p.TaxClassID > 0 {
			components, err := c.tax.GetRates(comp.ctx, discount, p.TaxClassID)
			if err != nil {
				return err
			}
			couponVAT = couponVAT.Add(percentageTaxes(components))
		}
		discountTotal = discountTotal.Add(discount)
	}

	if s := comp.in.Shipping; cp.Shipping && s != nil && s.TaxClassID > 0 {
		components, err := c.tax.GetRates(comp.ctx, s.Cost, s.TaxClassID)
		if err != nil {
			return err
		}
		couponVAT = couponVAT.Add(percentageTaxes(components))
		discountTotal = discountTotal.Add(s.Cost)
	}

	rate := decimal.Zero
	if discountTotal.IsPositive() {
		rate = couponVAT.Mul(hundred).Div(discountTotal).Round(2)
	}

	unitPriceWithTax := comp.m.convert(discountTotal.Add(couponVAT))
	couponVAT = comp.m.convert(couponVAT)

	// the VAT backed out of the rounded gross amount wins over the summed VAT
	if fromGross := comp.m.round(types.VATFromInclusive(unitPriceWithTax, rate)); !fromGross.Equal(couponVAT) {
		couponVAT = couponVAT.Add(fromGross.Sub(couponVAT))
	}

	comp.add(OrderLine{
		Type:        types.OrderLineTypeDiscount,
		Name:        cp.Name,
		UnitPrice:   unitPriceWithTax.Neg(),
		TotalAmount: unitPriceWithTax.Neg(),
		VATRate:     rate,
		VATAmount:   couponVAT.Neg(),
	})
	return nil
}

func findTotal(totals []*order.Total, code string) (*order.Total, bool) {
	return lo.Find(totals, func(t *order.Total) bool { return t.Code == code })
}

func (c *OrderLineComposer) giftCardLine(comp *composition) error {
	credit, ok := findTotal(comp.in.Totals, TotalCodeVoucher)
	if !ok {
		return nil
	}

	value := comp.m.convert(credit.Value)
	comp.add(OrderLine{
		Type:        types.OrderLineTypeGiftCard,
		Name:        credit.Title,
		UnitPrice:   value,
		TotalAmount: value,
		VATRate:     decimal.Zero,
		VATAmount:   decimal.Zero,
	})
	return nil
}

func (c *OrderLineComposer) rewardLine(comp *composition) error {
	reward, ok := findTotal(comp.in.Totals, TotalCodeReward)
	if !ok {
		return nil
	}

	taxClassID := 0
	if p, found := lo.Find(comp.in.CartProducts, func(p CartProduct) bool {
		return p.Points > 0 && p.TaxClassID > 0
	}); found {
		taxClassID = p.TaxClassID
	}

	line, err := c.taxedLine(comp, types.OrderLineTypeDiscount, reward.Title, reward.Value, taxClassID)
	if err != nil {
		return err
	}
	comp.add(line)
	return nil
}

func (c *OrderLineComposer) voucherLines(comp *composition) error {
	for _, v := range comp.in.Vouchers {
		value := comp.m.convert(v.Amount)
		comp.add(OrderLine{
			Type:        types.OrderLineTypePhysical,
			Name:        v.Description,
			UnitPrice:   value,
			TotalAmount: value,
			VATRate:     decimal.Zero,
			VATAmount:   decimal.Zero,
		})
	}
	return nil
}

func (c *OrderLineComposer) otherTotalLines(comp *composition) error {
	for _, t := range comp.in.Totals {
		if lo.Contains(composedTotalCodes, t.Code) {
			continue
		}

		lineType := types.OrderLineTypeDiscount
		if t.Value.IsPositive() {
			lineType = types.OrderLineTypeSurcharge
		}

		line, err := c.taxedLine(comp, lineType, t.Title, t.Value, comp.in.Settings.TotalTaxClass(t.Code))
		if err != nil {
			return err
		}
		comp.add(line)
	}
	return nil
}

func (c *OrderLineComposer) roundingLine(comp *composition) error {
	orderTotal := comp.m.convert(comp.in.Order.Total)

	linesTotal := decimal.Zero
	for _, l := range comp.lines {
		linesTotal = linesTotal.Add(l.TotalAmount)
	}
	linesTotal = comp.m.round(linesTotal)

	diff := orderTotal.Sub(linesTotal)
	if diff.IsZero() {
		return nil
	}

	lineType := types.OrderLineTypeDiscount
	if diff.IsNegative() {
		lineType = types.OrderLineTypeSurcharge
	}

	c.logger.Debugw("adding rounding line",
		"order_id", comp.in.Order.ID,
		"difference", diff.String(),
	)
	comp.add(OrderLine{
		Type:        lineType,
		Name:        roundingLineName,
		UnitPrice:   diff,
		TotalAmount: diff,
		VATRate:     decimal.Zero,
		VATAmount:   decimal.Zero,
	})
	return nil
}
