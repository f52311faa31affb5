package service

import (
	"testing"

	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/domain/tax"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderLineComposerSuite struct {
	serviceSuite
	composer *OrderLineComposer
}

func TestOrderLineComposer(t *testing.T) {
	suite.Run(t, new(OrderLineComposerSuite))
}

func (s *OrderLineComposerSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.composer = NewOrderLineComposer(NewTaxCalculator(s.params), s.GetLogger())

	s.Require().NoError(s.GetStores().TaxRepo.Create(s.GetContext(), &tax.Rate{
		TaxRateID:  1,
		TaxClassID: 1,
		Name:       "VAT 21%",
		Rate:       d("21"),
		Type:       tax.RateTypePercentage,
		Priority:   1,
	}))
}

func (s *OrderLineComposerSuite) input(total string, products []*order.Product) *OrderLineInput {
	o := &order.Order{ID: 42, Total: d(total), CurrencyCode: "EUR", CurrencyValue: decimal.NewFromInt(1)}
	cart := make([]CartProduct, 0, len(products))
	for _, p := range products {
		cart = append(cart, CartProduct{ProductID: p.ProductID, Total: p.Price.Mul(p.Quantity), TaxClassID: p.TaxClassID})
	}
	return &OrderLineInput{
		Order:        o,
		Settings:     s.GetConfig().Store,
		Products:     products,
		CartProducts: cart,
	}
}

func (s *OrderLineComposerSuite) sum(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalAmount)
	}
	return total
}

func (s *OrderLineComposerSuite) TestRoundingLineClosesTheGap() {
	in := s.input("100.00", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Grinder", Quantity: decimal.NewFromInt(1), Price: d("97.50")},
	})
	in.Shipping = &ShippingSelection{Title: "Flat rate", Cost: d("2.49")}

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 3)

	rounding := lines[2]
	s.Equal(roundingLineName, rounding.Name)
	s.Equal(types.OrderLineTypeDiscount, rounding.Type)
	s.True(rounding.TotalAmount.Equal(d("0.01")), rounding.TotalAmount.String())
	s.True(s.sum(lines).Equal(d("100.00")))
}

func (s *OrderLineComposerSuite) TestNoRoundingLineWhenTotalsMatch() {
	in := s.input("121.00", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Grinder", Quantity: decimal.NewFromInt(1), Price: d("100"), Tax: d("21"), TaxClassID: 1},
	})

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)

	s.True(lines[0].VATRate.Equal(d("21")))
	s.True(lines[0].VATAmount.Equal(d("21")))
	s.Equal(1, lines[0].Quantity)
	s.Equal(1, lines[0].Metadata["order_product_id"])
}

func (s *OrderLineComposerSuite) TestPercentageCouponCarriesVAT() {
	in := s.input("108.90", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Grinder", Quantity: decimal.NewFromInt(1), Price: d("100"), Tax: d("21"), TaxClassID: 1},
	})
	in.Coupon = &coupon.Coupon{Code: "TEN", Name: "Ten percent", Type: coupon.DiscountTypePercentage, Discount: d("10")}

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)

	discount := lines[1]
	s.Equal(types.OrderLineTypeDiscount, discount.Type)
	s.Equal("Ten percent", discount.Name)
	s.True(discount.TotalAmount.Equal(d("-12.10")), discount.TotalAmount.String())
	s.True(discount.VATAmount.Equal(d("-2.10")), discount.VATAmount.String())
	s.True(discount.VATRate.Equal(d("21")))
	s.True(s.sum(lines).Equal(d("108.90")))
}

func (s *OrderLineComposerSuite) TestFixedCouponLimitedToProducts() {
	in := s.input("45.00", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(1), Price: d("20")},
		{OrderProductID: 2, ProductID: 8, Name: "Filter", Quantity: decimal.NewFromInt(1), Price: d("30")},
	})
	in.Coupon = &coupon.Coupon{Code: "FIVE", Name: "Five off", Type: coupon.DiscountTypeFixed, Discount: d("5"), ProductIDs: []int{7}}

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 3)
	s.True(lines[2].TotalAmount.Equal(d("-5.00")))
	s.True(lines[2].VATRate.IsZero())
}

func (s *OrderLineComposerSuite) TestSuperCouponSkipsCouponLine() {
	in := s.input("45.00", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(1), Price: d("50")},
	})
	in.Coupon = &coupon.Coupon{Code: "FIVE", Name: "Five off", Type: coupon.DiscountTypeFixed, Discount: d("5")}
	in.SuperCouponActive = true

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 2)
	s.Equal(roundingLineName, lines[1].Name)
}

func (s *OrderLineComposerSuite) TestGiftCardAndOtherTotals() {
	in := s.input("47.50", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(1), Price: d("50")},
	})
	in.Totals = []*order.Total{
		{Code: TotalCodeSubTotal, Title: "Sub-Total", Value: d("50")},
		{Code: TotalCodeVoucher, Title: "Gift certificate", Value: d("-5")},
		{Code: "handling", Title: "Handling fee", Value: d("2.50")},
		{Code: TotalCodeTotal, Title: "Total", Value: d("47.50")},
	}

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 3)

	s.Equal(types.OrderLineTypeGiftCard, lines[1].Type)
	s.True(lines[1].TotalAmount.Equal(d("-5")))
	s.Equal(types.OrderLineTypeSurcharge, lines[2].Type)
	s.Equal("Handling fee", lines[2].Name)
}

func (s *OrderLineComposerSuite) TestConvertsIntoOrderCurrency() {
	in := s.input("10.00", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(2), Price: d("5")},
	})
	in.Order.CurrencyCode = "USD"
	in.Order.CurrencyValue = d("2")

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(2, lines[0].Quantity)
	s.True(lines[0].UnitPrice.Equal(d("10")))
	s.True(lines[0].TotalAmount.Equal(d("20")))
}

func (s *OrderLineComposerSuite) TestFractionalQuantityPricedAsOneUnit() {
	in := s.input("6.05", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Loose tea", Quantity: d("0.5"), Price: d("10"), Tax: d("2.10"), TaxClassID: 1},
	})

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)

	s.Equal(1, lines[0].Quantity)
	s.True(lines[0].UnitPrice.Equal(d("6.05")), lines[0].UnitPrice.String())
	s.True(lines[0].TotalAmount.Equal(d("6.05")), lines[0].TotalAmount.String())
	s.True(lines[0].VATAmount.Equal(d("1.05")), lines[0].VATAmount.String())
}

func (s *OrderLineComposerSuite) TestRewardTakesVATOfFirstRewardProduct() {
	s.Require().NoError(s.GetStores().TaxRepo.Create(s.GetContext(), &tax.Rate{
		TaxRateID:  2,
		TaxClassID: 2,
		Name:       "VAT 9%",
		Rate:       d("9"),
		Type:       tax.RateTypePercentage,
		Priority:   1,
	}))

	in := s.input("30.25", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(1), Price: d("20"), Tax: d("4.20"), TaxClassID: 1},
		{OrderProductID: 2, ProductID: 8, Name: "Mug", Quantity: decimal.NewFromInt(1), Price: d("10"), Tax: d("0.90"), TaxClassID: 2},
		{OrderProductID: 3, ProductID: 9, Name: "Filter", Quantity: decimal.NewFromInt(1), Price: d("5"), Tax: d("1.05"), TaxClassID: 1},
	})
	in.CartProducts = []CartProduct{
		{ProductID: 7, Total: d("20"), TaxClassID: 1},
		{ProductID: 8, Total: d("10"), TaxClassID: 2, Points: 10},
		{ProductID: 9, Total: d("5"), TaxClassID: 1, Points: 5},
	}
	in.Totals = []*order.Total{
		{Code: TotalCodeReward, Title: "Reward points", Value: d("-10")},
	}

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 4)

	reward := lines[3]
	s.Equal("Reward points", reward.Name)
	s.Equal(types.OrderLineTypeDiscount, reward.Type)
	s.True(reward.VATRate.Equal(d("9")), reward.VATRate.String())
	s.True(reward.TotalAmount.Equal(d("-10.90")), reward.TotalAmount.String())
	s.True(reward.VATAmount.Equal(d("-0.90")), reward.VATAmount.String())
}

func (s *OrderLineComposerSuite) TestEachGiftVoucherGetsALine() {
	in := s.input("90.00", []*order.Product{
		{OrderProductID: 1, ProductID: 7, Name: "Beans", Quantity: decimal.NewFromInt(1), Price: d("50")},
	})
	in.Vouchers = []*order.Voucher{
		{OrderVoucherID: 1, Description: "Gift voucher for Jan", Amount: d("25")},
		{OrderVoucherID: 2, Description: "Gift voucher for Piet", Amount: d("15")},
	}

	lines, err := s.composer.Compose(s.GetContext(), in)
	s.Require().NoError(err)
	s.Require().Len(lines, 3)

	s.Equal("Gift voucher for Jan", lines[1].Name)
	s.Equal("Gift voucher for Piet", lines[2].Name)
	for _, l := range lines[1:] {
		s.Equal(types.OrderLineTypePhysical, l.Type)
		s.Equal(1, l.Quantity)
		s.True(l.VATRate.IsZero())
		s.True(l.VATAmount.IsZero())
	}
	s.True(lines[1].TotalAmount.Equal(d("25")))
	s.True(s.sum(lines).Equal(d("90")))
}
