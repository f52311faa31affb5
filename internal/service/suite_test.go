package service

import (
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/testutil"
	"github.com/shopspring/decimal"
)

// serviceSuite wires the in-memory stores and the fake gateway into ServiceParams
type serviceSuite struct {
	testutil.BaseServiceTestSuite
	params ServiceParams
}

func (s *serviceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetCache(),
		s.GetSession(),
		s.GetSentry(),
		s.GetMailer(),
		stores.PaymentRecordRepo,
		stores.RefundRepo,
		stores.SubscriptionPaymentRepo,
		stores.CustomerRepo,
		stores.PaymentLinkRepo,
		stores.OrderRepo,
		stores.CouponRepo,
		stores.TaxRepo,
		stores.CurrencyRepo,
		s.GetGateway(),
	)
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testAddress() order.Address {
	return order.Address{
		Firstname:   "Anna",
		Lastname:    "de Vries",
		Address1:    "Keizersgracht 1",
		City:        "Amsterdam",
		Postcode:    "1015 CJ",
		CountryISO2: "NL",
	}
}

// seedOrder stores a pending order of a single product priced at total with no tax
func (s *serviceSuite) seedOrder(id int, total string) *order.Order {
	o := &order.Order{
		ID:              id,
		StoreName:       "Test Store",
		Firstname:       "Anna",
		Lastname:        "de Vries",
		Email:           "Anna@Example.test",
		PaymentAddress:  testAddress(),
		ShippingAddress: testAddress(),
		ShippingMethod:  "flat.flat",
		Total:           d(total),
		CurrencyCode:    "EUR",
		CurrencyValue:   decimal.NewFromInt(1),
		LanguageCode:    "nl-nl",
		OrderStatusID:   testutil.StatusPending,
		DateAdded:       s.GetNow(),
	}
	products := []*order.Product{
		{
			OrderProductID: id*10 + 1,
			ProductID:      7,
			Name:           "Espresso machine",
			Model:          "EM-1",
			Quantity:       decimal.NewFromInt(1),
			Price:          d(total),
			Tax:            decimal.Zero,
			Total:          d(total),
			Subtract:       true,
		},
	}
	totals := []*order.Total{
		{Code: TotalCodeSubTotal, Title: "Sub-Total", Value: d(total), SortOrder: 1},
		{Code: TotalCodeTotal, Title: "Total", Value: d(total), SortOrder: 9},
	}
	s.GetStores().OrderRepo.Seed(o, products, totals)
	return o
}

// seedRecord stores a paid attempt for the order
func (s *serviceSuite) seedRecord(r *molliepayment.Record) *molliepayment.Record {
	if r.Currency == "" {
		r.Currency = "EUR"
	}
	if r.DateModified.IsZero() {
		r.DateModified = time.Now().UTC()
	}
	s.Require().NoError(s.GetStores().PaymentRecordRepo.Create(s.GetContext(), r))
	return r
}

func (s *serviceSuite) reloadOrder(id int) *order.Order {
	o, err := s.GetStores().OrderRepo.Get(s.GetContext(), id)
	s.Require().NoError(err)
	return o
}
