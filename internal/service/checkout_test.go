package service

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/currency"
	"github.com/shopbridge/mollie-gateway/internal/domain/customer"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceSuite struct {
	serviceSuite
	service CheckoutService
}

func TestCheckoutService(t *testing.T) {
	suite.Run(t, new(CheckoutServiceSuite))
}

func (s *CheckoutServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewCheckoutService(s.params)
}

func (s *CheckoutServiceSuite) TestCreatePaymentNumbersAttempts() {
	s.seedOrder(42, "100.00")

	first, err := s.service.CreatePayment(s.GetContext(), 42, &dto.CreatePaymentRequest{Method: "ideal", Issuer: "ideal_INGBNL2A"})
	s.Require().NoError(err)
	s.Equal(1, first.PaymentAttempt)
	s.Equal(types.ResourceKindOrder, first.ResourceKind)
	s.NotEmpty(first.CheckoutURL)

	second, err := s.service.CreatePayment(s.GetContext(), 42, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)
	s.Equal(2, second.PaymentAttempt)
	s.NotEqual(first.MollieID, second.MollieID)

	calls := s.GetGateway().CallsTo("CreateOrder")
	s.Require().Len(calls, 2)
	s.NotEqual(calls[0].IdempotencyKey, calls[1].IdempotencyKey)

	req := calls[0].Request.(*mollie.CreateOrderRequest)
	s.Equal("100.00", req.Amount.Value)
	s.Equal("nl_NL", req.Locale)
	s.Equal("ideal_INGBNL2A", req.Payment.Issuer)
	s.Require().Len(req.Lines, 1)

	latest, err := s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), 42)
	s.Require().NoError(err)
	s.Equal(2, latest.PaymentAttempt)
	s.Equal(second.MollieID, latest.MollieOrderID)

	sess, err := s.GetSession().Load(s.GetContext())
	s.Require().NoError(err)
	s.Equal(42, sess.OrderID)
}

func (s *CheckoutServiceSuite) TestCreatePaymentWithPaymentsAPI() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.seedOrder(43, "25.00")

	resp, err := s.service.CreatePayment(s.GetContext(), 43, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)
	s.Equal(types.ResourceKindPayment, resp.ResourceKind)

	s.Empty(s.GetGateway().CallsTo("CreateOrder"))
	calls := s.GetGateway().CallsTo("CreatePayment")
	s.Require().Len(calls, 1)
	s.Equal("Order 43", calls[0].Request.(*mollie.CreatePaymentRequest).Description)

	record, err := s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), 43)
	s.Require().NoError(err)
	s.Equal(resp.MollieID, record.TransactionID)
	s.Empty(record.MollieOrderID)
}

func (s *CheckoutServiceSuite) TestIssuerFromSession() {
	s.seedOrder(44, "25.00")
	s.Require().NoError(s.service.SetIssuer(s.GetContext(), &dto.SetIssuerRequest{Issuer: "ideal_RABONL2U"}))

	_, err := s.service.CreatePayment(s.GetContext(), 44, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	req := s.GetGateway().CallsTo("CreateOrder")[0].Request.(*mollie.CreateOrderRequest)
	s.Equal("ideal_RABONL2U", req.Payment.Issuer)
}

func (s *CheckoutServiceSuite) TestCouponFromTotalTitle() {
	o := s.seedOrder(45, "90.00")
	o.Total = d("80.00")
	products, _ := s.GetStores().OrderRepo.ListProducts(s.GetContext(), o.ID)
	s.GetStores().OrderRepo.Seed(o, products, []*order.Total{
		{Code: TotalCodeSubTotal, Title: "Sub-Total", Value: d("90.00")},
		{Code: TotalCodeCoupon, Title: "Coupon (SAVE10)", Value: d("-10.00")},
		{Code: TotalCodeTotal, Title: "Total", Value: d("80.00")},
	})
	s.Require().NoError(s.GetStores().CouponRepo.Create(s.GetContext(), &coupon.Coupon{
		Code: "SAVE10", Name: "Save 10", Type: coupon.DiscountTypeFixed, Discount: d("10"),
	}))

	_, err := s.service.CreatePayment(s.GetContext(), 45, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	req := s.GetGateway().CallsTo("CreateOrder")[0].Request.(*mollie.CreateOrderRequest)
	s.Require().Len(req.Lines, 2)
	s.Equal(types.OrderLineTypeDiscount, req.Lines[1].Type)
	s.Equal("-10.00", req.Lines[1].TotalAmount.Value)
}

func (s *CheckoutServiceSuite) TestPurchasedVoucherLine() {
	o := s.seedOrder(49, "75.00")
	s.GetStores().OrderRepo.Seed(o, []*order.Product{{
		OrderProductID: 491, ProductID: 7, Name: "Espresso machine", Quantity: d("1"),
		Price: d("50.00"), Tax: d("0"), Total: d("50.00"), Subtract: true,
	}}, []*order.Total{
		{Code: TotalCodeSubTotal, Title: "Sub-Total", Value: d("50.00")},
		{Code: TotalCodeTotal, Title: "Total", Value: d("75.00")},
	})
	s.GetStores().OrderRepo.SeedVouchers(49, []*order.Voucher{{OrderVoucherID: 1, OrderID: 49, Description: "Gift voucher", Amount: d("25")}})

	_, err := s.service.CreatePayment(s.GetContext(), 49, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	req := s.GetGateway().CallsTo("CreateOrder")[0].Request.(*mollie.CreateOrderRequest)
	s.Require().Len(req.Lines, 2)
	s.Equal("Gift voucher", req.Lines[1].Name)
	s.Equal(types.OrderLineTypePhysical, req.Lines[1].Type)
	s.Equal("25.00", req.Lines[1].TotalAmount.Value)
	s.Equal("75.00", req.Amount.Value)
}

func (s *CheckoutServiceSuite) TestMissingAddressField() {
	o := s.seedOrder(46, "25.00")
	o.ShippingAddress.Postcode = ""
	products, _ := s.GetStores().OrderRepo.ListProducts(s.GetContext(), o.ID)
	totals, _ := s.GetStores().OrderRepo.ListTotals(s.GetContext(), o.ID)
	s.GetStores().OrderRepo.Seed(o, products, totals)

	_, err := s.service.CreatePayment(s.GetContext(), 46, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetGateway().CallsTo("CreateOrder"))
}

func (s *CheckoutServiceSuite) TestGatewayRejectionIsReportable() {
	s.seedOrder(47, "25.00")
	s.GetGateway().Fail("CreateOrder", http.StatusUnprocessableEntity, "The <b>amount</b> is too low")

	_, err := s.service.CreatePayment(s.GetContext(), 47, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))
	s.Contains(errors.FlattenHints(err), "The amount is too low")

	_, err = s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), 47)
	s.True(ierr.IsNotFound(err))
}

func (s *CheckoutServiceSuite) TestSubscriptionOrderLinksCustomer() {
	s.seedOrder(48, "10.00")
	s.GetStores().OrderRepo.SeedSubscriptions(48, []*order.Subscription{
		{OrderSubscriptionID: 1, ProductName: "Coffee club", Price: d("10"), Frequency: types.SubscriptionFrequencyMonth, Cycle: 1},
	})

	_, err := s.service.CreatePayment(s.GetContext(), 48, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	mapping, err := s.GetStores().CustomerRepo.GetByEmail(s.GetContext(), "anna@example.test")
	s.Require().NoError(err)

	req := s.GetGateway().CallsTo("CreateOrder")[0].Request.(*mollie.CreateOrderRequest)
	s.Equal(mapping.MollieCustomerID, req.Payment.CustomerID)
	s.Equal(types.SequenceTypeFirst, req.Payment.SequenceType)
}

func (s *CheckoutServiceSuite) TestListPaymentMethods() {
	s.seedOrder(49, "60.00")

	methods, err := s.service.ListPaymentMethods(s.GetContext(), 49)
	s.Require().NoError(err)

	ids := make([]string, 0, len(methods))
	for _, m := range methods {
		ids = append(ids, m.ID)
	}
	s.Contains(ids, "ideal")
	s.Contains(ids, "riverty")
	s.NotContains(ids, "in3")
	s.NotContains(ids, "twint")
}

func (s *CheckoutServiceSuite) TestReportErrorValidates() {
	err := s.service.ReportError(s.GetContext(), &dto.ReportErrorRequest{})
	s.True(ierr.IsValidation(err))

	s.NoError(s.service.ReportError(s.GetContext(), &dto.ReportErrorRequest{OrderID: 42, Message: "card declined"}))
}

func (s *CheckoutServiceSuite) TestCustomerRecreatedWhenRemoteIsGone() {
	o := s.seedOrder(50, "10.00")
	s.Require().NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), &customer.Mapping{
		Email: "anna@example.test", MollieCustomerID: "cst_gone",
	}))

	id, err := NewCustomerService(s.params).EnsureCustomer(s.GetContext(), o)
	s.Require().NoError(err)
	s.NotEqual("cst_gone", id)

	mapping, err := s.GetStores().CustomerRepo.GetByEmail(s.GetContext(), o.Email)
	s.Require().NoError(err)
	s.Equal(id, mapping.MollieCustomerID)
}

func (s *CheckoutServiceSuite) TestPinnedCurrencyUsesStorefrontValue() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.GetConfig().Store.DefaultCurrency = "USD"
	s.Require().NoError(s.GetStores().CurrencyRepo.Create(s.GetContext(), &currency.Currency{
		CurrencyID: 2,
		Code:       "USD",
		Value:      d("1.1"),
		Status:     true,
	}))
	s.seedOrder(51, "50.00")

	_, err := s.service.CreatePayment(s.GetContext(), 51, &dto.CreatePaymentRequest{Method: "creditcard"})
	s.Require().NoError(err)

	calls := s.GetGateway().CallsTo("CreatePayment")
	s.Require().Len(calls, 1)
	amount := calls[0].Request.(*mollie.CreatePaymentRequest).Amount
	s.Equal("USD", amount.Currency)
	s.Equal("55.00", amount.Value)

	record, err := s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), 51)
	s.Require().NoError(err)
	s.True(record.Amount.Equal(d("55")))
	s.Equal("USD", record.Currency)
}

func (s *CheckoutServiceSuite) TestUnknownPinnedCurrency() {
	s.GetConfig().Store.DefaultCurrency = "CHF"
	s.seedOrder(52, "50.00")

	_, err := s.service.CreatePayment(s.GetContext(), 52, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Empty(s.GetGateway().Calls)
}
