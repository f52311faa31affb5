package service

import (
	"net/http"
	"testing"

	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/testutil"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/stretchr/testify/suite"
)

type RefundServiceSuite struct {
	serviceSuite
	service  RefundService
	checkout CheckoutService
}

func TestRefundService(t *testing.T) {
	suite.Run(t, new(RefundServiceSuite))
}

func (s *RefundServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewRefundService(s.params)
	s.checkout = NewCheckoutService(s.params)
}

// paidOrder runs a checkout for a 50.00 order and marks the remote resource paid
func (s *RefundServiceSuite) paidOrder(orderID int) string {
	s.seedOrder(orderID, "50.00")
	resp, err := s.checkout.CreatePayment(s.GetContext(), orderID, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	if o, ok := s.GetGateway().Orders[resp.MollieID]; ok {
		o.Status = types.PaymentStatusPaid
		o.Embedded.Payments = []*mollie.Payment{{ID: "tr_" + resp.MollieID, Status: types.PaymentStatusPaid, Amount: o.Amount}}
	}
	if p, ok := s.GetGateway().Payments[resp.MollieID]; ok {
		p.Status = types.PaymentStatusPaid
	}
	return resp.MollieID
}

func (s *RefundServiceSuite) TestFullRefundWithoutPayment() {
	s.seedOrder(90, "50.00")

	_, err := s.service.FullRefund(s.GetContext(), 90)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *RefundServiceSuite) TestFullRefundOrderResource() {
	id := s.paidOrder(91)

	resp, err := s.service.FullRefund(s.GetContext(), 91)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.NotEmpty(resp.RefundID)
	s.True(resp.Amount.Equal(d("50.00")))
	s.Equal(testutil.StatusRefunded, resp.OrderStatusID)

	calls := s.GetGateway().CallsTo("RefundOrder")
	s.Require().Len(calls, 1)
	s.Empty(calls[0].Request.(*mollie.OrderRefundRequest).Lines)

	record, err := s.GetStores().PaymentRecordRepo.GetByMollieOrderID(s.GetContext(), 91, id)
	s.Require().NoError(err)
	s.Equal(resp.RefundID, record.RefundID)
	s.Equal(types.PaymentStatusRefunded, record.Status())

	s.Equal(testutil.StatusRefunded, s.reloadOrder(91).OrderStatusID)
	s.True(s.GetStores().OrderRepo.Stock(7).Equal(d("1")))

	list, err := s.service.ListRefunds(s.GetContext(), 91)
	s.Require().NoError(err)
	s.Equal(1, list.Total)

	_, err = s.service.FullRefund(s.GetContext(), 91)
	s.True(ierr.IsInvalidOperation(err))
	s.Len(s.GetGateway().CallsTo("RefundOrder"), 1)
}

func (s *RefundServiceSuite) TestFullRefundOfUnpaidOrder() {
	s.seedOrder(92, "50.00")
	_, err := s.checkout.CreatePayment(s.GetContext(), 92, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	_, err = s.service.FullRefund(s.GetContext(), 92)
	s.True(ierr.IsInvalidOperation(err))
	s.Empty(s.GetGateway().CallsTo("RefundOrder"))
}

func (s *RefundServiceSuite) TestFullRefundPaymentWithCreditOrder() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.GetConfig().Store.PartialCreditOrder = true
	s.paidOrder(93)

	resp, err := s.service.FullRefund(s.GetContext(), 93)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.True(resp.PartialCreditOrder)

	calls := s.GetGateway().CallsTo("RefundPayment")
	s.Require().Len(calls, 1)
	s.Equal("50.00", calls[0].Request.(*mollie.PaymentRefundRequest).Amount.Value)

	// the credit order takes care of stock
	s.True(s.GetStores().OrderRepo.Stock(7).IsZero())
}

func (s *RefundServiceSuite) TestFullRefundPaymentResourceRestocks() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.paidOrder(89)

	resp, err := s.service.FullRefund(s.GetContext(), 89)
	s.Require().NoError(err)
	s.False(resp.PartialCreditOrder)
	s.Len(s.GetGateway().CallsTo("RefundPayment"), 1)

	// payment resources carry no lines, so a full refund puts every product back
	s.True(s.GetStores().OrderRepo.Stock(7).Equal(d("1")))
}

func (s *RefundServiceSuite) TestGatewayRefusalKeepsHint() {
	s.paidOrder(94)
	s.GetGateway().Fail("RefundOrder", http.StatusUnprocessableEntity, "The order has already been refunded")

	_, err := s.service.FullRefund(s.GetContext(), 94)
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))

	s.Equal(testutil.StatusPending, s.reloadOrder(94).OrderStatusID)
}

func (s *RefundServiceSuite) TestPartialRefundValidation() {
	s.paidOrder(95)

	_, err := s.service.PartialRefund(s.GetContext(), 95, &dto.PartialRefundRequest{
		Mode:   types.RefundModeCustomAmount,
		Amount: d("0"),
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.PartialRefund(s.GetContext(), 95, &dto.PartialRefundRequest{
		Mode:  types.RefundModeProductLine,
		Lines: []dto.RefundLineRequest{{OrderProductID: 951, Quantity: 0}},
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.PartialRefund(s.GetContext(), 95, &dto.PartialRefundRequest{
		Mode:  types.RefundModeProductLine,
		Lines: []dto.RefundLineRequest{{OrderProductID: 12345, Quantity: 1}},
	})
	s.True(ierr.IsValidation(err))

	s.Empty(s.GetGateway().CallsTo("RefundOrder"))
	s.Empty(s.GetGateway().CallsTo("RefundPayment"))
}

func (s *RefundServiceSuite) TestPartialRefundProductLine() {
	id := s.paidOrder(96)

	resp, err := s.service.PartialRefund(s.GetContext(), 96, &dto.PartialRefundRequest{
		Mode:  types.RefundModeProductLine,
		Lines: []dto.RefundLineRequest{{OrderProductID: 961, Quantity: 1, StockMutation: true}},
	})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.True(resp.Amount.Equal(d("50.00")))

	calls := s.GetGateway().CallsTo("RefundOrder")
	s.Require().Len(calls, 1)
	req := calls[0].Request.(*mollie.OrderRefundRequest)
	s.Require().Len(req.Lines, 1)
	s.Equal("odl_"+id+"_1", req.Lines[0].ID)
	s.Equal(1, req.Lines[0].Quantity)

	s.Equal(testutil.StatusPartialRefund, s.reloadOrder(96).OrderStatusID)
	s.True(s.GetStores().OrderRepo.Stock(7).Equal(d("1")))

	products, err := s.GetStores().OrderRepo.ListProducts(s.GetContext(), 96)
	s.Require().NoError(err)
	s.True(products[0].StockMutation)

	// partial refunds leave room for a later full refund
	record, err := s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), 96)
	s.Require().NoError(err)
	s.False(record.HasRefund())
}

func (s *RefundServiceSuite) TestPartialRefundProductLineOnPayment() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.paidOrder(97)

	_, err := s.service.PartialRefund(s.GetContext(), 97, &dto.PartialRefundRequest{
		Mode:  types.RefundModeProductLine,
		Lines: []dto.RefundLineRequest{{OrderProductID: 971, Quantity: 1}},
	})
	s.Require().NoError(err)

	calls := s.GetGateway().CallsTo("RefundPayment")
	s.Require().Len(calls, 1)
	s.Equal("50.00", calls[0].Request.(*mollie.PaymentRefundRequest).Amount.Value)

	// no stock mutation was asked for
	s.True(s.GetStores().OrderRepo.Stock(7).IsZero())
}

func (s *RefundServiceSuite) TestPartialRefundCustomAmount() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.paidOrder(98)

	resp, err := s.service.PartialRefund(s.GetContext(), 98, &dto.PartialRefundRequest{
		Mode:   types.RefundModeCustomAmount,
		Amount: d("12.5"),
	})
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal("12.50", s.GetGateway().CallsTo("RefundPayment")[0].Request.(*mollie.PaymentRefundRequest).Amount.Value)
}

func (s *RefundServiceSuite) TestPartialRefundCustomAmountFromOrderPayment() {
	id := s.paidOrder(99)

	_, err := s.service.PartialRefund(s.GetContext(), 99, &dto.PartialRefundRequest{
		Mode:   types.RefundModeCustomAmount,
		Amount: d("5"),
	})
	s.Require().NoError(err)

	calls := s.GetGateway().CallsTo("RefundPayment")
	s.Require().Len(calls, 1)
	s.Equal("tr_"+id, calls[0].Request.(*mollie.PaymentRefundRequest).Metadata["transaction_id"])
}

func (s *RefundServiceSuite) TestPartialRefundGatewayFailure() {
	s.GetConfig().Store.UsePaymentsAPI = true
	s.paidOrder(100)
	s.GetGateway().Fail("RefundPayment", http.StatusUnprocessableEntity, "Insufficient balance")

	resp, err := s.service.PartialRefund(s.GetContext(), 100, &dto.PartialRefundRequest{
		Mode:   types.RefundModeCustomAmount,
		Amount: d("5"),
	})
	s.Require().NoError(err)
	s.False(resp.Success)
	s.Equal(couldNotRefund, resp.Message)
	s.Equal(testutil.StatusPending, s.reloadOrder(100).OrderStatusID)
}
