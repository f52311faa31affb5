package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/paymentlink"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type PaymentLinkServiceSuite struct {
	serviceSuite
	service PaymentLinkService
	returns ReturnService
}

func TestPaymentLinkService(t *testing.T) {
	suite.Run(t, new(PaymentLinkServiceSuite))
}

func (s *PaymentLinkServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewPaymentLinkService(s.params)
	s.returns = NewReturnService(s.params)
}

func (s *PaymentLinkServiceSuite) paidLink(orderID int, amount string) {
	paidAt := time.Now().UTC().Add(-time.Hour)
	s.Require().NoError(s.GetStores().PaymentLinkRepo.Create(s.GetContext(), &paymentlink.Link{
		PaymentLinkID: "pl_paid",
		OrderID:       orderID,
		Amount:        d(amount),
		Currency:      "EUR",
		DateCreated:   paidAt,
		DatePayment:   &paidAt,
	}))
}

func (s *PaymentLinkServiceSuite) TestSendPaymentLink() {
	s.seedOrder(130, "50.00")

	resp, err := s.service.SendPaymentLink(s.GetContext(), 130, &dto.SendPaymentLinkRequest{})
	s.Require().NoError(err)
	s.NotEmpty(resp.PaymentLinkID)
	s.NotEmpty(resp.URL)
	s.True(resp.Amount.Equal(d("50.00")))
	s.True(resp.Sent)

	calls := s.GetGateway().CallsTo("CreatePaymentLink")
	s.Require().Len(calls, 1)
	req := calls[0].Request.(*mollie.CreatePaymentLinkRequest)
	s.Equal("50.00", req.Amount.Value)
	s.Equal("Order 130", req.Description)
	s.Equal("https://gateway.example.test/v1/webhook", req.WebhookURL)

	s.Require().Len(s.GetMailer().Messages, 1)
	msg := s.GetMailer().Messages[0]
	s.Equal("Anna@Example.test", msg.ToAddress)
	s.Equal("Payment for order 130", msg.Subject)
	s.Contains(msg.Text, resp.URL)

	stored, err := s.GetStores().PaymentLinkRepo.GetByOrderID(s.GetContext(), 130)
	s.Require().NoError(err)
	s.Equal(resp.PaymentLinkID, stored.PaymentLinkID)
	s.False(stored.IsPaid())
}

func (s *PaymentLinkServiceSuite) TestPaidLinkIsNotResent() {
	s.seedOrder(131, "50.00")
	s.paidLink(131, "50.00")

	resp, err := s.service.SendPaymentLink(s.GetContext(), 131, &dto.SendPaymentLinkRequest{})
	s.Require().NoError(err)
	s.True(resp.Skipped)
	s.Equal("pl_paid", resp.PaymentLinkID)
	s.Empty(s.GetGateway().CallsTo("CreatePaymentLink"))
	s.Empty(s.GetMailer().Messages)
}

func (s *PaymentLinkServiceSuite) TestOpenModeRequestsTheDifference() {
	s.seedOrder(132, "80.00")
	s.paidLink(132, "50.00")

	resp, err := s.service.SendPaymentLink(s.GetContext(), 132, &dto.SendPaymentLinkRequest{Mode: "open"})
	s.Require().NoError(err)
	s.True(resp.Amount.Equal(d("30.00")))
	s.Equal("30.00", s.GetGateway().CallsTo("CreatePaymentLink")[0].Request.(*mollie.CreatePaymentLinkRequest).Amount.Value)
}

func (s *PaymentLinkServiceSuite) TestCustomAmount() {
	s.seedOrder(133, "80.00")

	amount := d("12.345")
	resp, err := s.service.SendPaymentLink(s.GetContext(), 133, &dto.SendPaymentLinkRequest{Amount: &amount})
	s.Require().NoError(err)
	s.True(resp.Amount.Equal(d("12.35")), resp.Amount.String())

	zero := d("0")
	_, err = s.service.SendPaymentLink(s.GetContext(), 133, &dto.SendPaymentLinkRequest{Amount: &zero})
	s.True(ierr.IsValidation(err))

	_, err = s.service.SendPaymentLink(s.GetContext(), 133, &dto.SendPaymentLinkRequest{Mode: "partial"})
	s.True(ierr.IsValidation(err))
}

func (s *PaymentLinkServiceSuite) TestMailFailureStillReturnsLink() {
	s.seedOrder(134, "50.00")
	s.GetMailer().Err = errors.New("smtp down")

	resp, err := s.service.SendPaymentLink(s.GetContext(), 134, &dto.SendPaymentLinkRequest{})
	s.Require().NoError(err)
	s.NotEmpty(resp.URL)
	s.False(resp.Sent)
}

func (s *PaymentLinkServiceSuite) TestReturnWithoutLink() {
	s.seedOrder(135, "50.00")

	resp, err := s.returns.HandlePaymentLinkReturn(s.GetContext(), 135)
	s.Require().NoError(err)
	s.False(resp.Success)
	s.Equal("https://shop.example.test/checkout/checkout", resp.RedirectURL)
}

func (s *PaymentLinkServiceSuite) TestReturnAfterPayment() {
	s.seedOrder(136, "50.00")
	sent, err := s.service.SendPaymentLink(s.GetContext(), 136, &dto.SendPaymentLinkRequest{})
	s.Require().NoError(err)

	resp, err := s.returns.HandlePaymentLinkReturn(s.GetContext(), 136)
	s.Require().NoError(err)
	s.False(resp.Success)

	paidAt := time.Now().UTC()
	s.GetGateway().PaymentLinks[sent.PaymentLinkID].PaidAt = &paidAt

	resp, err = s.returns.HandlePaymentLinkReturn(s.GetContext(), 136)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal("https://shop.example.test/checkout/success?order_id=136", resp.RedirectURL)

	o := s.reloadOrder(136)
	s.Equal(testutil.StatusProcessing, o.OrderStatusID)
	s.NotNil(o.DatePayment)

	// the webhook arriving later books nothing twice
	s.Require().NoError(NewWebhookService(s.params).HandleWebhook(s.GetContext(), sent.PaymentLinkID))
	s.Len(s.GetStores().OrderRepo.History(136), 1)
}

func (s *PaymentLinkServiceSuite) TestReturnWithoutProcessingStatus() {
	s.GetConfig().Store.ProcessingStatusID = 0
	s.GetConfig().Store.ShowOrderCanceledPage = true
	s.seedOrder(137, "50.00")
	sent, err := s.service.SendPaymentLink(s.GetContext(), 137, &dto.SendPaymentLinkRequest{})
	s.Require().NoError(err)

	paidAt := time.Now().UTC()
	s.GetGateway().PaymentLinks[sent.PaymentLinkID].PaidAt = &paidAt

	resp, err := s.returns.HandlePaymentLinkReturn(s.GetContext(), 137)
	s.Require().NoError(err)
	s.False(resp.Success)
	s.Equal("https://shop.example.test/checkout/failure?order_id=137", resp.RedirectURL)
}
