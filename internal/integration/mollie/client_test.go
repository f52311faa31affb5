package mollie_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopbridge/mollie-gateway/internal/config"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/sentry"
	"github.com/shopbridge/mollie-gateway/internal/testutil"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/stretchr/testify/suite"
)

type ClientSuite struct {
	suite.Suite
	http   *testutil.MockHTTPClient
	client mollie.Gateway
	ctx    context.Context
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	cfg := config.GetDefaultConfig()
	cfg.Mollie.APIKey = "test_key"
	cfg.Mollie.BaseURL = "https://api.mollie.test/v2"

	log := logger.NewNoopLogger()
	s.http = testutil.NewMockHTTPClient()
	s.client = mollie.NewClient(cfg, s.http, sentry.NewSentryService(cfg, log), log)
	s.ctx = context.Background()
}

func (s *ClientSuite) TestGetOrderEmbedsAndParses() {
	s.http.RegisterResponse("GET /orders/ord_abc", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body: []byte(`{
			"id": "ord_abc",
			"status": "paid",
			"amount": {"currency": "EUR", "value": "10.00"},
			"metadata": {"order_id": 12},
			"lines": [{"id": "odl_1", "type": "physical", "name": "Shirt", "quantity": 1,
				"unitPrice": {"currency": "EUR", "value": "10.00"},
				"totalAmount": {"currency": "EUR", "value": "10.00"},
				"vatRate": "21.00", "vatAmount": {"currency": "EUR", "value": "1.74"},
				"metadata": {"order_product_id": "33"}}],
			"_embedded": {"payments": [{"id": "tr_1", "status": "paid", "sequenceType": "recurring", "mandateId": "mdt_1"}]}
		}`),
	})

	o, err := s.client.GetOrder(s.ctx, "ord_abc", mollie.EmbedPayments)
	s.Require().NoError(err)
	s.True(o.IsPaid())
	s.False(o.IsShipping())
	s.Equal(12, mollie.MetadataInt(o.Metadata, "order_id"))
	s.Equal("tr_1", o.FirstPayment().ID)
	s.True(o.HasSequenceTypeRecurring())
	s.Equal("mdt_1", o.MandateID())

	line, ok := o.LineByOrderProductID(33)
	s.Require().True(ok)
	s.Equal("odl_1", line.ID)

	reqs := s.http.Requests()
	s.Require().Len(reqs, 1)
	s.Equal("https://api.mollie.test/v2/orders/ord_abc?embed=payments", reqs[0].URL)
	s.Equal("Bearer test_key", reqs[0].Headers["Authorization"])
}

func (s *ClientSuite) TestCreatePaymentSendsIdempotencyKey() {
	s.http.RegisterResponse("POST /payments", testutil.MockResponse{
		StatusCode: http.StatusCreated,
		Body:       []byte(`{"id": "tr_new", "status": "open", "_links": {"checkout": {"href": "https://pay.test/tr_new"}}}`),
	})

	p, err := s.client.CreatePayment(s.ctx, &mollie.CreatePaymentRequest{
		Amount:      mollie.Amount{Currency: "EUR", Value: "5.00"},
		Description: "Order 5",
	}, "create_payment-abc")
	s.Require().NoError(err)
	s.Equal("https://pay.test/tr_new", p.CheckoutURL())
	s.True(p.IsOpen())

	reqs := s.http.Requests()
	s.Require().Len(reqs, 1)
	s.Equal("create_payment-abc", reqs[0].Headers["Idempotency-Key"])

	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(reqs[0].Body, &body))
	s.Equal("5.00", body["amount"].(map[string]interface{})["value"])
}

func (s *ClientSuite) TestRefundAllSendsEmptyLines() {
	s.http.RegisterResponse("POST /orders/ord_1/refunds", testutil.MockResponse{
		StatusCode: http.StatusCreated,
		Body:       []byte(`{"id": "re_1", "status": "pending", "amount": {"currency": "EUR", "value": "10.00"}}`),
	})

	r, err := s.client.RefundOrder(s.ctx, "ord_1", &mollie.OrderRefundRequest{}, "")
	s.Require().NoError(err)
	s.Equal("re_1", r.ID)
	s.Equal(types.RefundStatusPending, r.Status)

	reqs := s.http.Requests()
	s.Require().Len(reqs, 1)
	s.JSONEq(`{"lines": []}`, string(reqs[0].Body))
}

func (s *ClientSuite) TestProblemBecomesGatewayError() {
	s.http.RegisterResponse("POST /orders", testutil.MockResponse{
		StatusCode: http.StatusUnprocessableEntity,
		Body:       []byte(`{"status": 422, "title": "Unprocessable Entity", "detail": "The amount is lower than the minimum", "field": "amount"}`),
	})

	_, err := s.client.CreateOrder(s.ctx, &mollie.CreateOrderRequest{}, "")
	s.Require().Error(err)
	s.True(ierr.IsHTTPClient(err))

	gwErr, ok := mollie.AsGatewayError(err)
	s.Require().True(ok)
	s.Equal(422, gwErr.StatusCode)
	s.Equal("The amount is lower than the minimum", gwErr.Detail)
	s.Equal("amount", gwErr.Field)
}

func (s *ClientSuite) TestPaymentPredicates() {
	refunded := &mollie.Payment{
		Status:         types.PaymentStatusPaid,
		AmountRefunded: &mollie.Amount{Currency: "EUR", Value: "2.50"},
	}
	s.True(refunded.HasRefunds())
	s.Equal("2.5", refunded.AmountRefundedValue().String())

	open := &mollie.Payment{Status: types.PaymentStatusOpen}
	s.False(open.IsPaid())
	s.False(open.HasRefunds())
	s.False(open.HasSequenceTypeRecurring())
}
