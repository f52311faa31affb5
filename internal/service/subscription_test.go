package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestSubscriptionInterval(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		frequency types.SubscriptionFrequency
		cycle     int
		interval  string
		start     time.Time
	}{
		{"single day", types.SubscriptionFrequencyDay, 1, "1 day", now.AddDate(0, 0, 1)},
		{"days", types.SubscriptionFrequencyDay, 3, "3 days", now.AddDate(0, 0, 3)},
		{"weeks", types.SubscriptionFrequencyWeek, 2, "2 weeks", now.AddDate(0, 0, 14)},
		{"semi month", types.SubscriptionFrequencySemiMonth, 1, "15 days", now.AddDate(0, 0, 15)},
		{"month", types.SubscriptionFrequencyMonth, 1, "1 month", now.AddDate(0, 1, 0)},
		{"year", types.SubscriptionFrequencyYear, 1, "12 months", now.AddDate(1, 0, 0)},
		{"zero cycle", types.SubscriptionFrequencyMonth, 0, "1 month", now.AddDate(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval, start := subscriptionInterval(tt.frequency, tt.cycle, now)
			assert.Equal(t, tt.interval, interval)
			assert.True(t, tt.start.Equal(start), "want %s, got %s", tt.start, start)
		})
	}
}

type SubscriptionServiceSuite struct {
	serviceSuite
	service  SubscriptionService
	checkout CheckoutService
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.service = NewSubscriptionService(s.params)
	s.checkout = NewCheckoutService(s.params)
}

// subscriptionOrder checks out an order with one monthly plan and returns the gateway customer id
func (s *SubscriptionServiceSuite) subscriptionOrder(orderID int) (*order.Order, string) {
	o := s.seedOrder(orderID, "10.00")
	s.GetStores().OrderRepo.SeedSubscriptions(orderID, []*order.Subscription{{
		OrderSubscriptionID: orderID * 10,
		OrderProductID:      orderID*10 + 1,
		ProductName:         "Coffee club",
		Price:               d("10"),
		Frequency:           types.SubscriptionFrequencyMonth,
		Cycle:               1,
	}})

	_, err := s.checkout.CreatePayment(s.GetContext(), orderID, &dto.CreatePaymentRequest{Method: "ideal"})
	s.Require().NoError(err)

	mapping, err := s.GetStores().CustomerRepo.GetByEmail(s.GetContext(), o.Email)
	s.Require().NoError(err)
	return o, mapping.MollieCustomerID
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptions() {
	o, customerID := s.subscriptionOrder(110)
	s.GetGateway().Mandates[customerID] = []*mollie.Mandate{{ID: "mdt_1", Status: types.MandateStatusValid, Method: "directdebit"}}

	source := MandateSource{Paid: true, MandateID: "mdt_1"}
	s.Require().NoError(s.service.CreateSubscriptions(s.GetContext(), o, source))

	calls := s.GetGateway().CallsTo("CreateSubscription")
	s.Require().Len(calls, 1)
	req := calls[0].Request.(*mollie.CreateSubscriptionRequest)
	s.Equal("1 month", req.Interval)
	s.Equal("10.00", req.Amount.Value)
	s.Equal("mdt_1", req.MandateID)
	s.Zero(req.Times)
	s.Contains(req.Description, "Coffee club")

	record, err := s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), 110)
	s.Require().NoError(err)
	s.NotEmpty(record.MollieSubscriptionID)
	s.Equal(1100, record.OrderSubscriptionID)
	s.NotNil(record.NextPayment)
	s.Nil(record.SubscriptionEnd)

	// a second paid webhook keeps the existing subscription
	s.Require().NoError(s.service.CreateSubscriptions(s.GetContext(), o, source))
	s.Len(s.GetGateway().CallsTo("CreateSubscription"), 1)
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionsNeedsUsableMandate() {
	o, customerID := s.subscriptionOrder(111)
	s.GetGateway().Mandates[customerID] = []*mollie.Mandate{{ID: "mdt_1", Status: types.MandateStatusInvalid}}

	s.Require().NoError(s.service.CreateSubscriptions(s.GetContext(), o, MandateSource{Paid: false, MandateID: "mdt_1"}))
	s.Require().NoError(s.service.CreateSubscriptions(s.GetContext(), o, MandateSource{Paid: true}))
	s.Require().NoError(s.service.CreateSubscriptions(s.GetContext(), o, MandateSource{Paid: true, MandateID: "mdt_1"}))

	s.Empty(s.GetGateway().CallsTo("CreateSubscription"))
}

func (s *SubscriptionServiceSuite) TestCancelWithoutSubscription() {
	s.seedOrder(112, "10.00")

	_, err := s.service.CancelSubscription(s.GetContext(), 112)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) activeSubscription(orderID int) *molliepayment.Record {
	o, customerID := s.subscriptionOrder(orderID)
	s.GetGateway().Mandates[customerID] = []*mollie.Mandate{{ID: "mdt_1", Status: types.MandateStatusValid}}
	s.Require().NoError(s.service.CreateSubscriptions(s.GetContext(), o, MandateSource{Paid: true, MandateID: "mdt_1"}))

	record, err := s.GetStores().PaymentRecordRepo.GetLatestByOrderID(s.GetContext(), orderID)
	s.Require().NoError(err)
	return record
}

func (s *SubscriptionServiceSuite) TestCancelSubscription() {
	record := s.activeSubscription(113)

	resp, err := s.service.CancelSubscription(s.GetContext(), 113)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Len(s.GetGateway().CallsTo("CancelSubscription"), 1)

	history := s.GetStores().OrderRepo.History(113)
	s.Require().NotEmpty(history)
	last := history[len(history)-1]
	s.Equal("Subscription cancelled: "+record.MollieSubscriptionID, last.Comment)
	s.Equal(s.reloadOrder(113).OrderStatusID, last.OrderStatusID)

	notices, err := s.service.PopNotices(s.GetContext())
	s.Require().NoError(err)
	s.Equal(resp.Message, notices.Success)
	s.Empty(notices.Error)

	notices, err = s.service.PopNotices(s.GetContext())
	s.Require().NoError(err)
	s.Empty(notices.Success)
}

func (s *SubscriptionServiceSuite) TestCancelSubscriptionFailure() {
	s.activeSubscription(114)
	s.GetGateway().Fail("CancelSubscription", http.StatusGone, "The subscription has been canceled")

	resp, err := s.service.CancelSubscription(s.GetContext(), 114)
	s.Require().NoError(err)
	s.False(resp.Success)
	s.Contains(resp.Message, "The subscription has been canceled")
	s.Empty(s.GetStores().OrderRepo.History(114))

	notices, err := s.service.PopNotices(s.GetContext())
	s.Require().NoError(err)
	s.Equal(resp.Message, notices.Error)
}

func (s *SubscriptionServiceSuite) TestRecordSubscriptionPayment() {
	record := s.activeSubscription(115)
	next := *record.NextPayment

	payment := &mollie.Payment{
		ID:             "tr_recurring1",
		Status:         types.PaymentStatusPaid,
		Amount:         mollie.Amount{Currency: "EUR", Value: "10.00"},
		Method:         "directdebit",
		CustomerID:     "cst_1",
		SubscriptionID: record.MollieSubscriptionID,
		SequenceType:   types.SequenceTypeRecurring,
	}
	s.Require().NoError(s.service.RecordSubscriptionPayment(s.GetContext(), payment))

	ledger, err := s.GetStores().SubscriptionPaymentRepo.ListBySubscriptionID(s.GetContext(), record.MollieSubscriptionID)
	s.Require().NoError(err)
	s.Require().Len(ledger, 1)
	s.Equal(1150, ledger[0].OrderSubscriptionID)
	s.True(ledger[0].Amount.Equal(d("10")))

	updated, err := s.GetStores().PaymentRecordRepo.GetBySubscriptionID(s.GetContext(), record.MollieSubscriptionID)
	s.Require().NoError(err)
	s.True(next.AddDate(0, 1, 0).Equal(*updated.NextPayment))

	s.Require().Len(s.GetMailer().Messages, 1)
	msg := s.GetMailer().Messages[0]
	s.Equal("Subscription payment for order 115", msg.Subject)
	s.Contains(msg.Text, "Coffee club")

	// the same payment reported twice is booked once
	s.Require().NoError(s.service.RecordSubscriptionPayment(s.GetContext(), payment))
	ledger, err = s.GetStores().SubscriptionPaymentRepo.ListBySubscriptionID(s.GetContext(), record.MollieSubscriptionID)
	s.Require().NoError(err)
	s.Len(ledger, 1)
	s.Len(s.GetMailer().Messages, 1)
}

func (s *SubscriptionServiceSuite) TestRecurringPaymentThroughWebhook() {
	record := s.activeSubscription(116)
	s.GetGateway().Payments["tr_recurring2"] = &mollie.Payment{
		ID:             "tr_recurring2",
		Status:         types.PaymentStatusOpen,
		Amount:         mollie.Amount{Currency: "EUR", Value: "10.00"},
		SubscriptionID: record.MollieSubscriptionID,
	}

	webhooks := NewWebhookService(s.params)
	s.Require().NoError(webhooks.HandleWebhook(s.GetContext(), "tr_recurring2"))

	ledger, err := s.GetStores().SubscriptionPaymentRepo.ListBySubscriptionID(s.GetContext(), record.MollieSubscriptionID)
	s.Require().NoError(err)
	s.Empty(ledger)

	s.GetGateway().Payments["tr_recurring2"].Status = types.PaymentStatusPaid
	s.Require().NoError(webhooks.HandleWebhook(s.GetContext(), "tr_recurring2"))

	ledger, err = s.GetStores().SubscriptionPaymentRepo.ListBySubscriptionID(s.GetContext(), record.MollieSubscriptionID)
	s.Require().NoError(err)
	s.Len(ledger, 1)
}

func (s *SubscriptionServiceSuite) TestRecurringPaymentForUnknownSubscription() {
	s.NoError(s.service.RecordSubscriptionPayment(s.GetContext(), &mollie.Payment{
		ID:             "tr_x",
		Status:         types.PaymentStatusPaid,
		SubscriptionID: "sub_unknown",
	}))
}
