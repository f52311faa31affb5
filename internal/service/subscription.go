package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/domain/subscription"
	"github.com/shopbridge/mollie-gateway/internal/email"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/idempotency"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/session"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// MandateSource is the paid first payment a subscription is set up from
type MandateSource struct {
	Paid      bool
	MandateID string
}

// SubscriptionService manages recurring payments for subscription products
type SubscriptionService interface {
	// CreateSubscriptions sets up a remote subscription per subscription product of the
	// order once its first payment created a mandate
	CreateSubscriptions(ctx context.Context, o *order.Order, source MandateSource) error
	CancelSubscription(ctx context.Context, orderID int) (*dto.SubscriptionCancelResponse, error)
	// RecordSubscriptionPayment books a recurring payment reported by the webhook
	RecordSubscriptionPayment(ctx context.Context, payment *mollie.Payment) error
	PopNotices(ctx context.Context) (*dto.NoticesResponse, error)
}

type subscriptionService struct {
	ServiceParams
	customers CustomerService
	builder   *RequestBuilder
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		customers:     NewCustomerService(params),
		builder:       NewRequestBuilder(params.Config),
	}
}

// subscriptionInterval renders the gateway interval and the start date of the first
// recurring payment
func subscriptionInterval(frequency types.SubscriptionFrequency, cycle int, now time.Time) (string, time.Time) {
	if cycle < 1 {
		cycle = 1
	}

	count, unit := cycle, "month"
	start := now.AddDate(0, cycle, 0)
	switch frequency {
	case types.SubscriptionFrequencyDay:
		count, unit = cycle, "day"
		start = now.AddDate(0, 0, cycle)
	case types.SubscriptionFrequencyWeek:
		count, unit = cycle, "week"
		start = now.AddDate(0, 0, 7*cycle)
	case types.SubscriptionFrequencySemiMonth:
		count, unit = cycle*15, "day"
		start = now.AddDate(0, 0, cycle*15)
	case types.SubscriptionFrequencyYear:
		count, unit = cycle*12, "month"
		start = now.AddDate(0, cycle*12, 0)
	}

	if count > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", count, unit), start
}

func (s *subscriptionService) CreateSubscriptions(ctx context.Context, o *order.Order, source MandateSource) error {
	plans, err := s.OrderRepo.ListSubscriptions(ctx, o.ID)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return nil
	}

	record, err := s.PaymentRecordRepo.GetLatestByOrderID(ctx, o.ID)
	if err != nil {
		return err
	}
	if record.MollieSubscriptionID != "" {
		return nil
	}

	mapping, err := s.customers.GetMapping(ctx, o.Email)
	if err != nil {
		return err
	}
	if mapping == nil {
		s.Logger.Warnw("no gateway customer for subscription order", "order_id", o.ID)
		return nil
	}

	if !source.Paid || source.MandateID == "" {
		s.Logger.Debugw("first payment has no usable mandate yet",
			"order_id", o.ID,
			"paid", source.Paid,
		)
		return nil
	}

	mandates, err := s.Gateway.ListMandates(ctx, mapping.MollieCustomerID)
	if err != nil {
		return err
	}
	mandate, ok := lo.Find(mandates, func(m *mollie.Mandate) bool {
		return m.ID == source.MandateID && m.IsValidOrPending()
	})
	if !ok {
		s.Logger.Warnw("mandate of first payment not usable",
			"order_id", o.ID,
			"mandate_id", source.MandateID,
		)
		return nil
	}

	settings := s.settings(o)
	m, err := s.orderMoney(ctx, o)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	for _, plan := range plans {
		interval, start := subscriptionInterval(plan.Frequency, plan.Cycle, now)

		req := &mollie.CreateSubscriptionRequest{
			Amount:    m.amount(m.convert(plan.Price.Add(plan.Tax))),
			Interval:  interval,
			StartDate: start.Format(types.DateFormat),
			Description: fmt.Sprintf("Order %d - %s - %s - %s - %s",
				o.ID, settings.StoreName, now.Format(types.DateFormat), interval, plan.ProductName),
			MandateID:  mandate.ID,
			WebhookURL: s.builder.WebhookURL(),
			Metadata: mollie.Metadata{
				"order_id":              o.ID,
				"order_subscription_id": plan.OrderSubscriptionID,
			},
		}
		if plan.Duration > 0 {
			req.Times = plan.Duration
		}

		key := s.IdemGen.GenerateKey(idempotency.ScopeCreateSubscription, map[string]interface{}{
			"order_id":              o.ID,
			"order_subscription_id": plan.OrderSubscriptionID,
		})
		remote, err := s.Gateway.CreateSubscription(ctx, mapping.MollieCustomerID, req, key)
		if err != nil {
			return err
		}

		next := subscription.NextPayment(plan.Frequency, now, plan.Cycle)
		record.MollieSubscriptionID = remote.ID
		record.OrderSubscriptionID = plan.OrderSubscriptionID
		record.NextPayment = &next
		record.SubscriptionEnd = subscription.EndDate(plan.Frequency, now, plan.Cycle, plan.Duration)
		if err := s.PaymentRecordRepo.Update(ctx, record); err != nil {
			return err
		}

		s.Logger.Infow("created subscription",
			"order_id", o.ID,
			"subscription_id", remote.ID,
			"interval", interval,
		)
	}
	return nil
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, orderID int) (*dto.SubscriptionCancelResponse, error) {
	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	record, err := s.PaymentRecordRepo.GetLatestByOrderID(ctx, o.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if record == nil || record.MollieSubscriptionID == "" {
		return nil, ierr.NewError("order has no subscription").
			WithHint("This order has no active subscription").
			Mark(ierr.ErrNotFound)
	}

	mapping, err := s.customers.GetMapping(ctx, o.Email)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, ierr.NewError("no gateway customer for order").
			WithHint("This order has no active subscription").
			Mark(ierr.ErrNotFound)
	}

	if _, err := s.Gateway.CancelSubscription(ctx, mapping.MollieCustomerID, record.MollieSubscriptionID); err != nil {
		detail := err.Error()
		if gwErr, ok := mollie.AsGatewayError(err); ok {
			detail = gwErr.Detail
		}
		message := fmt.Sprintf("Your subscription could not be cancelled: %s", detail)

		s.Logger.Errorw("failed to cancel subscription",
			"order_id", o.ID,
			"subscription_id", record.MollieSubscriptionID,
			"error", err,
		)
		if err := s.Session.Update(ctx, func(d *session.Data) { d.Error = message }); err != nil {
			return nil, err
		}
		return &dto.SubscriptionCancelResponse{Success: false, Message: message}, nil
	}

	if err := s.addHistory(ctx, o, o.OrderStatusID, "Subscription cancelled: "+record.MollieSubscriptionID, false); err != nil {
		return nil, err
	}

	message := "Your subscription has been cancelled"
	if err := s.Session.Update(ctx, func(d *session.Data) { d.Success = message }); err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled subscription",
		"order_id", o.ID,
		"subscription_id", record.MollieSubscriptionID,
	)
	return &dto.SubscriptionCancelResponse{Success: true, Message: message}, nil
}

func (s *subscriptionService) RecordSubscriptionPayment(ctx context.Context, payment *mollie.Payment) error {
	record, err := s.PaymentRecordRepo.GetBySubscriptionID(ctx, payment.SubscriptionID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("recurring payment for unknown subscription",
				"subscription_id", payment.SubscriptionID,
				"transaction_id", payment.ID,
			)
			return nil
		}
		return err
	}

	if !payment.IsPaid() {
		s.Logger.Infow("recurring payment not paid",
			"order_id", record.OrderID,
			"transaction_id", payment.ID,
			"status", payment.Status,
		)
		return nil
	}

	ledger, err := s.SubscriptionPaymentRepo.ListBySubscriptionID(ctx, payment.SubscriptionID)
	if err != nil {
		return err
	}
	if lo.ContainsBy(ledger, func(p *subscription.Payment) bool { return p.TransactionID == payment.ID }) {
		return nil
	}

	o, err := s.OrderRepo.Get(ctx, record.OrderID)
	if err != nil {
		return err
	}
	m, err := s.orderMoney(ctx, o)
	if err != nil {
		return err
	}

	if err := s.SubscriptionPaymentRepo.Create(ctx, &subscription.Payment{
		TransactionID:        payment.ID,
		MollieSubscriptionID: payment.SubscriptionID,
		MollieCustomerID:     payment.CustomerID,
		OrderSubscriptionID:  record.OrderSubscriptionID,
		Method:               payment.Method,
		Status:               string(payment.Status),
		Amount:               m.toDefault(types.ParseAmount(payment.Amount.Value)),
		DateCreated:          time.Now().UTC(),
	}); err != nil {
		return err
	}

	plan, err := s.OrderRepo.GetSubscription(ctx, record.OrderSubscriptionID)
	if err != nil {
		return err
	}

	if err := s.advanceNextPayment(ctx, record, plan); err != nil {
		return err
	}

	s.sendSubscriptionEmail(ctx, o, record, plan)
	return nil
}

// advanceNextPayment moves the next payment date one cycle ahead while the subscription runs
func (s *subscriptionService) advanceNextPayment(ctx context.Context, record *molliepayment.Record, plan *order.Subscription) error {
	now := time.Now().UTC()
	if record.SubscriptionEnd != nil && !record.SubscriptionEnd.After(now) {
		return nil
	}

	from := now
	if record.NextPayment != nil {
		from = *record.NextPayment
	}
	next := subscription.NextPayment(plan.Frequency, from, plan.Cycle)
	record.NextPayment = &next
	return s.PaymentRecordRepo.Update(ctx, record)
}

func (s *subscriptionService) sendSubscriptionEmail(ctx context.Context, o *order.Order, record *molliepayment.Record, plan *order.Subscription) {
	settings := s.settings(o)
	if settings.SubscriptionEmail.Subject == "" && settings.SubscriptionEmail.Body == "" {
		return
	}

	nextPayment := ""
	if record.NextPayment != nil {
		nextPayment = record.NextPayment.Format(types.DateFormat)
	}

	msg := email.Render(settings.SubscriptionEmail, o.Email, map[string]string{
		"firstname":    o.Firstname,
		"lastname":     o.Lastname,
		"next_payment": nextPayment,
		"product_name": plan.ProductName,
		"order_id":     strconv.Itoa(o.ID),
		"store_name":   lo.CoalesceOrEmpty(settings.StoreName, o.StoreName),
	})
	if _, err := s.Mailer.Send(ctx, msg); err != nil {
		s.Logger.Errorw("failed to send subscription email",
			"order_id", o.ID,
			"error", err,
		)
	}
}

func (s *subscriptionService) PopNotices(ctx context.Context) (*dto.NoticesResponse, error) {
	success, failure, err := s.Session.PopNotices(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.NoticesResponse{Success: success, Error: failure}, nil
}
