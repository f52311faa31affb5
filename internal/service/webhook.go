package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// WebhookService reconciles local orders with the remote resources the gateway reports on
type WebhookService interface {
	// HandleWebhook only fails for an empty id. Processing errors are logged and
	// reported so the gateway does not retry them.
	HandleWebhook(ctx context.Context, id string) error
}

type webhookService struct {
	ServiceParams
	subscriptions SubscriptionService
	shipments     ShipmentService
}

func NewWebhookService(params ServiceParams) WebhookService {
	return &webhookService{
		ServiceParams: params,
		subscriptions: NewSubscriptionService(params),
		shipments:     NewShipmentService(params),
	}
}

func (s *webhookService) HandleWebhook(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("webhook id is required").
			WithHint("No resource id was posted").
			Mark(ierr.ErrValidation)
	}

	resource := types.WebhookResourceFromID(id)
	s.Sentry.AddBreadcrumb(ctx, "webhook", "mollie webhook received", map[string]interface{}{
		"id":       id,
		"resource": string(resource),
	})

	var err error
	switch resource {
	case types.WebhookResourceOrder:
		err = s.handleOrder(ctx, id)
	case types.WebhookResourcePayment:
		err = s.handlePayment(ctx, id)
	default:
		err = s.handlePaymentLink(ctx, id)
	}

	if err != nil {
		s.Logger.Errorw("failed to process webhook",
			"id", id,
			"resource", resource,
			"error", err,
		)
		s.Sentry.CaptureException(ctx, err, map[string]string{
			"flow":     "webhook",
			"resource": string(resource),
		})
	}
	return nil
}

func (s *webhookService) handlePayment(ctx context.Context, id string) error {
	payment, err := s.Gateway.GetPayment(ctx, id, mollie.EmbedRefunds)
	if err != nil {
		return err
	}

	if payment.SubscriptionID != "" {
		return s.subscriptions.RecordSubscriptionPayment(ctx, payment)
	}

	orderID := mollie.MetadataInt(payment.Metadata, "order_id")
	if payment.OrderID != "" {
		remote, err := s.Gateway.GetOrder(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		orderID = mollie.MetadataInt(remote.Metadata, "order_id")
	}
	if orderID == 0 {
		return ierr.NewError("payment carries no order id").
			WithReportableDetails(map[string]any{"transaction_id": payment.ID}).
			Mark(ierr.ErrValidation)
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	settings := s.settings(o)

	var record *molliepayment.Record
	if payment.OrderID != "" {
		record, err = s.PaymentRecordRepo.GetByMollieOrderID(ctx, o.ID, payment.OrderID)
	} else {
		record, err = s.PaymentRecordRepo.GetByTransactionID(ctx, o.ID, payment.ID)
	}
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("webhook for unknown payment attempt",
				"order_id", o.ID,
				"transaction_id", payment.ID,
			)
			return nil
		}
		return err
	}

	record.TransactionID = payment.ID
	record.BankStatus = string(payment.Status)
	record.Amount = types.ParseAmount(payment.Amount.Value)
	record.Currency = payment.Amount.Currency

	if o.OrderStatusID != 0 {
		if payment.AmountRefundedValue().IsPositive() {
			record.BankStatus = string(types.PaymentStatusRefunded)
		} else if refundCanceled(payment) && o.OrderStatusID == settings.RefundStatusID {
			record.RefundID = ""
			if err := s.addHistory(ctx, o, settings.ProcessingStatusID, "Refund cancelled", true); err != nil {
				return err
			}
		}
	}

	if err := s.PaymentRecordRepo.Update(ctx, record); err != nil {
		return err
	}

	_, err = s.advanceOrder(ctx, o, payment.Status)
	return err
}

func refundCanceled(p *mollie.Payment) bool {
	return lo.ContainsBy(p.Embedded.Refunds, func(r *mollie.Refund) bool {
		return r.Status == types.RefundStatusCanceled
	})
}

func (s *webhookService) handleOrder(ctx context.Context, id string) error {
	remote, err := s.Gateway.GetOrder(ctx, id, mollie.EmbedPayments)
	if err != nil {
		return err
	}

	orderID := mollie.MetadataInt(remote.Metadata, "order_id")
	if orderID == 0 {
		return ierr.NewError("order resource carries no order id").
			WithReportableDetails(map[string]any{"mollie_order_id": remote.ID}).
			Mark(ierr.ErrValidation)
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	record, err := s.recordForOrder(ctx, o, remote)
	if err != nil {
		return err
	}

	record.BankStatus = string(remote.Status)
	record.Amount = types.ParseAmount(remote.Amount.Value)
	record.Currency = remote.Amount.Currency
	if p := remote.FirstPayment(); p != nil {
		record.TransactionID = p.ID
		record.BankStatus = string(p.Status)
		record.Amount = types.ParseAmount(p.Amount.Value)
		if o.OrderStatusID != 0 && p.AmountRefundedValue().IsPositive() {
			record.BankStatus = string(types.PaymentStatusRefunded)
		}
	}
	if err := s.PaymentRecordRepo.Update(ctx, record); err != nil {
		return err
	}

	advanced, err := s.advanceOrder(ctx, o, remote.Status)
	if err != nil {
		return err
	}
	if !advanced {
		return nil
	}

	if err := s.shipments.ShipPaidOrder(ctx, o, remote); err != nil {
		// the payment is booked, a missing shipment is fixed from the admin
		s.Logger.Errorw("automatic shipment failed",
			"order_id", o.ID,
			"mollie_order_id", remote.ID,
			"error", err,
		)
	}
	return nil
}

// recordForOrder finds the attempt of a remote order, binding a new attempt when the
// order resource was created outside the checkout flow
func (s *webhookService) recordForOrder(ctx context.Context, o *order.Order, remote *mollie.Order) (*molliepayment.Record, error) {
	record, err := s.PaymentRecordRepo.GetByMollieOrderID(ctx, o.ID, remote.ID)
	if err == nil {
		return record, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	record = &molliepayment.Record{
		OrderID:       o.ID,
		MollieOrderID: remote.ID,
		Method:        remote.Method,
		BankStatus:    string(remote.Status),
		Amount:        types.ParseAmount(remote.Amount.Value),
		Currency:      remote.Amount.Currency,
	}
	if err := s.PaymentRecordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.Logger.Infow("bound late payment attempt",
		"order_id", o.ID,
		"mollie_order_id", remote.ID,
		"payment_attempt", record.PaymentAttempt,
	)
	return record, nil
}

func (s *webhookService) handlePaymentLink(ctx context.Context, id string) error {
	remote, err := s.Gateway.GetPaymentLink(ctx, id)
	if err != nil {
		return err
	}
	if !remote.IsPaid() {
		return nil
	}

	local, err := s.PaymentLinkRepo.Get(ctx, remote.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("webhook for unknown payment link", "payment_link_id", remote.ID)
			return nil
		}
		return err
	}

	o, err := s.OrderRepo.Get(ctx, local.OrderID)
	if err != nil {
		return err
	}

	_, err = s.markPaymentLinkPaid(ctx, o, local, remote)
	return err
}
