package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/session"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// ReturnService decides where a customer lands after leaving the hosted checkout.
// It never changes order statuses; the webhook does.
type ReturnService interface {
	HandleReturn(ctx context.Context, orderID int) (*dto.ReturnResponse, error)
	HandlePaymentLinkReturn(ctx context.Context, orderID int) (*dto.ReturnResponse, error)
}

type returnService struct {
	ServiceParams
	subscriptions SubscriptionService
}

func NewReturnService(params ServiceParams) ReturnService {
	return &returnService{
		ServiceParams: params,
		subscriptions: NewSubscriptionService(params),
	}
}

func (s *returnService) storefrontURL(path string, orderID int) string {
	base := strings.TrimSuffix(s.Config.Mollie.StorefrontURL, "/")
	if orderID > 0 {
		return fmt.Sprintf("%s/%s?order_id=%d", base, path, orderID)
	}
	return base + "/" + path
}

func (s *returnService) success(orderID int) *dto.ReturnResponse {
	return &dto.ReturnResponse{RedirectURL: s.storefrontURL("checkout/success", orderID), Success: true}
}

func (s *returnService) failure(o *order.Order) *dto.ReturnResponse {
	if o != nil && s.settings(o).ShowOrderCanceledPage {
		return &dto.ReturnResponse{RedirectURL: s.storefrontURL("checkout/failure", o.ID)}
	}
	return &dto.ReturnResponse{RedirectURL: s.storefrontURL("checkout/checkout", 0)}
}

// sessionOrderID fills in the order the checkout session started when the return
// url carries none
func (s *returnService) sessionOrderID(ctx context.Context, orderID int) int {
	if orderID > 0 {
		return orderID
	}
	data, err := s.Session.Load(ctx)
	if err != nil {
		s.Logger.Warnw("failed to load checkout session", "error", err)
		return 0
	}
	return data.OrderID
}

// gatewayFailure sends the customer to the failure page when Mollie could not be asked
func (s *returnService) gatewayFailure(ctx context.Context, o *order.Order, flow string, err error) *dto.ReturnResponse {
	s.Logger.Errorw("failed to fetch payment state on return",
		"order_id", o.ID,
		"flow", flow,
		"error", err,
	)
	s.Sentry.CaptureException(ctx, err, map[string]string{"flow": flow})
	return s.failure(o)
}

func (s *returnService) HandleReturn(ctx context.Context, orderID int) (*dto.ReturnResponse, error) {
	orderID = s.sessionOrderID(ctx, orderID)
	if orderID <= 0 {
		return s.failure(nil), nil
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return s.failure(nil), nil
		}
		return nil, err
	}

	record, err := s.PaymentRecordRepo.GetLatestByOrderID(ctx, o.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("customer returned without payment attempt", "order_id", o.ID)
			return s.failure(o), nil
		}
		return nil, err
	}

	var (
		paid   bool
		source MandateSource
	)
	switch record.Kind() {
	case types.ResourceKindOrder:
		remote, err := s.Gateway.GetOrder(ctx, record.MollieOrderID, mollie.EmbedPayments)
		if err != nil {
			return s.gatewayFailure(ctx, o, "return", err), nil
		}
		first := remote.FirstPayment()
		paid = remote.Status.IsSuccessful() || (first != nil && first.Status.IsSuccessful())
		source = MandateSource{
			Paid:      remote.IsPaid() || (first != nil && first.IsPaid()),
			MandateID: remote.MandateID(),
		}
	default:
		payment, err := s.Gateway.GetPayment(ctx, record.TransactionID)
		if err != nil {
			return s.gatewayFailure(ctx, o, "return", err), nil
		}
		paid = payment.Status.IsSuccessful()
		source = MandateSource{Paid: payment.IsPaid(), MandateID: payment.MandateID}
	}

	if err := s.subscriptions.CreateSubscriptions(ctx, o, source); err != nil {
		s.Logger.Errorw("failed to create subscriptions",
			"order_id", o.ID,
			"error", err,
		)
		s.Sentry.CaptureException(ctx, err, map[string]string{"flow": "subscription"})
	}

	if !paid {
		return s.failure(o), nil
	}

	if err := s.Session.Update(ctx, func(d *session.Data) {
		d.Issuer = ""
	}); err != nil {
		s.Logger.Warnw("failed to clear issuer from session", "order_id", o.ID, "error", err)
	}
	return s.success(o.ID), nil
}

func (s *returnService) HandlePaymentLinkReturn(ctx context.Context, orderID int) (*dto.ReturnResponse, error) {
	orderID = s.sessionOrderID(ctx, orderID)
	if orderID <= 0 {
		return s.failure(nil), nil
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return s.failure(nil), nil
		}
		return nil, err
	}

	local, err := s.PaymentLinkRepo.GetByOrderID(ctx, o.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return s.failure(o), nil
		}
		return nil, err
	}
	if local.IsPaid() {
		return s.success(o.ID), nil
	}

	remote, err := s.Gateway.GetPaymentLink(ctx, local.PaymentLinkID)
	if err != nil {
		return s.gatewayFailure(ctx, o, "payment_link_return", err), nil
	}
	if !remote.IsPaid() {
		return s.failure(o), nil
	}

	if s.settings(o).ProcessingStatusID == 0 {
		return s.failure(o), nil
	}
	if _, err := s.markPaymentLinkPaid(ctx, o, local, remote); err != nil {
		return nil, err
	}
	return s.success(o.ID), nil
}
