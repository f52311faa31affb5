package service

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/domain/paymentlink"
	"github.com/shopbridge/mollie-gateway/internal/email"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/idempotency"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

const paymentLinkModeOpen = "open"

// PaymentLinkService sends hosted payment links for orders taken in the admin
type PaymentLinkService interface {
	SendPaymentLink(ctx context.Context, orderID int, req *dto.SendPaymentLinkRequest) (*dto.PaymentLinkResponse, error)
}

type paymentLinkService struct {
	ServiceParams
	builder *RequestBuilder
}

func NewPaymentLinkService(params ServiceParams) PaymentLinkService {
	return &paymentLinkService{
		ServiceParams: params,
		builder:       NewRequestBuilder(params.Config),
	}
}

func (s *paymentLinkService) SendPaymentLink(ctx context.Context, orderID int, req *dto.SendPaymentLinkRequest) (*dto.PaymentLinkResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	settings := s.settings(o)
	m, err := s.orderMoney(ctx, o)
	if err != nil {
		return nil, err
	}
	total := m.convert(o.Total)

	existing, err := s.PaymentLinkRepo.GetByOrderID(ctx, o.ID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	paid := existing != nil && existing.IsPaid()

	if paid && req.Amount == nil && total.Equal(existing.Amount) {
		return &dto.PaymentLinkResponse{
			PaymentLinkID: existing.PaymentLinkID,
			Amount:        existing.Amount,
			Currency:      existing.Currency,
			Skipped:       true,
		}, nil
	}

	amount := total
	if req.Amount != nil {
		amount = m.round(*req.Amount)
	} else if paid && req.Mode == paymentLinkModeOpen {
		amount = total.Sub(existing.Amount)
	}
	if !amount.IsPositive() {
		return nil, ierr.NewError("nothing left to pay").
			WithHint("The order has no open amount").
			Mark(ierr.ErrInvalidOperation)
	}

	key := s.IdemGen.GenerateKey(idempotency.ScopeCreatePaymentLink, map[string]interface{}{
		"order_id": o.ID,
		"amount":   amount.String(),
		"previous": lo.TernaryF(existing != nil, func() string { return existing.PaymentLinkID }, func() string { return "" }),
	})
	link, err := s.Gateway.CreatePaymentLink(ctx, &mollie.CreatePaymentLinkRequest{
		Description: PaymentDescription(settings.PaymentDescription, o.ID),
		Amount:      m.amount(amount),
		RedirectURL: s.builder.PaymentLinkReturnURL(o.ID),
		WebhookURL:  s.builder.WebhookURL(),
	}, key)
	if err != nil {
		return nil, err
	}

	if err := s.PaymentLinkRepo.Create(ctx, &paymentlink.Link{
		PaymentLinkID: link.ID,
		OrderID:       o.ID,
		Amount:        amount,
		Currency:      m.currency,
		DateCreated:   time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	resp := &dto.PaymentLinkResponse{
		PaymentLinkID: link.ID,
		URL:           link.URL(),
		Amount:        amount,
		Currency:      m.currency,
	}

	msg := email.Render(settings.PaymentLinkEmail, o.Email, map[string]string{
		"firstname":    o.Firstname,
		"lastname":     o.Lastname,
		"amount":       types.FormatAmount(amount, m.currency) + " " + m.currency,
		"order_id":     strconv.Itoa(o.ID),
		"store_name":   lo.CoalesceOrEmpty(settings.StoreName, o.StoreName),
		"payment_link": link.URL(),
	})
	result, err := s.Mailer.Send(ctx, msg)
	if err != nil {
		s.Logger.Errorw("failed to send payment link email",
			"order_id", o.ID,
			"payment_link_id", link.ID,
			"error", err,
		)
	} else {
		resp.Sent = result.Sent
	}

	s.Logger.Infow("created payment link",
		"order_id", o.ID,
		"payment_link_id", link.ID,
		"amount", amount.String(),
	)
	return resp, nil
}

// markPaymentLinkPaid records the payment of a link once. It reports false when the
// link was already booked.
func (p ServiceParams) markPaymentLinkPaid(ctx context.Context, o *order.Order, local *paymentlink.Link, remote *mollie.PaymentLink) (bool, error) {
	if local.IsPaid() || !remote.IsPaid() {
		return false, nil
	}

	paidAt := remote.PaidAt.UTC()
	if err := p.PaymentLinkRepo.SetDatePayment(ctx, local.PaymentLinkID, paidAt); err != nil {
		return false, err
	}
	if err := p.OrderRepo.SetDatePayment(ctx, o.ID, paidAt); err != nil {
		return false, err
	}
	local.DatePayment = &paidAt

	settings := p.settings(o)
	if settings.ProcessingStatusID == 0 {
		p.Logger.Warnw("payment link paid but no processing status configured",
			"order_id", o.ID,
			"payment_link_id", local.PaymentLinkID,
		)
		return true, nil
	}
	if err := p.addHistory(ctx, o, settings.ProcessingStatusID, "Paid via payment link", true); err != nil {
		return false, err
	}
	return true, nil
}
