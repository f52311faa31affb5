package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/domain/refund"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/idempotency"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const couldNotRefund = "could not refund"

// RefundService issues refunds for paid orders
type RefundService interface {
	FullRefund(ctx context.Context, orderID int) (*dto.RefundResponse, error)
	PartialRefund(ctx context.Context, orderID int, req *dto.PartialRefundRequest) (*dto.RefundResponse, error)
	ListRefunds(ctx context.Context, orderID int) (*dto.ListResponse[*dto.RefundItemResponse], error)
}

type refundService struct {
	ServiceParams
}

func NewRefundService(params ServiceParams) RefundService {
	return &refundService{ServiceParams: params}
}

// refundableRecord returns the latest attempt of an order when no full refund was issued for it yet
func (s *refundService) refundableRecord(ctx context.Context, orderID int) (*molliepayment.Record, error) {
	record, err := s.PaymentRecordRepo.GetLatestByOrderID(ctx, orderID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("no payment found for order").
				WithHint("This order was not paid through Mollie").
				WithOrderID(orderID).
				Mark(ierr.ErrInvalidOperation)
		}
		return nil, err
	}
	if record.HasRefund() {
		return nil, ierr.NewError("order already refunded").
			WithHint("This order has already been refunded").
			WithReportableDetails(map[string]any{"order_id": orderID, "refund_id": record.RefundID}).
			Mark(ierr.ErrInvalidOperation)
	}
	return record, nil
}

func (s *refundService) FullRefund(ctx context.Context, orderID int) (*dto.RefundResponse, error) {
	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	record, err := s.refundableRecord(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	settings := s.settings(o)
	m, err := s.orderMoney(ctx, o)
	if err != nil {
		return nil, err
	}
	key := s.IdemGen.GenerateKey(idempotency.ScopeRefund, map[string]interface{}{
		"order_id": o.ID,
		"attempt":  record.PaymentAttempt,
		"kind":     "full",
	})

	var remoteRefund *mollie.Refund
	switch record.Kind() {
	case types.ResourceKindOrder:
		remote, err := s.Gateway.GetOrder(ctx, record.MollieOrderID)
		if err != nil {
			return nil, err
		}
		if !remote.IsPaid() && !remote.IsShipping() && !remote.IsCompleted() {
			return nil, notRefundable(o.ID, remote.Status)
		}
		remoteRefund, err = s.Gateway.RefundOrder(ctx, remote.ID, &mollie.OrderRefundRequest{
			Metadata: mollie.Metadata{"order_id": o.ID},
		}, key)
		if err != nil {
			return nil, s.refundError(ctx, o, err)
		}
	default:
		payment, err := s.Gateway.GetPayment(ctx, record.TransactionID)
		if err != nil {
			return nil, err
		}
		if !payment.IsPaid() {
			return nil, notRefundable(o.ID, payment.Status)
		}
		remoteRefund, err = s.Gateway.RefundPayment(ctx, payment.ID, &mollie.PaymentRefundRequest{
			Amount: m.amount(m.convert(o.Total)),
			Metadata: mollie.Metadata{
				"order_id":       o.ID,
				"transaction_id": payment.ID,
			},
		}, key)
		if err != nil {
			return nil, s.refundError(ctx, o, err)
		}
	}

	if remoteRefund == nil || remoteRefund.ID == "" {
		return &dto.RefundResponse{Success: false, Message: couldNotRefund}, nil
	}

	record.RefundID = remoteRefund.ID
	record.BankStatus = string(types.PaymentStatusRefunded)
	if err := s.PaymentRecordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	amount, err := s.storeRefund(ctx, o, record, remoteRefund)
	if err != nil {
		return nil, err
	}

	if settings.RefundStatusID != 0 {
		if err := s.addHistory(ctx, o, settings.RefundStatusID, "Refunded: "+remoteRefund.ID, true); err != nil {
			return nil, err
		}
	}

	resp := &dto.RefundResponse{
		Success:       true,
		RefundID:      remoteRefund.ID,
		RefundStatus:  string(remoteRefund.Status),
		Amount:        amount,
		Currency:      remoteRefund.Amount.Currency,
		OrderStatusID: settings.RefundStatusID,
	}

	if settings.PartialCreditOrder {
		resp.PartialCreditOrder = true
		return resp, nil
	}

	products, err := s.OrderRepo.ListProducts(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if err := s.restock(ctx, p, p.Quantity); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *refundService) PartialRefund(ctx context.Context, orderID int, req *dto.PartialRefundRequest) (*dto.RefundResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	record, err := s.refundableRecord(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	settings := s.settings(o)

	var (
		remoteRefund *mollie.Refund
		refunded     []*order.Product
		quantities   = map[int]decimal.Decimal{}
	)

	switch req.Mode {
	case types.RefundModeProductLine:
		products, err := s.OrderRepo.ListProducts(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		byID := lo.KeyBy(products, func(p *order.Product) int { return p.OrderProductID })

		selected := lo.Filter(req.Lines, func(l dto.RefundLineRequest, _ int) bool { return l.Quantity > 0 })
		for _, l := range selected {
			p, ok := byID[l.OrderProductID]
			if !ok {
				return nil, ierr.NewError("order product not found").
					WithHintf("Product line %d does not belong to this order", l.OrderProductID).
					Mark(ierr.ErrValidation)
			}
			if l.StockMutation {
				refunded = append(refunded, p)
				quantities[p.OrderProductID] = decimal.NewFromInt(int64(l.Quantity))
			}
		}

		remoteRefund, err = s.refundLines(ctx, o, record, selected, byID)
		if err != nil {
			return s.partialRefundFailed(ctx, o, err)
		}
	default:
		remoteRefund, err = s.refundAmount(ctx, o, record, req.Amount)
		if err != nil {
			return s.partialRefundFailed(ctx, o, err)
		}
	}

	if remoteRefund == nil || remoteRefund.ID == "" {
		return &dto.RefundResponse{Success: false, Message: couldNotRefund}, nil
	}

	amount, err := s.storeRefund(ctx, o, record, remoteRefund)
	if err != nil {
		return nil, err
	}

	if settings.PartialRefundStatusID != 0 {
		if err := s.addHistory(ctx, o, settings.PartialRefundStatusID, "Partially refunded: "+remoteRefund.ID, true); err != nil {
			return nil, err
		}
	}

	resp := &dto.RefundResponse{
		Success:       true,
		RefundID:      remoteRefund.ID,
		RefundStatus:  string(remoteRefund.Status),
		Amount:        amount,
		Currency:      remoteRefund.Amount.Currency,
		OrderStatusID: settings.PartialRefundStatusID,
	}

	if req.Mode != types.RefundModeProductLine {
		return resp, nil
	}
	if settings.PartialCreditOrder {
		resp.PartialCreditOrder = true
		return resp, nil
	}
	for _, p := range refunded {
		if err := s.restock(ctx, p, quantities[p.OrderProductID]); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// refundLines refunds order lines; attempts made through the payment API get the line
// value refunded as an amount
func (s *refundService) refundLines(ctx context.Context, o *order.Order, record *molliepayment.Record, lines []dto.RefundLineRequest, products map[int]*order.Product) (*mollie.Refund, error) {
	orderProductIDs := lo.Map(lines, func(l dto.RefundLineRequest, _ int) string { return cast.ToString(l.OrderProductID) })
	key := s.IdemGen.GenerateKey(idempotency.ScopeRefund, map[string]interface{}{
		"order_id": o.ID,
		"attempt":  record.PaymentAttempt,
		"lines": strings.Join(lo.Map(lines, func(l dto.RefundLineRequest, _ int) string {
			return cast.ToString(l.OrderProductID) + "x" + cast.ToString(l.Quantity)
		}), ","),
	})

	if record.Kind() != types.ResourceKindOrder {
		m, err := s.orderMoney(ctx, o)
		if err != nil {
			return nil, err
		}
		amount := decimal.Zero
		for _, l := range lines {
			p := products[l.OrderProductID]
			amount = amount.Add(p.Price.Add(p.Tax).Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		return s.Gateway.RefundPayment(ctx, record.TransactionID, &mollie.PaymentRefundRequest{
			Amount: m.amount(m.convert(amount)),
			Metadata: mollie.Metadata{
				"order_id":         o.ID,
				"transaction_id":   record.TransactionID,
				"order_product_id": strings.Join(orderProductIDs, ","),
			},
		}, key)
	}

	remote, err := s.Gateway.GetOrder(ctx, record.MollieOrderID)
	if err != nil {
		return nil, err
	}

	refundLines := make([]mollie.RefundLine, 0, len(lines))
	for _, l := range lines {
		line, ok := remote.LineByOrderProductID(l.OrderProductID)
		if !ok {
			return nil, ierr.NewError("order line not found at gateway").
				WithHintf("Product line %d cannot be refunded", l.OrderProductID).
				Mark(ierr.ErrValidation)
		}
		refundLines = append(refundLines, mollie.RefundLine{ID: line.ID, Quantity: l.Quantity})
	}

	return s.Gateway.RefundOrder(ctx, remote.ID, &mollie.OrderRefundRequest{
		Lines: refundLines,
		Metadata: mollie.Metadata{
			"order_id":         o.ID,
			"transaction_id":   record.TransactionID,
			"mollie_order_id":  record.MollieOrderID,
			"order_product_id": strings.Join(orderProductIDs, ","),
		},
	}, key)
}

// refundAmount refunds a custom amount from the payment behind the attempt
func (s *refundService) refundAmount(ctx context.Context, o *order.Order, record *molliepayment.Record, amount decimal.Decimal) (*mollie.Refund, error) {
	transactionID := record.TransactionID
	if transactionID == "" && record.MollieOrderID != "" {
		remote, err := s.Gateway.GetOrder(ctx, record.MollieOrderID, mollie.EmbedPayments)
		if err != nil {
			return nil, err
		}
		if p := remote.FirstPayment(); p != nil {
			transactionID = p.ID
		}
	}
	if transactionID == "" {
		return nil, ierr.NewError("no payment to refund").
			WithHint("The order has no completed payment").
			Mark(ierr.ErrInvalidOperation)
	}

	m, err := s.orderMoney(ctx, o)
	if err != nil {
		return nil, err
	}
	key := s.IdemGen.GenerateKey(idempotency.ScopeRefund, map[string]interface{}{
		"order_id": o.ID,
		"attempt":  record.PaymentAttempt,
		"amount":   m.round(amount).String(),
	})
	return s.Gateway.RefundPayment(ctx, transactionID, &mollie.PaymentRefundRequest{
		Amount: m.amount(m.round(amount)),
		Metadata: mollie.Metadata{
			"order_id":       o.ID,
			"transaction_id": transactionID,
		},
	}, key)
}

func (s *refundService) partialRefundFailed(ctx context.Context, o *order.Order, err error) (*dto.RefundResponse, error) {
	if ierr.IsValidation(err) || ierr.IsInvalidOperation(err) {
		return nil, err
	}
	s.Logger.Errorw("partial refund failed",
		"order_id", o.ID,
		"error", err,
	)
	s.Sentry.CaptureException(ctx, err, map[string]string{"flow": "partial_refund"})
	return &dto.RefundResponse{Success: false, Message: couldNotRefund}, nil
}

func (s *refundService) refundError(ctx context.Context, o *order.Order, err error) error {
	s.Logger.Errorw("refund failed",
		"order_id", o.ID,
		"error", err,
	)
	s.Sentry.CaptureException(ctx, err, map[string]string{"flow": "refund"})

	if gwErr, ok := mollie.AsGatewayError(err); ok {
		return ierr.WithError(err).
			WithHint(gwErr.Detail).
			Mark(ierr.ErrHTTPClient)
	}
	return err
}

// storeRefund persists the refund and returns its amount
func (s *refundService) storeRefund(ctx context.Context, o *order.Order, record *molliepayment.Record, r *mollie.Refund) (decimal.Decimal, error) {
	amount := types.ParseAmount(r.Amount.Value)
	currency := r.Amount.Currency
	if currency == "" {
		currency = record.Currency
	}

	if err := s.RefundRepo.Create(ctx, &refund.Refund{
		RefundID:      r.ID,
		OrderID:       o.ID,
		TransactionID: record.TransactionID,
		MollieOrderID: record.MollieOrderID,
		Amount:        amount,
		Currency:      currency,
		Status:        string(r.Status),
		DateCreated:   time.Now().UTC(),
	}); err != nil {
		return decimal.Zero, err
	}

	s.Logger.Infow("refund issued",
		"order_id", o.ID,
		"refund_id", r.ID,
		"amount", amount.String(),
		"currency", currency,
	)
	return amount, nil
}

func notRefundable(orderID int, status types.PaymentStatus) error {
	return ierr.NewError("payment not refundable").
		WithHintf("The payment cannot be refunded while it is %s", status).
		WithReportableDetails(map[string]any{"order_id": orderID, "status": status}).
		Mark(ierr.ErrInvalidOperation)
}

func (s *refundService) ListRefunds(ctx context.Context, orderID int) (*dto.ListResponse[*dto.RefundItemResponse], error) {
	refunds, err := s.RefundRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(lo.Map(refunds, func(r *refund.Refund, _ int) *dto.RefundItemResponse {
		return dto.NewRefundItemResponse(r)
	})), nil
}
