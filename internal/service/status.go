package service

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// targetStatus maps a remote status onto the configured order status and its history comment
func targetStatus(settings config.StoreSettings, status types.PaymentStatus) (int, string) {
	switch {
	case status.IsSuccessful():
		return settings.ProcessingStatusID, "Payment received"
	case status == types.PaymentStatusCanceled:
		return settings.CanceledStatusID, "Payment canceled"
	case status == types.PaymentStatusExpired:
		return settings.ExpiredStatusID, "Payment expired"
	default:
		return settings.FailedStatusID, "Payment failed"
	}
}

// canAdvance reports whether the order still waits for its payment outcome
func canAdvance(o *order.Order, settings config.StoreSettings) bool {
	return o.OrderStatusID == 0 || o.OrderStatusID == settings.PendingStatusID
}

func (p ServiceParams) addHistory(ctx context.Context, o *order.Order, statusID int, comment string, notify bool) error {
	if err := p.OrderRepo.AddHistory(ctx, &order.History{
		OrderID:       o.ID,
		OrderStatusID: statusID,
		Notify:        notify,
		Comment:       comment,
		DateAdded:     time.Now().UTC(),
	}); err != nil {
		return err
	}
	o.OrderStatusID = statusID
	return nil
}

// advanceOrder moves a waiting order to the status matching the remote outcome.
// It reports false when the order already left the pending state.
func (p ServiceParams) advanceOrder(ctx context.Context, o *order.Order, status types.PaymentStatus) (bool, error) {
	settings := p.settings(o)
	if !canAdvance(o, settings) {
		p.Logger.Debugw("order already past pending, skipping status update",
			"order_id", o.ID,
			"order_status_id", o.OrderStatusID,
			"remote_status", status,
		)
		return false, nil
	}

	target, comment := targetStatus(settings, status)
	if target == 0 {
		p.Logger.Warnw("no order status configured for remote status",
			"order_id", o.ID,
			"remote_status", status,
		)
		return false, nil
	}

	if err := p.addHistory(ctx, o, target, comment, true); err != nil {
		return false, err
	}

	p.Logger.Infow("order status updated",
		"order_id", o.ID,
		"order_status_id", target,
		"remote_status", status,
	)
	return true, nil
}
