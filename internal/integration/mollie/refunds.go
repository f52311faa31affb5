package mollie

import (
	"context"
	"net/http"
	"net/url"
)

// RefundOrder refunds lines of an order; an empty line list refunds the whole order
func (c *Client) RefundOrder(ctx context.Context, orderID string, req *OrderRefundRequest, idempotencyKey string) (*Refund, error) {
	if req.Lines == nil {
		req.Lines = []RefundLine{}
	}

	c.logger.Infow("refunding mollie order",
		"mollie_order_id", orderID,
		"lines", len(req.Lines),
	)

	var r Refund
	if err := c.makeRequest(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/refunds", req, idempotencyKey, &r); err != nil {
		return nil, err
	}

	c.logger.Infow("refunded mollie order", "mollie_order_id", orderID, "refund_id", r.ID, "status", r.Status)
	return &r, nil
}

func (c *Client) RefundPayment(ctx context.Context, paymentID string, req *PaymentRefundRequest, idempotencyKey string) (*Refund, error) {
	c.logger.Infow("refunding mollie payment",
		"transaction_id", paymentID,
		"amount", req.Amount.Value,
	)

	var r Refund
	if err := c.makeRequest(ctx, http.MethodPost, "/payments/"+url.PathEscape(paymentID)+"/refunds", req, idempotencyKey, &r); err != nil {
		return nil, err
	}

	c.logger.Infow("refunded mollie payment", "transaction_id", paymentID, "refund_id", r.ID, "status", r.Status)
	return &r, nil
}

// CreateShipment ships lines of an order; an empty line list ships every line
func (c *Client) CreateShipment(ctx context.Context, orderID string, req *CreateShipmentRequest, idempotencyKey string) (*Shipment, error) {
	if req.Lines == nil {
		req.Lines = []RefundLine{}
	}

	var s Shipment
	if err := c.makeRequest(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/shipments", req, idempotencyKey, &s); err != nil {
		return nil, err
	}

	c.logger.Infow("created mollie shipment", "mollie_order_id", orderID, "shipment_id", s.ID)
	return &s, nil
}
