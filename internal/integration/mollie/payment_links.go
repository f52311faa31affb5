package mollie

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreatePaymentLink(ctx context.Context, req *CreatePaymentLinkRequest, idempotencyKey string) (*PaymentLink, error) {
	var l PaymentLink
	if err := c.makeRequest(ctx, http.MethodPost, "/payment-links", req, idempotencyKey, &l); err != nil {
		return nil, err
	}
	c.logger.Infow("created mollie payment link", "payment_link_id", l.ID)
	return &l, nil
}

func (c *Client) GetPaymentLink(ctx context.Context, id string) (*PaymentLink, error) {
	var l PaymentLink
	if err := c.makeRequest(ctx, http.MethodGet, "/payment-links/"+url.PathEscape(id), nil, "", &l); err != nil {
		return nil, err
	}
	return &l, nil
}
