package mollie

import (
	"context"
	"net/http"
	"net/url"

	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
)

func (c *Client) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*Customer, error) {
	var cust Customer
	if err := c.makeRequest(ctx, http.MethodPost, "/customers", req, "", &cust); err != nil {
		return nil, err
	}
	c.logger.Infow("created mollie customer", "mollie_customer_id", cust.ID)
	return &cust, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var cust Customer
	if err := c.makeRequest(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, "", &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

func (c *Client) ListMandates(ctx context.Context, customerID string) ([]*Mandate, error) {
	var list mandateList
	if err := c.makeRequest(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID)+"/mandates", nil, "", &list); err != nil {
		return nil, err
	}
	return list.Embedded.Mandates, nil
}

func (c *Client) GetMandate(ctx context.Context, customerID, mandateID string) (*Mandate, error) {
	if mandateID == "" {
		return nil, ierr.NewError("mandate id is required").
			WithHint("No mandate was created for this payment").
			Mark(ierr.ErrValidation)
	}
	var m Mandate
	endpoint := "/customers/" + url.PathEscape(customerID) + "/mandates/" + url.PathEscape(mandateID)
	if err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, "", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CreateSubscription(ctx context.Context, customerID string, req *CreateSubscriptionRequest, idempotencyKey string) (*Subscription, error) {
	c.logger.Infow("creating mollie subscription",
		"mollie_customer_id", customerID,
		"interval", req.Interval,
		"amount", req.Amount.Value,
	)

	var s Subscription
	endpoint := "/customers/" + url.PathEscape(customerID) + "/subscriptions"
	if err := c.makeRequest(ctx, http.MethodPost, endpoint, req, idempotencyKey, &s); err != nil {
		return nil, err
	}

	c.logger.Infow("created mollie subscription", "mollie_subscription_id", s.ID, "status", s.Status)
	return &s, nil
}

func (c *Client) CancelSubscription(ctx context.Context, customerID, subscriptionID string) (*Subscription, error) {
	var s Subscription
	endpoint := "/customers/" + url.PathEscape(customerID) + "/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil, "", &s); err != nil {
		return nil, err
	}

	c.logger.Infow("canceled mollie subscription", "mollie_subscription_id", subscriptionID)
	return &s, nil
}
