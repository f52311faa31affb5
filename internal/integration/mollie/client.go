package mollie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopbridge/mollie-gateway/internal/config"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/httpclient"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/sentry"
)

// Gateway is the subset of the Mollie API the storefront integration uses
type Gateway interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest, idempotencyKey string) (*Order, error)
	GetOrder(ctx context.Context, id string, embed ...string) (*Order, error)
	CreatePayment(ctx context.Context, req *CreatePaymentRequest, idempotencyKey string) (*Payment, error)
	GetPayment(ctx context.Context, id string, embed ...string) (*Payment, error)

	RefundOrder(ctx context.Context, orderID string, req *OrderRefundRequest, idempotencyKey string) (*Refund, error)
	RefundPayment(ctx context.Context, paymentID string, req *PaymentRefundRequest, idempotencyKey string) (*Refund, error)
	CreateShipment(ctx context.Context, orderID string, req *CreateShipmentRequest, idempotencyKey string) (*Shipment, error)

	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListMandates(ctx context.Context, customerID string) ([]*Mandate, error)
	GetMandate(ctx context.Context, customerID, mandateID string) (*Mandate, error)
	CreateSubscription(ctx context.Context, customerID string, req *CreateSubscriptionRequest, idempotencyKey string) (*Subscription, error)
	CancelSubscription(ctx context.Context, customerID, subscriptionID string) (*Subscription, error)

	CreatePaymentLink(ctx context.Context, req *CreatePaymentLinkRequest, idempotencyKey string) (*PaymentLink, error)
	GetPaymentLink(ctx context.Context, id string) (*PaymentLink, error)
}

const (
	EmbedPayments  = "payments"
	EmbedRefunds   = "refunds"
	EmbedShipments = "shipments"
)

// Client talks to the Mollie REST API over the shared HTTP client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpclient.Client
	sentry     *sentry.Service
	logger     *logger.Logger
}

func NewClient(cfg *config.Configuration, httpClient httpclient.Client, sentrySvc *sentry.Service, logger *logger.Logger) Gateway {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.Mollie.BaseURL, "/"),
		apiKey:     cfg.Mollie.APIKey,
		httpClient: httpClient,
		sentry:     sentrySvc,
		logger:     logger,
	}
}

// GatewayError is a failure answered by the gateway. Title and Detail come from the
// problem document; Detail is safe to show to the merchant.
type GatewayError struct {
	StatusCode int
	Title      string
	Detail     string
	Field      string
}

func (e *GatewayError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("mollie: %d %s: %s (field %s)", e.StatusCode, e.Title, e.Detail, e.Field)
	}
	return fmt.Sprintf("mollie: %d %s: %s", e.StatusCode, e.Title, e.Detail)
}

// AsGatewayError extracts the gateway failure from a wrapped error
func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if ierr.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

func withEmbed(path string, embed []string) string {
	if len(embed) == 0 {
		return path
	}
	return path + "?" + url.Values{"embed": {strings.Join(embed, ",")}}.Encode()
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}, idempotencyKey string, response interface{}) error {
	span, ctx := c.sentry.StartGatewaySpan(ctx, "mollie."+method+" "+endpoint, map[string]interface{}{
		"method":   method,
		"endpoint": endpoint,
	})
	var err error
	defer func() { sentry.FinishSpan(span, err) }()

	var jsonBody []byte
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			c.logger.Errorw("failed to marshal mollie request body", "error", err)
			return ierr.WithError(err).
				WithHint("Invalid request data").
				Mark(ierr.ErrInternal)
		}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
	if idempotencyKey != "" {
		headers[httpclient.HeaderIdempotency] = idempotencyKey
	}

	c.logger.Debugw("sending mollie request",
		"method", method,
		"endpoint", endpoint,
		"idempotency_key", idempotencyKey,
	)

	resp, sendErr := c.httpClient.Send(ctx, &httpclient.Request{
		Method:  method,
		URL:     c.baseURL + endpoint,
		Headers: headers,
		Body:    jsonBody,
	})
	if sendErr != nil {
		err = c.translateError(sendErr, method, endpoint)
		return err
	}

	if response != nil && len(resp.Body) > 0 {
		if err = json.Unmarshal(resp.Body, response); err != nil {
			c.logger.Errorw("failed to unmarshal mollie response", "error", err, "endpoint", endpoint)
			return ierr.WithError(err).
				WithHint("Invalid response from Mollie").
				Mark(ierr.ErrHTTPClient)
		}
	}
	return nil
}

// translateError turns transport and non-2xx failures into GatewayError values marked ErrHTTPClient
func (c *Client) translateError(err error, method, endpoint string) error {
	gwErr := &GatewayError{Title: "Gateway unreachable", Detail: "The payment gateway could not be reached"}

	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		gwErr.StatusCode = httpErr.StatusCode
		gwErr.Title = http.StatusText(httpErr.StatusCode)
		gwErr.Detail = string(httpErr.Body)

		var p problem
		if json.Unmarshal(httpErr.Body, &p) == nil && p.Detail != "" {
			gwErr.Title = p.Title
			gwErr.Detail = p.Detail
			gwErr.Field = p.Field
		}
	}

	c.logger.Errorw("mollie API returned error",
		"method", method,
		"endpoint", endpoint,
		"status_code", gwErr.StatusCode,
		"title", gwErr.Title,
		"detail", gwErr.Detail,
	)

	return ierr.WithError(gwErr).
		WithHint(gwErr.Detail).
		WithReportableDetails(map[string]any{
			"status_code": gwErr.StatusCode,
			"title":       gwErr.Title,
			"field":       gwErr.Field,
		}).
		Mark(ierr.ErrHTTPClient)
}

func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest, idempotencyKey string) (*Order, error) {
	c.logger.Infow("creating mollie order",
		"order_number", req.OrderNumber,
		"amount", req.Amount.Value,
		"currency", req.Amount.Currency,
		"lines", len(req.Lines),
	)

	var o Order
	if err := c.makeRequest(ctx, http.MethodPost, "/orders", req, idempotencyKey, &o); err != nil {
		return nil, err
	}

	c.logger.Infow("created mollie order", "mollie_order_id", o.ID, "status", o.Status)
	return &o, nil
}

func (c *Client) GetOrder(ctx context.Context, id string, embed ...string) (*Order, error) {
	var o Order
	if err := c.makeRequest(ctx, http.MethodGet, withEmbed("/orders/"+url.PathEscape(id), embed), nil, "", &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest, idempotencyKey string) (*Payment, error) {
	c.logger.Infow("creating mollie payment",
		"description", req.Description,
		"amount", req.Amount.Value,
		"currency", req.Amount.Currency,
	)

	var p Payment
	if err := c.makeRequest(ctx, http.MethodPost, "/payments", req, idempotencyKey, &p); err != nil {
		return nil, err
	}

	c.logger.Infow("created mollie payment", "transaction_id", p.ID, "status", p.Status)
	return &p, nil
}

func (c *Client) GetPayment(ctx context.Context, id string, embed ...string) (*Payment, error) {
	var p Payment
	if err := c.makeRequest(ctx, http.MethodGet, withEmbed("/payments/"+url.PathEscape(id), embed), nil, "", &p); err != nil {
		return nil, err
	}
	return &p, nil
}
