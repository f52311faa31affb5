package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/samber/lo"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// GatewayCall is one recorded write against the fake gateway
type GatewayCall struct {
	Method         string
	IdempotencyKey string
	Request        interface{}
}

// FakeGateway is a scripted mollie.Gateway. Resources created through it can be read
// back and mutated by tests; Errors fails a method by name.
type FakeGateway struct {
	mu  sync.Mutex
	seq int

	Orders       map[string]*mollie.Order
	Payments     map[string]*mollie.Payment
	PaymentLinks map[string]*mollie.PaymentLink
	Customers    map[string]*mollie.Customer
	Mandates     map[string][]*mollie.Mandate
	Errors       map[string]error

	Calls []GatewayCall
}

func NewFakeGateway() *FakeGateway {
	g := &FakeGateway{}
	g.Reset()
	return g
}

func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
	g.Orders = make(map[string]*mollie.Order)
	g.Payments = make(map[string]*mollie.Payment)
	g.PaymentLinks = make(map[string]*mollie.PaymentLink)
	g.Customers = make(map[string]*mollie.Customer)
	g.Mandates = make(map[string][]*mollie.Mandate)
	g.Errors = make(map[string]error)
	g.Calls = nil
}

// Fail makes every call of method return a gateway error with detail
func (g *FakeGateway) Fail(method string, status int, detail string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Errors[method] = GatewayFailure(status, detail)
}

// GatewayFailure builds an error the way the real client reports non-2xx answers
func GatewayFailure(status int, detail string) error {
	gwErr := &mollie.GatewayError{StatusCode: status, Title: http.StatusText(status), Detail: detail}
	return ierr.WithError(gwErr).
		WithHint(detail).
		Mark(ierr.ErrHTTPClient)
}

// CallsTo returns the recorded calls of a method
func (g *FakeGateway) CallsTo(method string) []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo.Filter(g.Calls, func(c GatewayCall, _ int) bool { return c.Method == method })
}

func (g *FakeGateway) record(method, key string, req interface{}) error {
	g.Calls = append(g.Calls, GatewayCall{Method: method, IdempotencyKey: key, Request: req})
	return g.Errors[method]
}

func (g *FakeGateway) read(method string) error {
	return g.Errors[method]
}

func (g *FakeGateway) nextID(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s_test%d", prefix, g.seq)
}

func gatewayNotFound(kind, id string) error {
	return GatewayFailure(http.StatusNotFound, fmt.Sprintf("No %s exists with token %s.", kind, id))
}

func (g *FakeGateway) CreateOrder(_ context.Context, req *mollie.CreateOrderRequest, key string) (*mollie.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CreateOrder", key, req); err != nil {
		return nil, err
	}

	id := g.nextID("ord")
	lines := make([]mollie.OrderLine, len(req.Lines))
	for i, l := range req.Lines {
		l.ID = fmt.Sprintf("odl_%s_%d", id, i+1)
		lines[i] = l
	}
	o := &mollie.Order{
		ID:          id,
		Status:      types.PaymentStatusCreated,
		Amount:      req.Amount,
		Method:      req.Method,
		OrderNumber: req.OrderNumber,
		Metadata:    req.Metadata,
		Lines:       lines,
		Links: mollie.Links{
			Checkout: &mollie.Link{Href: "https://pay.example.test/order/" + id},
		},
	}
	g.Orders[id] = o
	return o, nil
}

func (g *FakeGateway) GetOrder(_ context.Context, id string, _ ...string) (*mollie.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.read("GetOrder"); err != nil {
		return nil, err
	}
	o, ok := g.Orders[id]
	if !ok {
		return nil, gatewayNotFound("order", id)
	}
	return o, nil
}

func (g *FakeGateway) CreatePayment(_ context.Context, req *mollie.CreatePaymentRequest, key string) (*mollie.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CreatePayment", key, req); err != nil {
		return nil, err
	}

	id := g.nextID("tr")
	p := &mollie.Payment{
		ID:           id,
		Status:       types.PaymentStatusOpen,
		Amount:       req.Amount,
		Description:  req.Description,
		Method:       req.Method,
		Metadata:     req.Metadata,
		CustomerID:   req.CustomerID,
		SequenceType: req.SequenceType,
		Links: mollie.Links{
			Checkout: &mollie.Link{Href: "https://pay.example.test/payment/" + id},
		},
	}
	g.Payments[id] = p
	return p, nil
}

func (g *FakeGateway) GetPayment(_ context.Context, id string, _ ...string) (*mollie.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.read("GetPayment"); err != nil {
		return nil, err
	}
	p, ok := g.Payments[id]
	if !ok {
		return nil, gatewayNotFound("payment", id)
	}
	return p, nil
}

func (g *FakeGateway) RefundOrder(_ context.Context, orderID string, req *mollie.OrderRefundRequest, key string) (*mollie.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("RefundOrder", key, req); err != nil {
		return nil, err
	}
	o, ok := g.Orders[orderID]
	if !ok {
		return nil, gatewayNotFound("order", orderID)
	}

	amount := types.ParseAmount(o.Amount.Value)
	if len(req.Lines) > 0 {
		amount = decimal.Zero
		for _, rl := range req.Lines {
			line, found := lo.Find(o.Lines, func(l mollie.OrderLine) bool { return l.ID == rl.ID })
			if !found {
				continue
			}
			qty := rl.Quantity
			if qty == 0 {
				qty = line.Quantity
			}
			amount = amount.Add(types.ParseAmount(line.UnitPrice.Value).Mul(decimal.NewFromInt(int64(qty))))
		}
	}

	return &mollie.Refund{
		ID:          g.nextID("re"),
		Amount:      mollie.Amount{Currency: o.Amount.Currency, Value: amount.StringFixed(2)},
		Status:      types.RefundStatusPending,
		Description: req.Description,
		OrderID:     orderID,
		Metadata:    req.Metadata,
	}, nil
}

func (g *FakeGateway) RefundPayment(_ context.Context, paymentID string, req *mollie.PaymentRefundRequest, key string) (*mollie.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("RefundPayment", key, req); err != nil {
		return nil, err
	}
	return &mollie.Refund{
		ID:          g.nextID("re"),
		Amount:      req.Amount,
		Status:      types.RefundStatusPending,
		Description: req.Description,
		PaymentID:   paymentID,
		Metadata:    req.Metadata,
	}, nil
}

func (g *FakeGateway) CreateShipment(_ context.Context, orderID string, req *mollie.CreateShipmentRequest, key string) (*mollie.Shipment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CreateShipment", key, req); err != nil {
		return nil, err
	}
	return &mollie.Shipment{ID: g.nextID("shp"), OrderID: orderID}, nil
}

func (g *FakeGateway) CreateCustomer(_ context.Context, req *mollie.CreateCustomerRequest) (*mollie.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CreateCustomer", "", req); err != nil {
		return nil, err
	}
	c := &mollie.Customer{ID: g.nextID("cst"), Name: req.Name, Email: req.Email, Metadata: req.Metadata}
	g.Customers[c.ID] = c
	return c, nil
}

func (g *FakeGateway) GetCustomer(_ context.Context, id string) (*mollie.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.read("GetCustomer"); err != nil {
		return nil, err
	}
	c, ok := g.Customers[id]
	if !ok {
		return nil, gatewayNotFound("customer", id)
	}
	return c, nil
}

func (g *FakeGateway) ListMandates(_ context.Context, customerID string) ([]*mollie.Mandate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.read("ListMandates"); err != nil {
		return nil, err
	}
	return g.Mandates[customerID], nil
}

func (g *FakeGateway) GetMandate(_ context.Context, customerID, mandateID string) (*mollie.Mandate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.read("GetMandate"); err != nil {
		return nil, err
	}
	m, ok := lo.Find(g.Mandates[customerID], func(m *mollie.Mandate) bool { return m.ID == mandateID })
	if !ok {
		return nil, gatewayNotFound("mandate", mandateID)
	}
	return m, nil
}

func (g *FakeGateway) CreateSubscription(_ context.Context, customerID string, req *mollie.CreateSubscriptionRequest, key string) (*mollie.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CreateSubscription", key, req); err != nil {
		return nil, err
	}
	return &mollie.Subscription{
		ID:          g.nextID("sub"),
		Status:      "active",
		Amount:      req.Amount,
		Times:       req.Times,
		Interval:    req.Interval,
		StartDate:   req.StartDate,
		Description: req.Description,
		MandateID:   req.MandateID,
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
	}, nil
}

func (g *FakeGateway) CancelSubscription(_ context.Context, customerID, subscriptionID string) (*mollie.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CancelSubscription", "", map[string]string{
		"customer_id":     customerID,
		"subscription_id": subscriptionID,
	}); err != nil {
		return nil, err
	}
	return &mollie.Subscription{ID: subscriptionID, Status: "canceled"}, nil
}

func (g *FakeGateway) CreatePaymentLink(_ context.Context, req *mollie.CreatePaymentLinkRequest, key string) (*mollie.PaymentLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.record("CreatePaymentLink", key, req); err != nil {
		return nil, err
	}

	id := g.nextID("pl")
	l := &mollie.PaymentLink{
		ID:          id,
		Description: req.Description,
		Amount:      req.Amount,
		RedirectURL: req.RedirectURL,
		WebhookURL:  req.WebhookURL,
		Links: mollie.Links{
			PaymentLink: &mollie.Link{Href: "https://pay.example.test/link/" + id},
		},
	}
	g.PaymentLinks[id] = l
	return l, nil
}

func (g *FakeGateway) GetPaymentLink(_ context.Context, id string) (*mollie.PaymentLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.read("GetPaymentLink"); err != nil {
		return nil, err
	}
	l, ok := g.PaymentLinks[id]
	if !ok {
		return nil, gatewayNotFound("payment link", id)
	}
	return l, nil
}

var _ mollie.Gateway = (*FakeGateway)(nil)
