package mollie

import (
	"time"

	"github.com/shopbridge/mollie-gateway/internal/types"
)

// Amount is a currency value as the gateway expects it, with a formatted decimal string
type Amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// Metadata is attached to remote resources and echoed back on reads
type Metadata map[string]interface{}

type Address struct {
	OrganizationName string `json:"organizationName,omitempty"`
	GivenName        string `json:"givenName,omitempty"`
	FamilyName       string `json:"familyName,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	StreetAndNumber  string `json:"streetAndNumber,omitempty"`
	StreetAdditional string `json:"streetAdditional,omitempty"`
	PostalCode       string `json:"postalCode,omitempty"`
	City             string `json:"city,omitempty"`
	Region           string `json:"region,omitempty"`
	Country          string `json:"country,omitempty"`
}

type Link struct {
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

type Links struct {
	Self        *Link `json:"self,omitempty"`
	Checkout    *Link `json:"checkout,omitempty"`
	Dashboard   *Link `json:"dashboard,omitempty"`
	PaymentLink *Link `json:"paymentLink,omitempty"`
}

// OrderLine is a line of an order resource
type OrderLine struct {
	ID               string              `json:"id,omitempty"`
	Type             types.OrderLineType `json:"type"`
	Category         string              `json:"category,omitempty"`
	Name             string              `json:"name"`
	Quantity         int                 `json:"quantity"`
	QuantityShipped  int                 `json:"quantityShipped,omitempty"`
	QuantityRefunded int                 `json:"quantityRefunded,omitempty"`
	UnitPrice        Amount              `json:"unitPrice"`
	DiscountAmount   *Amount             `json:"discountAmount,omitempty"`
	TotalAmount      Amount              `json:"totalAmount"`
	VatRate          string              `json:"vatRate"`
	VatAmount        Amount              `json:"vatAmount"`
	SKU              string              `json:"sku,omitempty"`
	Metadata         Metadata            `json:"metadata,omitempty"`
}

// OrderPaymentOptions are payment specific parameters of an order
type OrderPaymentOptions struct {
	Issuer       string             `json:"issuer,omitempty"`
	CardToken    string             `json:"cardToken,omitempty"`
	CustomerID   string             `json:"customerId,omitempty"`
	SequenceType types.SequenceType `json:"sequenceType,omitempty"`
	WebhookURL   string             `json:"webhookUrl,omitempty"`
}

type CreateOrderRequest struct {
	Amount          Amount               `json:"amount"`
	OrderNumber     string               `json:"orderNumber"`
	Lines           []OrderLine          `json:"lines"`
	BillingAddress  *Address             `json:"billingAddress,omitempty"`
	ShippingAddress *Address             `json:"shippingAddress,omitempty"`
	RedirectURL     string               `json:"redirectUrl"`
	WebhookURL      string               `json:"webhookUrl,omitempty"`
	Locale          string               `json:"locale"`
	Method          string               `json:"method,omitempty"`
	Metadata        Metadata             `json:"metadata,omitempty"`
	ExpiresAt       string               `json:"expiresAt,omitempty"`
	Payment         *OrderPaymentOptions `json:"payment,omitempty"`
}

type CreatePaymentRequest struct {
	Amount          Amount             `json:"amount"`
	Description     string             `json:"description"`
	RedirectURL     string             `json:"redirectUrl"`
	WebhookURL      string             `json:"webhookUrl,omitempty"`
	Locale          string             `json:"locale,omitempty"`
	Method          string             `json:"method,omitempty"`
	Metadata        Metadata           `json:"metadata,omitempty"`
	Issuer          string             `json:"issuer,omitempty"`
	CardToken       string             `json:"cardToken,omitempty"`
	CustomerID      string             `json:"customerId,omitempty"`
	SequenceType    types.SequenceType `json:"sequenceType,omitempty"`
	BillingAddress  *Address           `json:"billingAddress,omitempty"`
	ShippingAddress *Address           `json:"shippingAddress,omitempty"`
	DueDate         string             `json:"dueDate,omitempty"`
}

type Refund struct {
	ID          string             `json:"id"`
	Amount      Amount             `json:"amount"`
	Status      types.RefundStatus `json:"status"`
	Description string             `json:"description,omitempty"`
	PaymentID   string             `json:"paymentId,omitempty"`
	OrderID     string             `json:"orderId,omitempty"`
	Metadata    Metadata           `json:"metadata,omitempty"`
	CreatedAt   *time.Time         `json:"createdAt,omitempty"`
}

type Shipment struct {
	ID        string      `json:"id"`
	OrderID   string      `json:"orderId"`
	Lines     []OrderLine `json:"lines,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

type Payment struct {
	ID              string              `json:"id"`
	Mode            string              `json:"mode,omitempty"`
	Status          types.PaymentStatus `json:"status"`
	Amount          Amount              `json:"amount"`
	AmountRefunded  *Amount             `json:"amountRefunded,omitempty"`
	AmountRemaining *Amount             `json:"amountRemaining,omitempty"`
	Description     string              `json:"description,omitempty"`
	Method          string              `json:"method,omitempty"`
	Metadata        Metadata            `json:"metadata,omitempty"`
	OrderID         string              `json:"orderId,omitempty"`
	CustomerID      string              `json:"customerId,omitempty"`
	MandateID       string              `json:"mandateId,omitempty"`
	SubscriptionID  string              `json:"subscriptionId,omitempty"`
	SequenceType    types.SequenceType  `json:"sequenceType,omitempty"`
	CreatedAt       *time.Time          `json:"createdAt,omitempty"`
	PaidAt          *time.Time          `json:"paidAt,omitempty"`
	Links           Links               `json:"_links"`
	Embedded        struct {
		Refunds []*Refund `json:"refunds,omitempty"`
	} `json:"_embedded"`
}

type Order struct {
	ID             string              `json:"id"`
	Status         types.PaymentStatus `json:"status"`
	Amount         Amount              `json:"amount"`
	AmountRefunded *Amount             `json:"amountRefunded,omitempty"`
	Method         string              `json:"method,omitempty"`
	OrderNumber    string              `json:"orderNumber,omitempty"`
	Metadata       Metadata            `json:"metadata,omitempty"`
	Lines          []OrderLine         `json:"lines,omitempty"`
	CreatedAt      *time.Time          `json:"createdAt,omitempty"`
	PaidAt         *time.Time          `json:"paidAt,omitempty"`
	Links          Links               `json:"_links"`
	Embedded       struct {
		Payments  []*Payment  `json:"payments,omitempty"`
		Refunds   []*Refund   `json:"refunds,omitempty"`
		Shipments []*Shipment `json:"shipments,omitempty"`
	} `json:"_embedded"`
}

// RefundLine selects a quantity of an order line to refund
type RefundLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity,omitempty"`
}

// OrderRefundRequest refunds the given lines, every line when Lines is empty
type OrderRefundRequest struct {
	Lines       []RefundLine `json:"lines"`
	Description string       `json:"description,omitempty"`
	Metadata    Metadata     `json:"metadata,omitempty"`
}

type PaymentRefundRequest struct {
	Amount      Amount   `json:"amount"`
	Description string   `json:"description,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

// CreateShipmentRequest ships the given lines, every line when Lines is empty
type CreateShipmentRequest struct {
	Lines []RefundLine `json:"lines"`
}

type Customer struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

type CreateCustomerRequest struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"metadata,omitempty"`
}

type Mandate struct {
	ID     string              `json:"id"`
	Status types.MandateStatus `json:"status"`
	Method string              `json:"method"`
}

type mandateList struct {
	Count    int `json:"count"`
	Embedded struct {
		Mandates []*Mandate `json:"mandates"`
	} `json:"_embedded"`
}

type Subscription struct {
	ID              string   `json:"id"`
	Status          string   `json:"status"`
	Amount          Amount   `json:"amount"`
	Times           int      `json:"times,omitempty"`
	Interval        string   `json:"interval"`
	StartDate       string   `json:"startDate,omitempty"`
	NextPaymentDate string   `json:"nextPaymentDate,omitempty"`
	Description     string   `json:"description"`
	MandateID       string   `json:"mandateId,omitempty"`
	WebhookURL      string   `json:"webhookUrl,omitempty"`
	Metadata        Metadata `json:"metadata,omitempty"`
}

type CreateSubscriptionRequest struct {
	Amount      Amount   `json:"amount"`
	Times       int      `json:"times,omitempty"`
	Interval    string   `json:"interval"`
	StartDate   string   `json:"startDate,omitempty"`
	Description string   `json:"description"`
	MandateID   string   `json:"mandateId,omitempty"`
	WebhookURL  string   `json:"webhookUrl,omitempty"`
	Metadata    Metadata `json:"metadata,omitempty"`
}

type PaymentLink struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Amount      Amount     `json:"amount"`
	RedirectURL string     `json:"redirectUrl,omitempty"`
	WebhookURL  string     `json:"webhookUrl,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Links       Links      `json:"_links"`
}

type CreatePaymentLinkRequest struct {
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	WebhookURL  string `json:"webhookUrl,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

// problem is the error document returned for non-2xx answers
type problem struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}
