package types

import "strings"

// PaymentStatus mirrors the status enum of a remote payment or order resource
type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusOpen       PaymentStatus = "open"
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusShipping   PaymentStatus = "shipping"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusExpired    PaymentStatus = "expired"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// IsSuccessful reports whether money was captured or reserved
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentStatusPaid || s == PaymentStatusAuthorized
}

// RefundStatus mirrors the raw status of a remote refund
type RefundStatus string

const (
	RefundStatusQueued     RefundStatus = "queued"
	RefundStatusPending    RefundStatus = "pending"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusRefunded   RefundStatus = "refunded"
	RefundStatusFailed     RefundStatus = "failed"
	RefundStatusCanceled   RefundStatus = "canceled"
)

// ResourceKind selects between the itemized order API and the flat payment API
type ResourceKind string

const (
	ResourceKindOrder   ResourceKind = "order"
	ResourceKindPayment ResourceKind = "payment"
)

// WebhookResource is the kind of remote resource a webhook id refers to
type WebhookResource string

const (
	WebhookResourceOrder       WebhookResource = "order"
	WebhookResourcePayment     WebhookResource = "payment"
	WebhookResourcePaymentLink WebhookResource = "payment_link"
)

// WebhookResourceFromID classifies a remote id by the prefix before its first underscore
func WebhookResourceFromID(id string) WebhookResource {
	prefix, _, _ := strings.Cut(id, "_")
	switch prefix {
	case "ord":
		return WebhookResourceOrder
	case "tr":
		return WebhookResourcePayment
	default:
		return WebhookResourcePaymentLink
	}
}

// OrderLineType is the type of a line in an order resource
type OrderLineType string

const (
	OrderLineTypePhysical    OrderLineType = "physical"
	OrderLineTypeDigital     OrderLineType = "digital"
	OrderLineTypeShippingFee OrderLineType = "shipping_fee"
	OrderLineTypeDiscount    OrderLineType = "discount"
	OrderLineTypeSurcharge   OrderLineType = "surcharge"
	OrderLineTypeGiftCard    OrderLineType = "gift_card"
	OrderLineTypeStoreCredit OrderLineType = "store_credit"
)

// SequenceType of a payment in a recurring flow
type SequenceType string

const (
	SequenceTypeOneOff    SequenceType = "oneoff"
	SequenceTypeFirst     SequenceType = "first"
	SequenceTypeRecurring SequenceType = "recurring"
)

// MandateStatus mirrors the status of a remote mandate
type MandateStatus string

const (
	MandateStatusValid   MandateStatus = "valid"
	MandateStatusPending MandateStatus = "pending"
	MandateStatusInvalid MandateStatus = "invalid"
)

// RefundMode selects how a partial refund is specified
type RefundMode string

const (
	RefundModeCustomAmount RefundMode = "custom_amount"
	RefundModeProductLine  RefundMode = "productline"
)

// ShipmentMode is the store setting deciding when shipments are created
type ShipmentMode int

const (
	ShipmentModeOnWebhook  ShipmentMode = 1
	ShipmentModeOnStatus   ShipmentMode = 2
	ShipmentModeOnComplete ShipmentMode = 3
)

// DefaultCurrencyOrder is the store currency setting meaning "use the order currency"
const DefaultCurrencyOrder = "DEF"
