package mollie

import (
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

func (p *Payment) IsPaid() bool       { return p.PaidAt != nil || p.Status == types.PaymentStatusPaid }
func (p *Payment) IsAuthorized() bool { return p.Status == types.PaymentStatusAuthorized }
func (p *Payment) IsCanceled() bool   { return p.Status == types.PaymentStatusCanceled }
func (p *Payment) IsExpired() bool    { return p.Status == types.PaymentStatusExpired }
func (p *Payment) IsOpen() bool       { return p.Status == types.PaymentStatusOpen }
func (p *Payment) IsPending() bool    { return p.Status == types.PaymentStatusPending }
func (p *Payment) IsFailed() bool     { return p.Status == types.PaymentStatusFailed }

func (p *Payment) HasRefunds() bool {
	return len(p.Embedded.Refunds) > 0 || p.AmountRefundedValue().IsPositive()
}

func (p *Payment) HasSequenceTypeRecurring() bool {
	return p.SequenceType == types.SequenceTypeRecurring
}

// AmountRefundedValue returns the refunded amount, zero when nothing was refunded
func (p *Payment) AmountRefundedValue() decimal.Decimal {
	if p.AmountRefunded == nil {
		return decimal.Zero
	}
	return types.ParseAmount(p.AmountRefunded.Value)
}

// CheckoutURL is where the customer completes the payment
func (p *Payment) CheckoutURL() string {
	if p.Links.Checkout == nil {
		return ""
	}
	return p.Links.Checkout.Href
}

func (o *Order) IsPaid() bool       { return o.Status == types.PaymentStatusPaid }
func (o *Order) IsAuthorized() bool { return o.Status == types.PaymentStatusAuthorized }
func (o *Order) IsCanceled() bool   { return o.Status == types.PaymentStatusCanceled }
func (o *Order) IsExpired() bool    { return o.Status == types.PaymentStatusExpired }
func (o *Order) IsOpen() bool       { return o.Status == types.PaymentStatusCreated }
func (o *Order) IsPending() bool    { return o.Status == types.PaymentStatusPending }
func (o *Order) IsShipping() bool   { return o.Status == types.PaymentStatusShipping }
func (o *Order) IsCompleted() bool  { return o.Status == types.PaymentStatusCompleted }

func (o *Order) HasRefunds() bool {
	return len(o.Embedded.Refunds) > 0 || (o.AmountRefunded != nil && types.ParseAmount(o.AmountRefunded.Value).IsPositive())
}

// FirstPayment returns the first embedded payment, nil when payments were not embedded
func (o *Order) FirstPayment() *Payment {
	if len(o.Embedded.Payments) == 0 {
		return nil
	}
	return o.Embedded.Payments[0]
}

// HasSequenceTypeRecurring reports whether the first payment of the order created a mandate
func (o *Order) HasSequenceTypeRecurring() bool {
	p := o.FirstPayment()
	return p != nil && p.SequenceType == types.SequenceTypeRecurring
}

// MandateID returns the mandate created by the first payment of the order
func (o *Order) MandateID() string {
	if p := o.FirstPayment(); p != nil {
		return p.MandateID
	}
	return ""
}

func (o *Order) CheckoutURL() string {
	if o.Links.Checkout == nil {
		return ""
	}
	return o.Links.Checkout.Href
}

// LineByOrderProductID finds the remote line created for a storefront order product
func (o *Order) LineByOrderProductID(orderProductID int) (*OrderLine, bool) {
	for i := range o.Lines {
		if MetadataInt(o.Lines[i].Metadata, "order_product_id") == orderProductID {
			return &o.Lines[i], true
		}
	}
	return nil, false
}

func (l *PaymentLink) IsPaid() bool {
	return l.PaidAt != nil
}

func (l *PaymentLink) URL() string {
	if l.Links.PaymentLink == nil {
		return ""
	}
	return l.Links.PaymentLink.Href
}

// IsValidOrPending reports whether the mandate can be used for new payments
func (m *Mandate) IsValidOrPending() bool {
	return m.Status == types.MandateStatusValid || m.Status == types.MandateStatusPending
}
