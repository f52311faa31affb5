package dto

import (
	"strings"

	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopbridge/mollie-gateway/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest starts a payment attempt for a confirmed storefront order
type CreatePaymentRequest struct {
	Method string `json:"method" validate:"required,mollie_method"`
	Issuer string `json:"issuer,omitempty"`
	// CardToken is produced by the embedded card form
	CardToken  string `json:"card_token,omitempty"`
	CouponCode string `json:"coupon_code,omitempty"`
	// SuperCouponActive is set when a storefront super coupon replaced the regular coupon
	SuperCouponActive bool `json:"super_coupon_active,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	r.Method = strings.TrimSpace(r.Method)
	return validator.ValidateRequest(r)
}

// CreatePaymentResponse points the customer at the hosted checkout
type CreatePaymentResponse struct {
	OrderID        int                `json:"order_id"`
	PaymentAttempt int                `json:"payment_attempt"`
	ResourceKind   types.ResourceKind `json:"resource_kind"`
	// MollieID is the id of the created order or payment resource
	MollieID    string `json:"mollie_id"`
	CheckoutURL string `json:"redirect"`
}

type SetIssuerRequest struct {
	Issuer string `json:"issuer"`
}

// ReportErrorRequest carries a checkout failure the customer chose to report
type ReportErrorRequest struct {
	OrderID int    `json:"order_id"`
	Message string `json:"message" validate:"required"`
}

func (r *ReportErrorRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return ierr.NewError("message is required").
			WithHint("An error message is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PaymentMethodResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ForceOrderAPI bool            `json:"force_order_api"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	MaxAmount     decimal.Decimal `json:"max_amount"`
	HasIssuers    bool            `json:"has_issuers"`
}

// WebhookRequest is the form posted by the gateway on every status change
type WebhookRequest struct {
	ID string `form:"id" json:"id"`
}

func (r *WebhookRequest) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		return ierr.NewError("webhook id is required").
			WithHint("No resource id was posted").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReturnResponse tells the storefront where the customer goes next
type ReturnResponse struct {
	RedirectURL string `json:"redirect_url"`
	Success     bool   `json:"success"`
}
