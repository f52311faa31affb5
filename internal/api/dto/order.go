package dto

import (
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/validator"
	"github.com/shopspring/decimal"
)

// StatusChangeRequest reports an order status change made in the storefront admin
type StatusChangeRequest struct {
	PreviousStatusID int `json:"previous_status_id"`
	OrderStatusID    int `json:"order_status_id" validate:"required"`
}

func (r *StatusChangeRequest) Validate() error {
	if r.OrderStatusID <= 0 {
		return ierr.NewError("order_status_id is required").
			WithHint("The new order status is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ShipmentResponse struct {
	Created    bool   `json:"created"`
	ShipmentID string `json:"shipment_id,omitempty"`
}

type HistoryStatusesResponse struct {
	OrderID   int   `json:"order_id"`
	StatusIDs []int `json:"status_ids"`
}

// CreditLineRequest selects an order product for a credit order
type CreditLineRequest struct {
	OrderProductID int  `json:"order_product_id"`
	Quantity       int  `json:"quantity"`
	StockMutation  bool `json:"stock_mutation"`
}

// CreditOrderRequest credits the selected lines, every line when none are selected
type CreditOrderRequest struct {
	Lines []CreditLineRequest `json:"lines,omitempty"`
}

type CreditOrderResponse struct {
	OrderID       int             `json:"order_id"`
	CreditOrderID int             `json:"credit_order_id"`
	Total         decimal.Decimal `json:"total"`
}

// SendPaymentLinkRequest creates and mails a payment link. Without an amount the
// order total is requested.
type SendPaymentLinkRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	// Mode "open" requests only what is still unpaid on an already paid link
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=open full"`
}

type PaymentLinkResponse struct {
	PaymentLinkID string          `json:"payment_link_id,omitempty"`
	URL           string          `json:"url,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Sent          bool            `json:"sent"`
	Skipped       bool            `json:"skipped,omitempty"`
}

type SubscriptionCancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NoticesResponse carries the one-shot account page notices
type NoticesResponse struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r *SendPaymentLinkRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return ierr.NewError("payment link amount must be positive").
			WithHint("Please enter an amount greater than zero").
			Mark(ierr.ErrValidation)
	}
	return nil
}
