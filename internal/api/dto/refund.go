package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/domain/refund"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// RefundLineRequest selects a quantity of an order product
type RefundLineRequest struct {
	OrderProductID int `json:"order_product_id" validate:"required"`
	Quantity       int `json:"quantity"`
	// StockMutation restocks the product when the refund succeeds
	StockMutation bool `json:"stock_mutation"`
}

type PartialRefundRequest struct {
	Mode   types.RefundMode    `json:"mode" validate:"required,oneof=custom_amount productline"`
	Amount decimal.Decimal     `json:"amount"`
	Lines  []RefundLineRequest `json:"lines,omitempty"`
}

func (r *PartialRefundRequest) Validate() error {
	switch r.Mode {
	case types.RefundModeCustomAmount:
		if !r.Amount.IsPositive() {
			return ierr.NewError("refund amount must be positive").
				WithHint("Please enter an amount greater than zero").
				Mark(ierr.ErrValidation)
		}
	case types.RefundModeProductLine:
		if len(lo.Filter(r.Lines, func(l RefundLineRequest, _ int) bool { return l.Quantity > 0 })) == 0 {
			return ierr.NewError("no refund lines selected").
				WithHint("Please select at least one product to refund").
				Mark(ierr.ErrValidation)
		}
	default:
		return ierr.NewError("invalid refund mode").
			WithHintf("Refund mode %q is not supported", r.Mode).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RefundResponse is the outcome of a full or partial refund
type RefundResponse struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message,omitempty"`
	RefundID      string          `json:"refund_id,omitempty"`
	RefundStatus  string          `json:"refund_status,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	OrderStatusID int             `json:"order_status_id,omitempty"`
	// PartialCreditOrder asks the admin to create a credit order for the refunded lines
	PartialCreditOrder bool `json:"partial_credit_order,omitempty"`
}

type RefundItemResponse struct {
	RefundID      string          `json:"refund_id"`
	OrderID       int             `json:"order_id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	MollieOrderID string          `json:"mollie_order_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	DateCreated   time.Time       `json:"date_created"`
}

func NewRefundItemResponse(r *refund.Refund) *RefundItemResponse {
	return &RefundItemResponse{
		RefundID:      r.RefundID,
		OrderID:       r.OrderID,
		TransactionID: r.TransactionID,
		MollieOrderID: r.MollieOrderID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Status:        r.Status,
		DateCreated:   r.DateCreated,
	}
}
