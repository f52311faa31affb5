package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository reads and writes the storefront order tables
type Repository interface {
	Get(ctx context.Context, orderID int) (*Order, error)
	ListProducts(ctx context.Context, orderID int) ([]*Product, error)
	ListTotals(ctx context.Context, orderID int) ([]*Total, error)
	ListVouchers(ctx context.Context, orderID int) ([]*Voucher, error)
	ListSubscriptions(ctx context.Context, orderID int) ([]*Subscription, error)
	GetSubscription(ctx context.Context, orderSubscriptionID int) (*Subscription, error)

	// AddHistory appends a history entry and moves the order to statusID
	AddHistory(ctx context.Context, h *History) error
	// ListHistoryStatusIDs returns the distinct statuses the order has been in
	ListHistoryStatusIDs(ctx context.Context, orderID int) ([]int, error)
	SetDatePayment(ctx context.Context, orderID int, paidAt time.Time) error

	// AdjustStock changes the stock of a product by delta
	AdjustStock(ctx context.Context, productID int, delta decimal.Decimal) error
	SetStockMutation(ctx context.Context, orderProductID int, mutated bool) error

	// Create stores a new order with its products and totals and returns its id
	Create(ctx context.Context, o *Order, products []*Product, totals []*Total) (int, error)
}
