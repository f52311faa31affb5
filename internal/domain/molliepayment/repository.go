package molliepayment

import (
	"context"
)

// Repository persists payment attempts
type Repository interface {
	// Create stores a new attempt numbered one past the last attempt of the order
	Create(ctx context.Context, r *Record) error
	// GetLatestByOrderID returns the highest attempt of an order
	GetLatestByOrderID(ctx context.Context, orderID int) (*Record, error)
	GetByMollieOrderID(ctx context.Context, orderID int, mollieOrderID string) (*Record, error)
	GetByTransactionID(ctx context.Context, orderID int, transactionID string) (*Record, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*Record, error)
	// Update writes the record keyed by order id and mollie order id when set,
	// otherwise by order id and transaction id
	Update(ctx context.Context, r *Record) error
}
