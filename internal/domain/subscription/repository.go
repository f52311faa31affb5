package subscription

import "context"

// Repository appends to and reads the subscription payment ledger
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListBySubscriptionID(ctx context.Context, mollieSubscriptionID string) ([]*Payment, error)
}
