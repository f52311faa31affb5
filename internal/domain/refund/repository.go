package refund

import "context"

type Repository interface {
	Create(ctx context.Context, r *Refund) error
	ListByOrderID(ctx context.Context, orderID int) ([]*Refund, error)
}
