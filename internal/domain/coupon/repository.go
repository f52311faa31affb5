package coupon

import "context"

type Repository interface {
	// GetByCode returns an enabled coupon with its product restrictions
	GetByCode(ctx context.Context, code string) (*Coupon, error)
}
