package postgres

import (
	"context"

	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
)

type couponRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return &couponRepository{
		db:     db,
		logger: logger,
	}
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	q := r.db.GetQuerier(ctx)

	var c coupon.Coupon
	err := q.GetContext(ctx, &c, `
		SELECT coupon_id, code, name, type, discount, shipping
		FROM coupons
		WHERE code = $1 AND status = true`, code)
	if err != nil {
		return nil, queryError(err, "Coupon")
	}

	err = q.SelectContext(ctx, &c.ProductIDs,
		`SELECT product_id FROM coupon_products WHERE coupon_id = $1 ORDER BY product_id`, c.CouponID)
	if err != nil {
		return nil, queryError(err, "coupon products")
	}
	return &c, nil
}
