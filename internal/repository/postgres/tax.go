package postgres

import (
	"context"

	"github.com/shopbridge/mollie-gateway/internal/domain/tax"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
)

type taxRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxRepository(db *postgres.DB, logger *logger.Logger) tax.Repository {
	return &taxRepository{
		db:     db,
		logger: logger,
	}
}

func (r *taxRepository) ListByClass(ctx context.Context, taxClassID int) ([]*tax.Rate, error) {
	var rates []*tax.Rate
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &rates, `
		SELECT tr.tax_rate_id, rl.tax_class_id, tr.name, tr.rate, tr.type, rl.priority
		FROM tax_rules rl
		JOIN tax_rates tr ON tr.tax_rate_id = rl.tax_rate_id
		WHERE rl.tax_class_id = $1
		ORDER BY rl.priority, tr.tax_rate_id`, taxClassID)
	if err != nil {
		return nil, queryError(err, "tax rates")
	}
	return rates, nil
}
