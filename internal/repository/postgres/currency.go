package postgres

import (
	"context"
	"strings"

	"github.com/shopbridge/mollie-gateway/internal/domain/currency"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
)

type currencyRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCurrencyRepository(db *postgres.DB, logger *logger.Logger) currency.Repository {
	return &currencyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *currencyRepository) GetByCode(ctx context.Context, code string) (*currency.Currency, error) {
	var c currency.Currency
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c, `
		SELECT currency_id, code, value, status
		FROM currencies
		WHERE code = $1`, strings.ToUpper(code))
	if err != nil {
		return nil, queryError(err, "currency")
	}
	return &c, nil
}
