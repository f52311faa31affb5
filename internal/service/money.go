package service

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/cache"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/currency"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

const currencyTTL = 10 * time.Minute

// money converts amounts in the store default currency into the currency an order is charged in
type money struct {
	currency string
	value    decimal.Decimal
}

// pinsCurrency reports whether the store charges a fixed currency instead of the order currency
func pinsCurrency(o *order.Order, s config.StoreSettings) bool {
	return s.DefaultCurrency != "" && s.DefaultCurrency != types.DefaultCurrencyOrder && s.DefaultCurrency != o.CurrencyCode
}

// orderMoney charges the order currency, or the pinned currency at pinnedValue when
// the store pins one. A zero pinnedValue means the pinned currency is the default one.
func orderMoney(o *order.Order, s config.StoreSettings, pinnedValue decimal.Decimal) money {
	if !pinsCurrency(o, s) {
		return money{currency: o.CurrencyCode, value: o.CurrencyValue}
	}
	if pinnedValue.IsZero() {
		pinnedValue = decimal.NewFromInt(1)
	}
	return money{currency: s.DefaultCurrency, value: pinnedValue}
}

// pinnedCurrencyValue returns the storefront value of the currency the store pins,
// or zero when o is charged in its own currency
func (p ServiceParams) pinnedCurrencyValue(ctx context.Context, o *order.Order) (decimal.Decimal, error) {
	settings := p.settings(o)
	if !pinsCurrency(o, settings) {
		return decimal.Zero, nil
	}

	key := cache.GenerateKey(cache.PrefixCurrency, settings.DefaultCurrency)
	c, err := cache.GetOrSet(ctx, p.Cache, key, currencyTTL, func() (*currency.Currency, error) {
		return p.CurrencyRepo.GetByCode(ctx, settings.DefaultCurrency)
	})
	if err != nil {
		if ierr.IsNotFound(err) {
			return decimal.Zero, ierr.WithError(err).
				WithHintf("Currency %s is not configured in the storefront", settings.DefaultCurrency).
				WithOrderID(o.ID).
				Mark(ierr.ErrInvalidOperation)
		}
		return decimal.Zero, err
	}
	return c.Value, nil
}

// orderMoney resolves the money an order is charged in
func (p ServiceParams) orderMoney(ctx context.Context, o *order.Order) (money, error) {
	value, err := p.pinnedCurrencyValue(ctx, o)
	if err != nil {
		return money{}, err
	}
	return orderMoney(o, p.settings(o), value), nil
}

func (m money) convert(amount decimal.Decimal) decimal.Decimal {
	return types.ConvertAmount(amount, m.value, m.currency)
}

func (m money) round(amount decimal.Decimal) decimal.Decimal {
	return types.RoundAmount(amount, m.currency)
}

// toDefault converts an amount in the charged currency back into the store default currency
func (m money) toDefault(amount decimal.Decimal) decimal.Decimal {
	if m.value.IsZero() {
		return amount
	}
	return amount.Div(m.value).Round(4)
}

func (m money) amount(value decimal.Decimal) mollie.Amount {
	return mollie.Amount{
		Currency: m.currency,
		Value:    types.FormatAmount(value, m.currency),
	}
}
