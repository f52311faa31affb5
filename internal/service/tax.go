package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/cache"
	"github.com/shopbridge/mollie-gateway/internal/domain/tax"
	"github.com/shopspring/decimal"
)

const taxRatesTTL = 10 * time.Minute

// TaxComponent is one tax applied to an amount
type TaxComponent struct {
	TaxRateID int             `json:"tax_rate_id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Type      tax.RateType    `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

// TaxCalculator resolves the taxes of a tax class for an amount
type TaxCalculator interface {
	GetRates(ctx context.Context, amount decimal.Decimal, taxClassID int) ([]TaxComponent, error)
	// Calculate returns amount with every tax of the class added
	Calculate(ctx context.Context, amount decimal.Decimal, taxClassID int) (decimal.Decimal, error)
}

type taxCalculator struct {
	ServiceParams
}

func NewTaxCalculator(params ServiceParams) TaxCalculator {
	return &taxCalculator{ServiceParams: params}
}

func (s *taxCalculator) rates(ctx context.Context, taxClassID int) ([]*tax.Rate, error) {
	if taxClassID <= 0 {
		return nil, nil
	}

	key := cache.GenerateKey(cache.PrefixTaxRates, taxClassID)
	return cache.GetOrSet(ctx, s.Cache, key, taxRatesTTL, func() ([]*tax.Rate, error) {
		return s.TaxRepo.ListByClass(ctx, taxClassID)
	})
}

func (s *taxCalculator) GetRates(ctx context.Context, amount decimal.Decimal, taxClassID int) ([]TaxComponent, error) {
	rates, err := s.rates(ctx, taxClassID)
	if err != nil {
		return nil, err
	}

	return lo.Map(rates, func(r *tax.Rate, _ int) TaxComponent {
		c := TaxComponent{
			TaxRateID: r.TaxRateID,
			Name:      r.Name,
			Rate:      r.Rate,
			Type:      r.Type,
		}
		if r.Type == tax.RateTypeFixed {
			c.Amount = r.Rate
		} else {
			c.Amount = amount.Mul(r.Rate).Div(hundred)
		}
		return c
	}), nil
}

func (s *taxCalculator) Calculate(ctx context.Context, amount decimal.Decimal, taxClassID int) (decimal.Decimal, error) {
	components, err := s.GetRates(ctx, amount, taxClassID)
	if err != nil {
		return decimal.Zero, err
	}

	total := amount
	for _, c := range components {
		total = total.Add(c.Amount)
	}
	return total, nil
}

var hundred = decimal.NewFromInt(100)

// LeadingRate is the first percentage rate of the components. The gateway accepts a
// single VAT rate per line, so any further rates of the class are not reported.
func LeadingRate(components []TaxComponent) decimal.Decimal {
	c, ok := lo.Find(components, func(c TaxComponent) bool {
		return c.Type == tax.RateTypePercentage
	})
	if !ok {
		return decimal.Zero
	}
	return c.Rate
}

// percentageTaxes sums the amounts of the percentage components
func percentageTaxes(components []TaxComponent) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range components {
		if c.Type == tax.RateTypePercentage {
			sum = sum.Add(c.Amount)
		}
	}
	return sum
}
