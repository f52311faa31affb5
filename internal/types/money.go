package types

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies are settled in whole units by the gateway
var zeroDecimalCurrencies = []string{"ISK", "JPY"}

var hundred = decimal.NewFromInt(100)

// CurrencyPrecision returns the number of decimals an amount in currency carries
func CurrencyPrecision(currency string) int32 {
	if lo.Contains(zeroDecimalCurrencies, strings.ToUpper(currency)) {
		return 0
	}
	return 2
}

// RoundAmount rounds half away from zero to the currency precision
func RoundAmount(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(CurrencyPrecision(currency))
}

// FormatAmount renders amount as a fixed point string with "." and no grouping
func FormatAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(CurrencyPrecision(currency))
}

// FormatRate renders a VAT rate, always with two decimals
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(2)
}

// ConvertAmount converts an amount in the store default currency into currency
// using the currency value of the order and rounds it to the currency precision.
func ConvertAmount(amount, currencyValue decimal.Decimal, currency string) decimal.Decimal {
	if currencyValue.IsZero() {
		currencyValue = decimal.NewFromInt(1)
	}
	return RoundAmount(amount.Mul(currencyValue), currency)
}

// VATFromInclusive backs the VAT out of a tax inclusive amount: total*rate/(100+rate)
func VATFromInclusive(total, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return total.Mul(rate).Div(hundred.Add(rate))
}

// ParseAmount parses a gateway amount value, returning zero for empty or malformed input
func ParseAmount(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}
