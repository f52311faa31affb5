package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"two decimals", "10", "EUR", "10.00"},
		{"rounds half up", "12.345", "EUR", "12.35"},
		{"negative", "-4.5", "EUR", "-4.50"},
		{"zero decimal currency", "1234.5", "JPY", "1235"},
		{"lowercase currency", "99", "isk", "99"},
		{"krona has no decimals", "1499.50", "ISK", "1500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, FormatAmount(RoundAmount(amount, tt.currency), tt.currency))
		})
	}
}

func TestConvertAmount(t *testing.T) {
	amount := decimal.RequireFromString("10")
	assert.Equal(t, "11.25", ConvertAmount(amount, decimal.RequireFromString("1.125"), "USD").StringFixed(2))
	assert.True(t, ConvertAmount(amount, decimal.Zero, "EUR").Equal(amount))
}

func TestVATFromInclusive(t *testing.T) {
	vat := VATFromInclusive(decimal.RequireFromString("121"), decimal.RequireFromString("21"))
	assert.Equal(t, "21.00", vat.StringFixed(2))
	assert.True(t, VATFromInclusive(decimal.RequireFromString("50"), decimal.Zero).IsZero())
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "10.5", ParseAmount(" 10.50 ").String())
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("ten").IsZero())
}
