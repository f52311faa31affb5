package service

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentMethod describes a gateway payment method as offered at checkout
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// ForceOrderAPI is set for methods that need itemized order resources
	ForceOrderAPI bool            `json:"force_order_api"`
	MinAmount     decimal.Decimal `json:"min_amount"`
	// MaxAmount is zero when the method has no upper limit
	MaxAmount decimal.Decimal `json:"max_amount"`
	// Currencies limits the method to these currencies, empty means any
	Currencies []string `json:"currencies,omitempty"`
	HasIssuers bool     `json:"has_issuers"`
}

// IsAvailable reports whether the method can be used for amount in currency
func (m PaymentMethod) IsAvailable(amount decimal.Decimal, currency string) bool {
	if len(m.Currencies) > 0 && !lo.Contains(m.Currencies, strings.ToUpper(currency)) {
		return false
	}
	if amount.LessThan(m.MinAmount) {
		return false
	}
	if m.MaxAmount.IsPositive() && amount.GreaterThan(m.MaxAmount) {
		return false
	}
	return true
}

func amt(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var paymentMethods = []PaymentMethod{
	{ID: "ideal", Name: "iDEAL", MinAmount: amt("0.01"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}, HasIssuers: true},
	{ID: "creditcard", Name: "Card", MinAmount: amt("0.01"), MaxAmount: amt("10000")},
	{ID: "bancontact", Name: "Bancontact", MinAmount: amt("0.02"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}},
	{ID: "banktransfer", Name: "Bank transfer", MinAmount: amt("0.01"), MaxAmount: amt("1000000")},
	{ID: "belfius", Name: "Belfius Pay Button", MinAmount: amt("0.01"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}},
	{ID: "eps", Name: "EPS", MinAmount: amt("1.00"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}},
	{ID: "giropay", Name: "Giropay", MinAmount: amt("1.00"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}},
	{ID: "kbc", Name: "KBC/CBC Payment Button", MinAmount: amt("0.01"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}, HasIssuers: true},
	{ID: "paypal", Name: "PayPal", MinAmount: amt("0.01"), MaxAmount: amt("10000")},
	{ID: "applepay", Name: "Apple Pay", MinAmount: amt("0.01"), MaxAmount: amt("10000")},
	{ID: "przelewy24", Name: "Przelewy24", MinAmount: amt("0.01"), MaxAmount: amt("12815"), Currencies: []string{"PLN", "EUR"}},
	{ID: "directdebit", Name: "SEPA Direct Debit", MinAmount: amt("0.01"), MaxAmount: amt("1000"), Currencies: []string{"EUR"}},
	{ID: "mybank", Name: "MyBank", MinAmount: amt("0.01"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}},
	{ID: "trustly", Name: "Trustly", MinAmount: amt("0.01"), MaxAmount: amt("10000"), Currencies: []string{"EUR"}},
	{ID: "twint", Name: "TWINT", MinAmount: amt("0.01"), MaxAmount: amt("5000"), Currencies: []string{"CHF"}},
	{ID: "blik", Name: "BLIK", MinAmount: amt("0.01"), MaxAmount: amt("10000"), Currencies: []string{"PLN"}},
	{ID: "bancomatpay", Name: "Bancomat Pay", MinAmount: amt("0.01"), MaxAmount: amt("10000"), Currencies: []string{"EUR"}},
	{ID: "klarnapaylater", Name: "Pay later.", ForceOrderAPI: true, MinAmount: amt("0.01"), MaxAmount: amt("2000")},
	{ID: "klarnapaynow", Name: "Pay now.", ForceOrderAPI: true, MinAmount: amt("0.01"), MaxAmount: amt("2000")},
	{ID: "klarnasliceit", Name: "Slice it.", ForceOrderAPI: true, MinAmount: amt("0.01"), MaxAmount: amt("2000")},
	{ID: "klarna", Name: "Klarna", ForceOrderAPI: true, MinAmount: amt("0.01"), MaxAmount: amt("10000")},
	{ID: "in3", Name: "in3", ForceOrderAPI: true, MinAmount: amt("100.00"), MaxAmount: amt("5000"), Currencies: []string{"EUR"}},
	{ID: "billie", Name: "Billie", ForceOrderAPI: true, MinAmount: amt("0.01"), MaxAmount: amt("50000"), Currencies: []string{"EUR"}},
	{ID: "riverty", Name: "Riverty", ForceOrderAPI: true, MinAmount: amt("50.00"), MaxAmount: amt("2000"), Currencies: []string{"EUR"}},
	{ID: "voucher", Name: "Vouchers", ForceOrderAPI: true, MinAmount: amt("1.00"), MaxAmount: amt("100000"), Currencies: []string{"EUR"}},
}

// GetPaymentMethod looks a method up by id, ignoring underscores and a "mollie_" prefix
func GetPaymentMethod(id string) (PaymentMethod, bool) {
	id = strings.ReplaceAll(strings.TrimPrefix(strings.ToLower(id), "mollie_"), "_", "")
	return lo.Find(paymentMethods, func(m PaymentMethod) bool { return m.ID == id })
}

// ListAvailableMethods returns the methods usable for amount in currency, in display order
func ListAvailableMethods(amount decimal.Decimal, currency string) []PaymentMethod {
	return lo.Filter(paymentMethods, func(m PaymentMethod, _ int) bool {
		return m.IsAvailable(amount, currency)
	})
}

// ResourceKindFor decides whether a method is charged through an order or a payment resource
func ResourceKindFor(methodID string, usePaymentsAPI bool) types.ResourceKind {
	if m, ok := GetPaymentMethod(methodID); ok && m.ForceOrderAPI {
		return types.ResourceKindOrder
	}
	if usePaymentsAPI {
		return types.ResourceKindPayment
	}
	return types.ResourceKindOrder
}
