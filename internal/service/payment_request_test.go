package service

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		name     string
		session  string
		screen   string
		expected string
	}{
		{name: "session language wins", session: "nl-nl", screen: "de-de", expected: "nl_NL"},
		{name: "bare language code", session: "de", screen: "", expected: "de_DE"},
		{name: "british english maps to us", session: "xx", screen: "en-gb", expected: "en_US"},
		{name: "british session maps to us", session: "en-GB", screen: "nl-NL", expected: "en_US"},
		{name: "english session maps to us", session: "en", screen: "nl-NL", expected: "en_US"},
		{name: "unsupported session falls back", session: "xx-yy", screen: "fr-be", expected: "fr_BE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveLocale(tt.session, tt.screen))
		})
	}
}

func TestCheckAddress(t *testing.T) {
	full := testAddress()

	t.Run("complete addresses pass", func(t *testing.T) {
		o := &order.Order{PaymentAddress: full, ShippingAddress: full}
		assert.NoError(t, CheckAddress(o, true, true))
	})

	t.Run("missing billing postcode", func(t *testing.T) {
		billing := full
		billing.Postcode = ""
		o := &order.Order{PaymentAddress: billing, ShippingAddress: full}

		err := CheckAddress(o, true, true)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
		assert.Contains(t, errors.FlattenHints(err), "Billing Postcode")
	})

	t.Run("countries without postcodes are exempt", func(t *testing.T) {
		billing := full
		billing.Postcode = ""
		billing.CountryISO2 = "ae"
		o := &order.Order{PaymentAddress: billing}
		assert.NoError(t, CheckAddress(o, true, false))
	})

	t.Run("billing not checked when disabled", func(t *testing.T) {
		o := &order.Order{ShippingAddress: full}
		assert.NoError(t, CheckAddress(o, false, true))
	})

	t.Run("missing shipping city", func(t *testing.T) {
		shipping := full
		shipping.City = " "
		o := &order.Order{ShippingAddress: shipping}

		err := CheckAddress(o, false, true)
		require.Error(t, err)
		assert.Contains(t, errors.FlattenHints(err), "Shipping City")
	})
}

func TestExpiryDate(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.Empty(t, ExpiryDate(0, now))
	assert.Equal(t, "2026-01-20", ExpiryDate(10, now))
	assert.Equal(t, now.AddDate(0, 0, 100).Format(types.DateFormat), ExpiryDate(250, now))
}

func TestPaymentDescription(t *testing.T) {
	assert.Equal(t, "Bestelling 42", PaymentDescription("Bestelling %", 42))
	assert.Equal(t, "Order 42", PaymentDescription("", 42))
}

func TestRequestBuilder(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Mollie.PublicURL = "https://gateway.example.test/"
	b := NewRequestBuilder(cfg)

	o := &order.Order{
		ID:              42,
		Email:           "anna@example.test",
		PaymentAddress:  testAddress(),
		ShippingAddress: testAddress(),
		Total:           d("121.00"),
		CurrencyCode:    "EUR",
		CurrencyValue:   decimal.NewFromInt(1),
	}
	settings := cfg.Store
	settings.CheckoutPaymentAddress = true

	in := &PaymentRequestInput{
		Order:            o,
		Settings:         settings,
		Method:           "ideal",
		Issuer:           "ideal_INGBNL2A",
		Language:         "nl-nl",
		CustomerID:       "cst_1",
		HasSubscription:  true,
		ShippingRequired: true,
		Now:              time.Now(),
	}

	t.Run("order resource", func(t *testing.T) {
		req, err := b.BuildOrderRequest(in)
		require.NoError(t, err)

		assert.Equal(t, "121.00", req.Amount.Value)
		assert.Equal(t, "42", req.OrderNumber)
		assert.Equal(t, "nl_NL", req.Locale)
		assert.Equal(t, "https://gateway.example.test/v1/webhook", req.WebhookURL)
		assert.Equal(t, "https://gateway.example.test/v1/checkout/return?order_id=42", req.RedirectURL)
		assert.Equal(t, "Anna", req.BillingAddress.GivenName)
		assert.Equal(t, "anna@example.test", req.ShippingAddress.Email)
		assert.Equal(t, "cst_1", req.Payment.CustomerID)
		assert.Equal(t, types.SequenceTypeFirst, req.Payment.SequenceType)
		assert.Equal(t, 42, req.Metadata["order_id"])
	})

	t.Run("payment resource", func(t *testing.T) {
		req, err := b.BuildPaymentRequest(in)
		require.NoError(t, err)

		assert.Equal(t, "Order 42", req.Description)
		assert.Equal(t, "ideal_INGBNL2A", req.Issuer)
		assert.Empty(t, req.BillingAddress.GivenName)
		assert.Equal(t, "cst_1", req.CustomerID)
	})

	t.Run("customer only linked with a mandate for single click", func(t *testing.T) {
		single := *in
		single.HasSubscription = false
		single.SingleClick = true

		req, err := b.BuildPaymentRequest(&single)
		require.NoError(t, err)
		assert.Empty(t, req.CustomerID)

		single.HasMandate = true
		req, err = b.BuildPaymentRequest(&single)
		require.NoError(t, err)
		assert.Equal(t, "cst_1", req.CustomerID)
	})
}

func TestResourceKindFor(t *testing.T) {
	assert.Equal(t, types.ResourceKindOrder, ResourceKindFor("klarnapaylater", true))
	assert.Equal(t, types.ResourceKindOrder, ResourceKindFor("mollie_klarna_pay_later", true))
	assert.Equal(t, types.ResourceKindPayment, ResourceKindFor("ideal", true))
	assert.Equal(t, types.ResourceKindOrder, ResourceKindFor("ideal", false))
}
