package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

const maxExpiryDays = 100

// countries without postal codes
var noPostcodeCountries = []string{
	"AE", "AN", "AO", "AW", "BF", "BI", "BJ", "BO", "BS", "BV", "BW", "BZ", "CD", "CF", "CG", "CI", "CK",
	"CM", "DJ", "DM", "ER", "FJ", "GA", "GD", "GH", "GM", "GN", "GQ", "GY", "HK", "JM", "KE", "KI", "KM",
	"KN", "KP", "LC", "ML", "MO", "MR", "MS", "MU", "MW", "NA", "NR", "NU", "PA", "QA", "RW", "SB", "SC",
	"SL", "SO", "SR", "ST", "SY", "TF", "TK", "TL", "TO", "TT", "TV", "UG", "VU", "YE", "ZM", "ZW",
}

// locales accepted by the hosted payment screen
var acceptedLocales = []string{
	"en_US", "nl_NL", "nl_BE", "fr_FR", "fr_BE", "de_DE", "de_AT",
	"de_CH", "es_ES", "ca_ES", "pt_PT", "it_IT", "nb_NO", "sv_SE",
	"fi_FI", "da_DK", "is_IS", "hu_HU", "pl_PL", "lv_LV", "lt_LT",
}

// CheckAddress reports the first required address field missing on the order
func CheckAddress(o *order.Order, billingEnabled, shippingRequired bool) error {
	if billingEnabled {
		if field := missingAddressField(o.PaymentAddress); field != "" {
			return missingFieldError("Billing " + field)
		}
	}
	if shippingRequired {
		if field := missingAddressField(o.ShippingAddress); field != "" {
			return missingFieldError("Shipping " + field)
		}
	}
	return nil
}

func missingAddressField(a order.Address) string {
	switch {
	case strings.TrimSpace(a.Firstname) == "":
		return "Firstname"
	case strings.TrimSpace(a.Lastname) == "":
		return "Lastname"
	case strings.TrimSpace(a.Address1) == "":
		return "Street"
	case strings.TrimSpace(a.City) == "":
		return "City"
	case strings.TrimSpace(a.Postcode) == "" && !lo.Contains(noPostcodeCountries, strings.ToUpper(a.CountryISO2)):
		return "Postcode"
	}
	return ""
}

func missingFieldError(field string) error {
	return ierr.NewError("required address field is empty").
		WithHintf("Please fill in the required field: %s", field).
		WithReportableDetails(map[string]any{"field": field}).
		Mark(ierr.ErrValidation)
}

// toGatewayAddress maps an order address. Order resources carry the customer's name
// and email, payment resources only the postal part.
func toGatewayAddress(o *order.Order, a order.Address, itemized bool) *mollie.Address {
	addr := &mollie.Address{
		StreetAndNumber:  a.Address1,
		StreetAdditional: a.Address2,
		City:             a.City,
		Region:           a.Zone,
		PostalCode:       a.Postcode,
		Country:          a.CountryISO2,
	}
	if itemized {
		addr.GivenName = a.Firstname
		addr.FamilyName = a.Lastname
		addr.Email = o.Email
		addr.OrganizationName = a.Company
	}
	return addr
}

// resolveAddresses builds the billing and shipping blocks. An absent block falls back
// to the other one; the request cannot be made when neither resolves.
func resolveAddresses(o *order.Order, billingEnabled, shippingRequired, itemized bool) (billing, shipping *mollie.Address, err error) {
	if billingEnabled {
		billing = toGatewayAddress(o, o.PaymentAddress, itemized)
	}

	if shippingRequired {
		if o.ShippingAddress.Firstname != "" || o.ShippingAddress.Lastname != "" {
			shipping = toGatewayAddress(o, o.ShippingAddress, itemized)
		} else if billing != nil {
			shipping = billing
		}
	}

	if billing == nil {
		if shipping == nil {
			return nil, nil, ierr.NewError("no billing or shipping address available").
				WithHint("A billing address is required to pay for this order").
				Mark(ierr.ErrValidation)
		}
		billing = shipping
	}
	return billing, shipping, nil
}

// ResolveLocale maps a storefront language code onto a payment screen locale
func ResolveLocale(sessionLanguage, paymentScreenLanguage string) string {
	locale := normalizeEnglish(languageToLocale(sessionLanguage))
	if !lo.Contains(acceptedLocales, locale) {
		locale = normalizeEnglish(languageToLocale(paymentScreenLanguage))
	}
	return locale
}

// en_GB and en_EN are not offered by the payment screen
func normalizeEnglish(locale string) string {
	switch strings.ToLower(locale) {
	case "en_gb", "en_en":
		return "en_US"
	}
	return locale
}

// languageToLocale turns "xx-YY" into "xx_YY" and a bare "xx" into "xx_XX"
func languageToLocale(code string) string {
	if lang, country, ok := strings.Cut(code, "-"); ok {
		return strings.ToLower(lang) + "_" + strings.ToUpper(country)
	}
	return strings.ToLower(code) + "_" + strings.ToUpper(code)
}

// ExpiryDate is the date an unpaid order resource expires, empty when expiry is off
func ExpiryDate(expiryDays int, now time.Time) string {
	if expiryDays <= 0 {
		return ""
	}
	return now.AddDate(0, 0, min(expiryDays, maxExpiryDays)).Format(types.DateFormat)
}

// PaymentDescription fills the configured template, "%" standing for the order id
func PaymentDescription(template string, orderID int) string {
	if template == "" {
		template = "Order %"
	}
	return strings.ReplaceAll(template, "%", strconv.Itoa(orderID))
}

// PaymentRequestInput collects what a gateway request is built from
type PaymentRequestInput struct {
	Order    *order.Order
	Settings config.StoreSettings
	// PinnedCurrencyValue is the storefront value of the currency the store pins
	PinnedCurrencyValue decimal.Decimal
	Method   string
	Issuer   string
	// CardToken comes from the embedded card form
	CardToken        string
	Language         string
	CustomerID       string
	HasMandate       bool
	SingleClick      bool
	HasSubscription  bool
	ShippingRequired bool
	Lines            []OrderLine
	Now              time.Time
}

// linkCustomer reports whether the request carries the customer id
func (in *PaymentRequestInput) linkCustomer() bool {
	if in.CustomerID == "" {
		return false
	}
	return (in.SingleClick && in.HasMandate) || in.HasSubscription
}

// RequestBuilder renders gateway create requests for storefront orders
type RequestBuilder struct {
	cfg *config.Configuration
}

func NewRequestBuilder(cfg *config.Configuration) *RequestBuilder {
	return &RequestBuilder{cfg: cfg}
}

func (b *RequestBuilder) WebhookURL() string {
	return strings.TrimSuffix(b.cfg.Mollie.PublicURL, "/") + "/v1/webhook"
}

func (b *RequestBuilder) ReturnURL(orderID int) string {
	return fmt.Sprintf("%s/v1/checkout/return?order_id=%d", strings.TrimSuffix(b.cfg.Mollie.PublicURL, "/"), orderID)
}

func (b *RequestBuilder) PaymentLinkReturnURL(orderID int) string {
	return fmt.Sprintf("%s/v1/checkout/payment-link/return?order_id=%d", strings.TrimSuffix(b.cfg.Mollie.PublicURL, "/"), orderID)
}

// BuildOrderRequest renders an itemized order resource
func (b *RequestBuilder) BuildOrderRequest(in *PaymentRequestInput) (*mollie.CreateOrderRequest, error) {
	o := in.Order
	if err := CheckAddress(o, in.Settings.CheckoutPaymentAddress, in.ShippingRequired); err != nil {
		return nil, err
	}
	billing, shipping, err := resolveAddresses(o, in.Settings.CheckoutPaymentAddress, in.ShippingRequired, true)
	if err != nil {
		return nil, err
	}

	m := orderMoney(o, in.Settings, in.PinnedCurrencyValue)
	req := &mollie.CreateOrderRequest{
		Amount:          m.amount(m.convert(o.Total)),
		OrderNumber:     strconv.Itoa(o.ID),
		Lines:           lo.Map(in.Lines, func(l OrderLine, _ int) mollie.OrderLine { return l.ToMollie(m) }),
		BillingAddress:  billing,
		ShippingAddress: shipping,
		RedirectURL:     b.ReturnURL(o.ID),
		WebhookURL:      b.WebhookURL(),
		Locale:          ResolveLocale(in.Language, in.Settings.PaymentScreenLanguage),
		Method:          in.Method,
		Metadata:        mollie.Metadata{"order_id": o.ID},
		ExpiresAt:       ExpiryDate(in.Settings.OrderExpiryDays, in.Now),
		Payment: &mollie.OrderPaymentOptions{
			Issuer:     in.Issuer,
			CardToken:  in.CardToken,
			WebhookURL: b.WebhookURL(),
		},
	}

	if in.linkCustomer() {
		req.Payment.CustomerID = in.CustomerID
	}
	if in.HasSubscription {
		req.Payment.SequenceType = types.SequenceTypeFirst
	}
	return req, nil
}

// BuildPaymentRequest renders a flat payment resource
func (b *RequestBuilder) BuildPaymentRequest(in *PaymentRequestInput) (*mollie.CreatePaymentRequest, error) {
	o := in.Order
	if err := CheckAddress(o, in.Settings.CheckoutPaymentAddress, in.ShippingRequired); err != nil {
		return nil, err
	}
	billing, shipping, err := resolveAddresses(o, in.Settings.CheckoutPaymentAddress, in.ShippingRequired, false)
	if err != nil {
		return nil, err
	}

	m := orderMoney(o, in.Settings, in.PinnedCurrencyValue)
	req := &mollie.CreatePaymentRequest{
		Amount:          m.amount(m.convert(o.Total)),
		Description:     PaymentDescription(in.Settings.PaymentDescription, o.ID),
		RedirectURL:     b.ReturnURL(o.ID),
		WebhookURL:      b.WebhookURL(),
		Locale:          ResolveLocale(in.Language, in.Settings.PaymentScreenLanguage),
		Method:          in.Method,
		Metadata:        mollie.Metadata{"order_id": o.ID},
		Issuer:          in.Issuer,
		CardToken:       in.CardToken,
		BillingAddress:  billing,
		ShippingAddress: shipping,
	}

	if in.linkCustomer() {
		req.CustomerID = in.CustomerID
	}
	if in.HasSubscription {
		req.SequenceType = types.SequenceTypeFirst
	}
	return req, nil
}
