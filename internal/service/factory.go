package service

import (
	"github.com/shopbridge/mollie-gateway/internal/cache"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/currency"
	"github.com/shopbridge/mollie-gateway/internal/domain/customer"
	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/domain/paymentlink"
	"github.com/shopbridge/mollie-gateway/internal/domain/refund"
	"github.com/shopbridge/mollie-gateway/internal/domain/subscription"
	"github.com/shopbridge/mollie-gateway/internal/domain/tax"
	"github.com/shopbridge/mollie-gateway/internal/email"
	"github.com/shopbridge/mollie-gateway/internal/idempotency"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/sentry"
	"github.com/shopbridge/mollie-gateway/internal/session"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Cache   cache.Cache
	Session *session.Store
	Sentry  *sentry.Service
	Mailer  email.Sender
	IdemGen *idempotency.Generator

	// Repositories
	PaymentRecordRepo       molliepayment.Repository
	RefundRepo              refund.Repository
	SubscriptionPaymentRepo subscription.Repository
	CustomerRepo            customer.Repository
	PaymentLinkRepo         paymentlink.Repository
	OrderRepo               order.Repository
	CouponRepo              coupon.Repository
	TaxRepo                 tax.Repository
	CurrencyRepo            currency.Repository

	Gateway mollie.Gateway
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	sessionStore *session.Store,
	sentrySvc *sentry.Service,
	mailer email.Sender,
	paymentRecordRepo molliepayment.Repository,
	refundRepo refund.Repository,
	subscriptionPaymentRepo subscription.Repository,
	customerRepo customer.Repository,
	paymentLinkRepo paymentlink.Repository,
	orderRepo order.Repository,
	couponRepo coupon.Repository,
	taxRepo tax.Repository,
	currencyRepo currency.Repository,
	gateway mollie.Gateway,
) ServiceParams {
	return ServiceParams{
		Logger:                  logger,
		Config:                  config,
		Cache:                   cache,
		Session:                 sessionStore,
		Sentry:                  sentrySvc,
		Mailer:                  mailer,
		IdemGen:                 idempotency.NewGenerator(),
		PaymentRecordRepo:       paymentRecordRepo,
		RefundRepo:              refundRepo,
		SubscriptionPaymentRepo: subscriptionPaymentRepo,
		CustomerRepo:            customerRepo,
		PaymentLinkRepo:         paymentLinkRepo,
		OrderRepo:               orderRepo,
		CouponRepo:              couponRepo,
		TaxRepo:                 taxRepo,
		CurrencyRepo:            currencyRepo,
		Gateway:                 gateway,
	}
}

// settings returns the plugin settings of the store an order belongs to
func (p ServiceParams) settings(o *order.Order) config.StoreSettings {
	if o == nil {
		return p.Config.Store
	}
	return p.Config.GetStoreSettings(o.StoreID)
}
