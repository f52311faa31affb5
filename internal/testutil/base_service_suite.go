package testutil

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/cache"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/sentry"
	"github.com/shopbridge/mollie-gateway/internal/session"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopbridge/mollie-gateway/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the in-memory repositories for testing
type Stores struct {
	OrderRepo               *InMemoryOrderStore
	PaymentRecordRepo       *InMemoryPaymentRecordStore
	RefundRepo              *InMemoryRefundStore
	SubscriptionPaymentRepo *InMemorySubscriptionPaymentStore
	CustomerRepo            *InMemoryCustomerStore
	PaymentLinkRepo         *InMemoryPaymentLinkStore
	CouponRepo              *InMemoryCouponStore
	TaxRepo                 *InMemoryTaxStore
	CurrencyRepo            *InMemoryCurrencyStore
}

// Test status ids of the default store
const (
	StatusPending       = 1
	StatusProcessing    = 2
	StatusShipped       = 3
	StatusComplete      = 5
	StatusCanceled      = 7
	StatusRefunded      = 11
	StatusFailed        = 10
	StatusExpired       = 14
	StatusPartialRefund = 15
)

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	gateway *FakeGateway
	mailer  *FakeMailer
	cache   *cache.InMemoryCache
	session *session.Store
	sentry  *sentry.Service
	logger  *logger.Logger
	config  *config.Configuration
	now     time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()
	s.logger = logger.NewNoopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.config = NewTestConfig()
	s.ctx = SetupContext()
	s.cache = cache.NewInMemoryCache()
	s.session = session.NewStore(s.config, s.cache, s.logger)
	s.sentry = sentry.NewSentryService(s.config, s.logger)
	s.gateway = NewFakeGateway()
	s.mailer = NewFakeMailer()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
	s.cache.Flush()
}

// NewTestConfig returns a configuration with a fully configured default store
func NewTestConfig() *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Server.Address = ":0"
	cfg.Mollie = config.MollieConfig{
		APIKey:        "test_key",
		BaseURL:       "https://api.mollie.test/v2",
		PublicURL:     "https://gateway.example.test",
		StorefrontURL: "https://shop.example.test",
	}
	cfg.Session = config.SessionConfig{Backend: "memory", CookieName: "mollie_session", TTLMinutes: 30}
	cfg.Store.StoreName = "Test Store"
	cfg.Store.PendingStatusID = StatusPending
	cfg.Store.ProcessingStatusID = StatusProcessing
	cfg.Store.CanceledStatusID = StatusCanceled
	cfg.Store.ExpiredStatusID = StatusExpired
	cfg.Store.FailedStatusID = StatusFailed
	cfg.Store.RefundStatusID = StatusRefunded
	cfg.Store.PartialRefundStatusID = StatusPartialRefund
	cfg.Store.ShippingStatusID = StatusShipped
	cfg.Store.OrderStatusID = StatusPending
	cfg.Store.ProcessingStatusIDs = []int{StatusProcessing, StatusShipped}
	cfg.Store.CompleteStatusIDs = []int{StatusComplete}
	cfg.Store.OrderExpiryDays = 25
	cfg.Store.TotalTaxClasses = map[string]int{"shipping": 9}
	cfg.Store.PaymentLinkEmail = config.EmailTemplate{
		Subject: "Payment for order {order_id}",
		Body:    "Dear {firstname}, pay {amount} at {payment_link}",
	}
	cfg.Store.SubscriptionEmail = config.EmailTemplate{
		Subject: "Subscription payment for order {order_id}",
		Body:    "Dear {firstname}, your next payment for {product_name} is on {next_payment}",
	}
	return cfg
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		OrderRepo:               NewInMemoryOrderStore(),
		PaymentRecordRepo:       NewInMemoryPaymentRecordStore(),
		RefundRepo:              NewInMemoryRefundStore(),
		SubscriptionPaymentRepo: NewInMemorySubscriptionPaymentStore(),
		CustomerRepo:            NewInMemoryCustomerStore(),
		PaymentLinkRepo:         NewInMemoryPaymentLinkStore(),
		CouponRepo:              NewInMemoryCouponStore(),
		TaxRepo:                 NewInMemoryTaxStore(),
		CurrencyRepo:            NewInMemoryCurrencyStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.OrderRepo.Clear()
	s.stores.PaymentRecordRepo.Clear()
	s.stores.RefundRepo.Clear()
	s.stores.SubscriptionPaymentRepo.Clear()
	s.stores.CustomerRepo.Clear()
	s.stores.PaymentLinkRepo.Clear()
	s.stores.CouponRepo.Clear()
	s.stores.TaxRepo.Clear()
	s.stores.CurrencyRepo.Clear()
	s.gateway.Reset()
	s.mailer.Reset()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetGateway() *FakeGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetMailer() *FakeMailer {
	return s.mailer
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetSession() *session.Store {
	return s.session
}

// GetSentry returns a sentry service with reporting disabled
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
