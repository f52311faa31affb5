package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Mollie     MollieConfig     `validate:"required"`
	Session    SessionConfig
	Redis      RedisConfig
	Sentry     SentryConfig
	Auth       AuthConfig
	Email      EmailConfig
	// Store holds the settings used when a store has no entry in Stores
	Store  StoreSettings
	Stores map[string]StoreSettings
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

// MollieConfig holds the gateway credentials and the public URLs handed to it
type MollieConfig struct {
	APIKey  string `mapstructure:"api_key" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// PublicURL is the externally reachable base of this service, used for webhook and return URLs
	PublicURL string `mapstructure:"public_url" validate:"required,url"`
	// StorefrontURL is the base of the storefront pages customers are redirected to
	StorefrontURL string `mapstructure:"storefront_url" validate:"required,url"`
}

type SessionConfig struct {
	// Backend is either "memory" or "redis"
	Backend    string `validate:"omitempty,oneof=memory redis"`
	CookieName string `mapstructure:"cookie_name"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
}

type RedisConfig struct {
	URL string
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
	ReplyTo     string `mapstructure:"reply_to"`
}

type AuthConfig struct {
	// APIKeys lists the keys accepted on admin routes
	APIKeys []string `mapstructure:"api_keys"`
}

// StoreSettings are the per-store plugin settings the storefront administers
type StoreSettings struct {
	StoreName string `mapstructure:"store_name"`
	Language  string
	// DefaultCurrency is "DEF" to use the order currency
	DefaultCurrency       string `mapstructure:"default_currency"`
	PaymentScreenLanguage string `mapstructure:"payment_screen_language"`
	PaymentDescription    string `mapstructure:"payment_description"`
	UsePaymentsAPI        bool   `mapstructure:"use_payments_api"`
	DebugMode             bool   `mapstructure:"debug_mode"`

	PendingStatusID       int `mapstructure:"pending_status_id"`
	ProcessingStatusID    int `mapstructure:"processing_status_id"`
	CanceledStatusID      int `mapstructure:"canceled_status_id"`
	ExpiredStatusID       int `mapstructure:"expired_status_id"`
	FailedStatusID        int `mapstructure:"failed_status_id"`
	RefundStatusID        int `mapstructure:"refund_status_id"`
	PartialRefundStatusID int `mapstructure:"partial_refund_status_id"`
	ShippingStatusID      int `mapstructure:"shipping_status_id"`
	OrderStatusID         int `mapstructure:"order_status_id"`

	ProcessingStatusIDs []int `mapstructure:"processing_status_ids"`
	CompleteStatusIDs   []int `mapstructure:"complete_status_ids"`

	// CreateShipment is 1 for shipping from the webhook, 2 on a specific status, 3 on any complete status
	CreateShipment         int `mapstructure:"create_shipment"`
	CreateShipmentStatusID int `mapstructure:"create_shipment_status_id"`

	OrderExpiryDays        int  `mapstructure:"order_expiry_days"`
	SingleClickPayment     bool `mapstructure:"single_click_payment"`
	PartialCreditOrder     bool `mapstructure:"partial_credit_order"`
	ShowOrderCanceledPage  bool `mapstructure:"show_order_canceled_page"`
	CheckoutPaymentAddress bool `mapstructure:"checkout_payment_address"`
	SuperCouponsEnabled    bool `mapstructure:"super_coupons_enabled"`

	// TotalTaxClasses maps an order total code to its tax class
	TotalTaxClasses map[string]int `mapstructure:"total_tax_classes"`

	SubscriptionEmail EmailTemplate `mapstructure:"subscription_email"`
	PaymentLinkEmail  EmailTemplate `mapstructure:"payment_link_email"`
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewConfig() (*Configuration, error) {
	// .env is optional, values already in the environment win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mollie-gateway")

	v.SetEnvPrefix("MOLLIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 30)
	v.SetDefault("mollie.base_url", "https://api.mollie.com/v2")
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.cookie_name", "mollie_session")
	v.SetDefault("session.ttl_minutes", 120)
	v.SetDefault("store.default_currency", "DEF")
	v.SetDefault("store.language", "en-gb")
	v.SetDefault("store.payment_screen_language", "en-gb")
	v.SetDefault("store.payment_description", "Order %")
	v.SetDefault("store.create_shipment", 3)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Store: StoreSettings{
			DefaultCurrency:       "DEF",
			Language:              "en-gb",
			PaymentScreenLanguage: "en-gb",
			PaymentDescription:    "Order %",
			CreateShipment:        3,
		},
	}
}

// GetStoreSettings returns the settings of a store, falling back to the default store
func (c *Configuration) GetStoreSettings(storeID interface{}) StoreSettings {
	if s, ok := c.Stores[cast.ToString(storeID)]; ok {
		return s
	}
	return c.Store
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

// TotalTaxClass returns the tax class configured for an order total code
func (s StoreSettings) TotalTaxClass(code string) int {
	return s.TotalTaxClasses[code]
}

// IsActiveStatus reports whether a status belongs to the processing or complete sets
func (s StoreSettings) IsActiveStatus(statusID int) bool {
	return lo.Contains(s.ProcessingStatusIDs, statusID) || s.IsCompleteStatus(statusID)
}

// IsCompleteStatus reports whether a status belongs to the complete set
func (s StoreSettings) IsCompleteStatus(statusID int) bool {
	return lo.Contains(s.CompleteStatusIDs, statusID)
}
