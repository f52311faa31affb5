package order

import (
	"strings"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// Order is the storefront order a payment is made for
type Order struct {
	ID         int    `db:"order_id" json:"order_id"`
	StoreID    int    `db:"store_id" json:"store_id"`
	StoreName  string `db:"store_name" json:"store_name"`
	StoreURL   string `db:"store_url" json:"store_url"`
	CustomerID int    `db:"customer_id" json:"customer_id"`
	Firstname  string `db:"firstname" json:"firstname"`
	Lastname   string `db:"lastname" json:"lastname"`
	Email      string `db:"email" json:"email"`
	Telephone  string `db:"telephone" json:"telephone"`

	PaymentAddress  Address `db:"payment" json:"payment_address"`
	ShippingAddress Address `db:"shipping" json:"shipping_address"`

	PaymentMethod  string `db:"payment_method" json:"payment_method"`
	ShippingMethod string `db:"shipping_method" json:"shipping_method"`

	Total         decimal.Decimal `db:"total" json:"total"`
	CurrencyCode  string          `db:"currency_code" json:"currency_code"`
	CurrencyValue decimal.Decimal `db:"currency_value" json:"currency_value"`
	LanguageCode  string          `db:"language_code" json:"language_code"`

	OrderStatusID int        `db:"order_status_id" json:"order_status_id"`
	DateAdded     time.Time  `db:"date_added" json:"date_added"`
	DatePayment   *time.Time `db:"date_payment" json:"date_payment,omitempty"`
}

// Address is a billing or shipping address snapshot on the order
type Address struct {
	Firstname   string `db:"firstname" json:"firstname"`
	Lastname    string `db:"lastname" json:"lastname"`
	Company     string `db:"company" json:"company"`
	Address1    string `db:"address_1" json:"address_1"`
	Address2    string `db:"address_2" json:"address_2"`
	City        string `db:"city" json:"city"`
	Postcode    string `db:"postcode" json:"postcode"`
	Zone        string `db:"zone" json:"zone"`
	CountryISO2 string `db:"iso_code_2" json:"iso_code_2"`
}

// IsEmpty reports whether no part of the address was captured
func (a Address) IsEmpty() bool {
	return strings.TrimSpace(a.Firstname+a.Lastname+a.Address1+a.City+a.Postcode) == ""
}

// Street joins both address lines
func (a Address) Street() string {
	return strings.TrimSpace(strings.Join([]string{a.Address1, a.Address2}, " "))
}

// Product is an order product row
type Product struct {
	OrderProductID int             `db:"order_product_id" json:"order_product_id"`
	OrderID        int             `db:"order_id" json:"order_id"`
	ProductID      int             `db:"product_id" json:"product_id"`
	Name           string          `db:"name" json:"name"`
	Model          string          `db:"model" json:"model"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	// Price and Tax are per unit in the store default currency
	Price decimal.Decimal `db:"price" json:"price"`
	Tax   decimal.Decimal `db:"tax" json:"tax"`
	Total decimal.Decimal `db:"total" json:"total"`
	// Reward is the number of reward points the product earns
	Reward          int    `db:"reward" json:"reward"`
	TaxClassID      int    `db:"tax_class_id" json:"tax_class_id"`
	VoucherCategory string `db:"voucher_category" json:"voucher_category,omitempty"`
	// Subtract is set when the product keeps stock
	Subtract bool `db:"subtract" json:"subtract"`
	// StockMutation is set once stock was moved back for this line by a refund
	StockMutation bool `db:"stock_mutation" json:"stock_mutation"`
}

// Total is an order total row such as sub_total, shipping, coupon or tax
type Total struct {
	OrderTotalID int             `db:"order_total_id" json:"order_total_id"`
	OrderID      int             `db:"order_id" json:"order_id"`
	Code         string          `db:"code" json:"code"`
	Title        string          `db:"title" json:"title"`
	Value        decimal.Decimal `db:"value" json:"value"`
	SortOrder    int             `db:"sort_order" json:"sort_order"`
}

// Voucher is a gift voucher bought with the order
type Voucher struct {
	OrderVoucherID int             `db:"order_voucher_id" json:"order_voucher_id"`
	OrderID        int             `db:"order_id" json:"order_id"`
	Description    string          `db:"description" json:"description"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
}

// History is one status change of an order
type History struct {
	OrderHistoryID int       `db:"order_history_id" json:"order_history_id"`
	OrderID        int       `db:"order_id" json:"order_id"`
	OrderStatusID  int       `db:"order_status_id" json:"order_status_id"`
	Notify         bool      `db:"notify" json:"notify"`
	Comment        string    `db:"comment" json:"comment"`
	DateAdded      time.Time `db:"date_added" json:"date_added"`
}

// Subscription is the recurring plan bought with an order product
type Subscription struct {
	OrderSubscriptionID int                         `db:"order_subscription_id" json:"order_subscription_id"`
	OrderID             int                         `db:"order_id" json:"order_id"`
	OrderProductID      int                         `db:"order_product_id" json:"order_product_id"`
	ProductName         string                      `db:"product_name" json:"product_name"`
	Price               decimal.Decimal             `db:"price" json:"price"`
	Tax                 decimal.Decimal             `db:"tax" json:"tax"`
	Frequency           types.SubscriptionFrequency `db:"frequency" json:"frequency"`
	Cycle               int                         `db:"cycle" json:"cycle"`
	// Duration is the number of cycles, zero for open ended plans
	Duration int `db:"duration" json:"duration"`
}

// TotalValue returns the value of the first total with code
func TotalValue(totals []*Total, code string) (decimal.Decimal, bool) {
	for _, t := range totals {
		if t.Code == code {
			return t.Value, true
		}
	}
	return decimal.Zero, false
}
