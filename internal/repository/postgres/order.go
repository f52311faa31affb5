package postgres

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	"github.com/shopspring/decimal"
)

// orderRepository works on the storefront order tables
type orderRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `o.order_id, o.store_id, o.store_name, o.store_url, o.customer_id,
	o.firstname, o.lastname, o.email, o.telephone,
	o.payment_firstname AS "payment.firstname", o.payment_lastname AS "payment.lastname",
	o.payment_company AS "payment.company", o.payment_address_1 AS "payment.address_1",
	o.payment_address_2 AS "payment.address_2", o.payment_city AS "payment.city",
	o.payment_postcode AS "payment.postcode", o.payment_zone AS "payment.zone",
	o.payment_iso_code_2 AS "payment.iso_code_2",
	o.shipping_firstname AS "shipping.firstname", o.shipping_lastname AS "shipping.lastname",
	o.shipping_company AS "shipping.company", o.shipping_address_1 AS "shipping.address_1",
	o.shipping_address_2 AS "shipping.address_2", o.shipping_city AS "shipping.city",
	o.shipping_postcode AS "shipping.postcode", o.shipping_zone AS "shipping.zone",
	o.shipping_iso_code_2 AS "shipping.iso_code_2",
	o.payment_method, o.shipping_method, o.total, o.currency_code, o.currency_value,
	o.language_code, o.order_status_id, o.date_added, o.date_payment`

func (r *orderRepository) Get(ctx context.Context, orderID int) (*order.Order, error) {
	var o order.Order
	err := r.db.GetQuerier(ctx).GetContext(ctx, &o,
		`SELECT `+orderColumns+` FROM orders o WHERE o.order_id = $1`, orderID)
	if err != nil {
		return nil, queryError(err, "Order")
	}
	return &o, nil
}

func (r *orderRepository) ListProducts(ctx context.Context, orderID int) ([]*order.Product, error) {
	var products []*order.Product
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &products, `
		SELECT op.order_product_id, op.order_id, op.product_id, op.name, op.model, op.quantity,
			op.price, op.tax, op.total, op.reward, op.stock_mutation,
			COALESCE(p.tax_class_id, 0) AS tax_class_id,
			COALESCE(p.voucher_category, '') AS voucher_category,
			COALESCE(p.subtract, false) AS subtract
		FROM order_products op
		LEFT JOIN products p ON p.product_id = op.product_id
		WHERE op.order_id = $1
		ORDER BY op.order_product_id`, orderID)
	if err != nil {
		return nil, queryError(err, "order products")
	}
	return products, nil
}

func (r *orderRepository) ListTotals(ctx context.Context, orderID int) ([]*order.Total, error) {
	var totals []*order.Total
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &totals, `
		SELECT order_total_id, order_id, code, title, value, sort_order
		FROM order_totals
		WHERE order_id = $1
		ORDER BY sort_order, order_total_id`, orderID)
	if err != nil {
		return nil, queryError(err, "order totals")
	}
	return totals, nil
}

func (r *orderRepository) ListVouchers(ctx context.Context, orderID int) ([]*order.Voucher, error) {
	var vouchers []*order.Voucher
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &vouchers, `
		SELECT order_voucher_id, order_id, description, amount
		FROM order_vouchers
		WHERE order_id = $1
		ORDER BY order_voucher_id`, orderID)
	if err != nil {
		return nil, queryError(err, "order vouchers")
	}
	return vouchers, nil
}

const subscriptionColumns = `order_subscription_id, order_id, order_product_id, product_name,
	price, tax, frequency, cycle, duration`

func (r *orderRepository) ListSubscriptions(ctx context.Context, orderID int) ([]*order.Subscription, error) {
	var subs []*order.Subscription
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs,
		`SELECT `+subscriptionColumns+` FROM order_subscriptions WHERE order_id = $1 ORDER BY order_subscription_id`,
		orderID)
	if err != nil {
		return nil, queryError(err, "order subscriptions")
	}
	return subs, nil
}

func (r *orderRepository) GetSubscription(ctx context.Context, orderSubscriptionID int) (*order.Subscription, error) {
	var s order.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &s,
		`SELECT `+subscriptionColumns+` FROM order_subscriptions WHERE order_subscription_id = $1`,
		orderSubscriptionID)
	if err != nil {
		return nil, queryError(err, "Order subscription")
	}
	return &s, nil
}

func (r *orderRepository) AddHistory(ctx context.Context, h *order.History) error {
	if h.DateAdded.IsZero() {
		h.DateAdded = time.Now().UTC()
	}

	r.logger.Infow("adding order history",
		"order_id", h.OrderID,
		"order_status_id", h.OrderStatusID,
	)

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)
		if _, err := q.NamedExecContext(ctx, `
			INSERT INTO order_history (order_id, order_status_id, notify, comment, date_added)
			VALUES (:order_id, :order_status_id, :notify, :comment, :date_added)`, h); err != nil {
			return execError(err, "order history")
		}
		if _, err := q.ExecContext(ctx,
			`UPDATE orders SET order_status_id = $1, date_modified = NOW() WHERE order_id = $2`,
			h.OrderStatusID, h.OrderID); err != nil {
			return execError(err, "order status")
		}
		return nil
	})
}

func (r *orderRepository) ListHistoryStatusIDs(ctx context.Context, orderID int) ([]int, error) {
	var ids []int
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &ids,
		`SELECT DISTINCT order_status_id FROM order_history WHERE order_id = $1 ORDER BY order_status_id`, orderID)
	if err != nil {
		return nil, queryError(err, "order history")
	}
	return ids, nil
}

func (r *orderRepository) SetDatePayment(ctx context.Context, orderID int, paidAt time.Time) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE orders SET date_payment = $1 WHERE order_id = $2`, paidAt, orderID)
	if err != nil {
		return execError(err, "order payment date")
	}
	return nil
}

func (r *orderRepository) AdjustStock(ctx context.Context, productID int, delta decimal.Decimal) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE products SET quantity = quantity + $1 WHERE product_id = $2 AND subtract = true`,
		delta, productID)
	if err != nil {
		return execError(err, "product stock")
	}
	return nil
}

func (r *orderRepository) SetStockMutation(ctx context.Context, orderProductID int, mutated bool) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE order_products SET stock_mutation = $1 WHERE order_product_id = $2`, mutated, orderProductID)
	if err != nil {
		return execError(err, "order product")
	}
	return nil
}

// Create copies the order header and inserts products and totals in one transaction
func (r *orderRepository) Create(ctx context.Context, o *order.Order, products []*order.Product, totals []*order.Total) (int, error) {
	if o.DateAdded.IsZero() {
		o.DateAdded = time.Now().UTC()
	}

	var orderID int
	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		err := q.QueryRowxContext(ctx, `
			INSERT INTO orders (store_id, store_name, store_url, customer_id, firstname, lastname, email, telephone,
				payment_firstname, payment_lastname, payment_company, payment_address_1, payment_address_2,
				payment_city, payment_postcode, payment_zone, payment_iso_code_2,
				shipping_firstname, shipping_lastname, shipping_company, shipping_address_1, shipping_address_2,
				shipping_city, shipping_postcode, shipping_zone, shipping_iso_code_2,
				payment_method, shipping_method, total, currency_code, currency_value, language_code,
				order_status_id, date_added, date_modified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
				$9, $10, $11, $12, $13, $14, $15, $16, $17,
				$18, $19, $20, $21, $22, $23, $24, $25, $26,
				$27, $28, $29, $30, $31, $32, $33, $34, $34)
			RETURNING order_id`,
			o.StoreID, o.StoreName, o.StoreURL, o.CustomerID, o.Firstname, o.Lastname, o.Email, o.Telephone,
			o.PaymentAddress.Firstname, o.PaymentAddress.Lastname, o.PaymentAddress.Company,
			o.PaymentAddress.Address1, o.PaymentAddress.Address2, o.PaymentAddress.City,
			o.PaymentAddress.Postcode, o.PaymentAddress.Zone, o.PaymentAddress.CountryISO2,
			o.ShippingAddress.Firstname, o.ShippingAddress.Lastname, o.ShippingAddress.Company,
			o.ShippingAddress.Address1, o.ShippingAddress.Address2, o.ShippingAddress.City,
			o.ShippingAddress.Postcode, o.ShippingAddress.Zone, o.ShippingAddress.CountryISO2,
			o.PaymentMethod, o.ShippingMethod, o.Total, o.CurrencyCode, o.CurrencyValue, o.LanguageCode,
			o.OrderStatusID, o.DateAdded,
		).Scan(&orderID)
		if err != nil {
			return execError(err, "order")
		}

		for _, p := range products {
			p.OrderID = orderID
			if _, err := q.NamedExecContext(ctx, `
				INSERT INTO order_products (order_id, product_id, name, model, quantity, price, tax, total, reward, stock_mutation)
				VALUES (:order_id, :product_id, :name, :model, :quantity, :price, :tax, :total, :reward, :stock_mutation)`, p); err != nil {
				return execError(err, "order product")
			}
		}

		for _, t := range totals {
			t.OrderID = orderID
			if _, err := q.NamedExecContext(ctx, `
				INSERT INTO order_totals (order_id, code, title, value, sort_order)
				VALUES (:order_id, :code, :title, :value, :sort_order)`, t); err != nil {
				return execError(err, "order total")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	o.ID = orderID
	return orderID, nil
}
