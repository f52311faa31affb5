package postgres

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

type molliePaymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewMolliePaymentRepository(db *postgres.DB, logger *logger.Logger) molliepayment.Repository {
	return &molliePaymentRepository{
		db:     db,
		logger: logger,
	}
}

const molliePaymentColumns = `id, order_id, payment_attempt, mollie_order_id, transaction_id, method,
	bank_account, bank_status, amount, currency, refund_id, mollie_subscription_id,
	order_subscription_id, next_payment, subscription_end, date_modified`

// Create numbers the attempt inside a transaction so concurrent checkouts of one order
// cannot claim the same attempt
func (r *molliePaymentRepository) Create(ctx context.Context, rec *molliepayment.Record) error {
	if rec.ID == "" {
		rec.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MOLLIE_PAYMENT)
	}
	rec.DateModified = time.Now().UTC()

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		var last int
		err := q.GetContext(ctx, &last,
			`SELECT COALESCE(MAX(payment_attempt), 0) FROM mollie_payments WHERE order_id = $1`,
			rec.OrderID)
		if err != nil {
			return queryError(err, "payment attempts")
		}
		rec.PaymentAttempt = last + 1

		r.logger.Debugw("creating mollie payment record",
			"order_id", rec.OrderID,
			"payment_attempt", rec.PaymentAttempt,
			"mollie_order_id", rec.MollieOrderID,
			"transaction_id", rec.TransactionID,
		)

		_, err = q.NamedExecContext(ctx, `
			INSERT INTO mollie_payments (`+molliePaymentColumns+`)
			VALUES (:id, :order_id, :payment_attempt, :mollie_order_id, :transaction_id, :method,
				:bank_account, :bank_status, :amount, :currency, :refund_id, :mollie_subscription_id,
				:order_subscription_id, :next_payment, :subscription_end, :date_modified)`, rec)
		if err != nil {
			return execError(err, "payment record")
		}
		return nil
	})
}

func (r *molliePaymentRepository) get(ctx context.Context, where string, args ...interface{}) (*molliepayment.Record, error) {
	var rec molliepayment.Record
	err := r.db.GetQuerier(ctx).GetContext(ctx, &rec,
		`SELECT `+molliePaymentColumns+` FROM mollie_payments WHERE `+where+` ORDER BY payment_attempt DESC LIMIT 1`,
		args...)
	if err != nil {
		return nil, queryError(err, "Payment record")
	}
	return &rec, nil
}

func (r *molliePaymentRepository) GetLatestByOrderID(ctx context.Context, orderID int) (*molliepayment.Record, error) {
	return r.get(ctx, `order_id = $1`, orderID)
}

func (r *molliePaymentRepository) GetByMollieOrderID(ctx context.Context, orderID int, mollieOrderID string) (*molliepayment.Record, error) {
	return r.get(ctx, `order_id = $1 AND mollie_order_id = $2`, orderID, mollieOrderID)
}

func (r *molliePaymentRepository) GetByTransactionID(ctx context.Context, orderID int, transactionID string) (*molliepayment.Record, error) {
	return r.get(ctx, `order_id = $1 AND transaction_id = $2`, orderID, transactionID)
}

func (r *molliePaymentRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*molliepayment.Record, error) {
	return r.get(ctx, `mollie_subscription_id = $1`, subscriptionID)
}

func (r *molliePaymentRepository) Update(ctx context.Context, rec *molliepayment.Record) error {
	if rec.MollieOrderID == "" && rec.TransactionID == "" {
		return ierr.NewError("payment record has no remote id").
			WithHint("A payment record needs an order or transaction id to be updated").
			Mark(ierr.ErrValidation)
	}
	rec.DateModified = time.Now().UTC()

	where := `order_id = :order_id AND transaction_id = :transaction_id`
	if rec.MollieOrderID != "" {
		where = `order_id = :order_id AND mollie_order_id = :mollie_order_id`
	}

	r.logger.Debugw("updating mollie payment record",
		"order_id", rec.OrderID,
		"mollie_order_id", rec.MollieOrderID,
		"transaction_id", rec.TransactionID,
		"bank_status", rec.BankStatus,
	)

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		UPDATE mollie_payments SET
			transaction_id = :transaction_id,
			method = :method,
			bank_account = :bank_account,
			bank_status = :bank_status,
			amount = :amount,
			currency = :currency,
			refund_id = :refund_id,
			mollie_subscription_id = :mollie_subscription_id,
			order_subscription_id = :order_subscription_id,
			next_payment = :next_payment,
			subscription_end = :subscription_end,
			date_modified = :date_modified
		WHERE `+where, rec)
	if err != nil {
		return execError(err, "payment record")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("payment record not found").
			WithHintf("No payment record for order %d", rec.OrderID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
