package postgres

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/paymentlink"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
)

type paymentLinkRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentLinkRepository(db *postgres.DB, logger *logger.Logger) paymentlink.Repository {
	return &paymentLinkRepository{
		db:     db,
		logger: logger,
	}
}

const paymentLinkColumns = `payment_link_id, order_id, amount, currency, date_created, date_payment`

func (r *paymentLinkRepository) Create(ctx context.Context, l *paymentlink.Link) error {
	if l.DateCreated.IsZero() {
		l.DateCreated = time.Now().UTC()
	}
	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		INSERT INTO mollie_payment_links (`+paymentLinkColumns+`)
		VALUES (:payment_link_id, :order_id, :amount, :currency, :date_created, :date_payment)`, l)
	if err != nil {
		return execError(err, "payment link")
	}
	return nil
}

func (r *paymentLinkRepository) Get(ctx context.Context, paymentLinkID string) (*paymentlink.Link, error) {
	var l paymentlink.Link
	err := r.db.GetQuerier(ctx).GetContext(ctx, &l,
		`SELECT `+paymentLinkColumns+` FROM mollie_payment_links WHERE payment_link_id = $1`, paymentLinkID)
	if err != nil {
		return nil, queryError(err, "Payment link")
	}
	return &l, nil
}

func (r *paymentLinkRepository) GetByOrderID(ctx context.Context, orderID int) (*paymentlink.Link, error) {
	var l paymentlink.Link
	err := r.db.GetQuerier(ctx).GetContext(ctx, &l,
		`SELECT `+paymentLinkColumns+` FROM mollie_payment_links WHERE order_id = $1 ORDER BY date_created DESC LIMIT 1`, orderID)
	if err != nil {
		return nil, queryError(err, "Payment link")
	}
	return &l, nil
}

func (r *paymentLinkRepository) SetDatePayment(ctx context.Context, paymentLinkID string, paidAt time.Time) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE mollie_payment_links SET date_payment = $1 WHERE payment_link_id = $2`, paidAt, paymentLinkID)
	if err != nil {
		return execError(err, "payment link")
	}
	return nil
}
