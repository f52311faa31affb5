package postgres

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/refund"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

type refundRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewRefundRepository(db *postgres.DB, logger *logger.Logger) refund.Repository {
	return &refundRepository{
		db:     db,
		logger: logger,
	}
}

func (r *refundRepository) Create(ctx context.Context, rf *refund.Refund) error {
	if rf.ID == "" {
		rf.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFUND)
	}
	if rf.DateCreated.IsZero() {
		rf.DateCreated = time.Now().UTC()
	}

	r.logger.Debugw("creating refund",
		"refund_id", rf.RefundID,
		"order_id", rf.OrderID,
		"amount", rf.Amount,
	)

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		INSERT INTO mollie_refunds (id, refund_id, order_id, transaction_id, mollie_order_id, amount, currency, status, date_created)
		VALUES (:id, :refund_id, :order_id, :transaction_id, :mollie_order_id, :amount, :currency, :status, :date_created)`, rf)
	if err != nil {
		return execError(err, "refund")
	}
	return nil
}

func (r *refundRepository) ListByOrderID(ctx context.Context, orderID int) ([]*refund.Refund, error) {
	var refunds []*refund.Refund
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &refunds, `
		SELECT id, refund_id, order_id, transaction_id, mollie_order_id, amount, currency, status, date_created
		FROM mollie_refunds
		WHERE order_id = $1
		ORDER BY date_created`, orderID)
	if err != nil {
		return nil, queryError(err, "refunds")
	}
	return refunds, nil
}
