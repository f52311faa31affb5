package postgres

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/subscription"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

type subscriptionPaymentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionPaymentRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionPaymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *subscriptionPaymentRepository) Create(ctx context.Context, p *subscription.Payment) error {
	if p.ID == "" {
		p.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_PAYMENT)
	}
	if p.DateCreated.IsZero() {
		p.DateCreated = time.Now().UTC()
	}

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		INSERT INTO mollie_subscription_payments (id, transaction_id, mollie_subscription_id, mollie_customer_id,
			order_subscription_id, method, status, amount, date_created)
		VALUES (:id, :transaction_id, :mollie_subscription_id, :mollie_customer_id,
			:order_subscription_id, :method, :status, :amount, :date_created)`, p)
	if err != nil {
		return execError(err, "subscription payment")
	}
	return nil
}

func (r *subscriptionPaymentRepository) ListBySubscriptionID(ctx context.Context, mollieSubscriptionID string) ([]*subscription.Payment, error) {
	var payments []*subscription.Payment
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payments, `
		SELECT id, transaction_id, mollie_subscription_id, mollie_customer_id, order_subscription_id,
			method, status, amount, date_created
		FROM mollie_subscription_payments
		WHERE mollie_subscription_id = $1
		ORDER BY date_created`, mollieSubscriptionID)
	if err != nil {
		return nil, queryError(err, "subscription payments")
	}
	return payments, nil
}
