package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/customer"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
)

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*customer.Mapping, error) {
	var m customer.Mapping
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m, `
		SELECT customer_id, email, mollie_customer_id, date_created
		FROM mollie_customers
		WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		return nil, queryError(err, "Customer")
	}
	return &m, nil
}

func (r *customerRepository) Create(ctx context.Context, m *customer.Mapping) error {
	m.Email = strings.ToLower(m.Email)
	if m.DateCreated.IsZero() {
		m.DateCreated = time.Now().UTC()
	}

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, `
		INSERT INTO mollie_customers (customer_id, email, mollie_customer_id, date_created)
		VALUES (:customer_id, :email, :mollie_customer_id, :date_created)`, m)
	if err != nil {
		return execError(err, "customer")
	}
	return nil
}

func (r *customerRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`DELETE FROM mollie_customers WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		return execError(err, "customer")
	}
	return nil
}
