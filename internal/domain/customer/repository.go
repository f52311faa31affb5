package customer

import "context"

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Mapping, error)
	Create(ctx context.Context, m *Mapping) error
	DeleteByEmail(ctx context.Context, email string) error
}
