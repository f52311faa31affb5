package currency

import "context"

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Currency, error)
}
