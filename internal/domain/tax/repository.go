package tax

import "context"

type Repository interface {
	// ListByClass returns the rates of a tax class ordered by priority
	ListByClass(ctx context.Context, taxClassID int) ([]*Rate, error)
}
