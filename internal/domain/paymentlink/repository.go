package paymentlink

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Link) error
	Get(ctx context.Context, paymentLinkID string) (*Link, error)
	GetByOrderID(ctx context.Context, orderID int) (*Link, error)
	SetDatePayment(ctx context.Context, paymentLinkID string, paidAt time.Time) error
}
