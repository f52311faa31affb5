package testutil

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/molliepayment"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// InMemoryPaymentRecordStore implements molliepayment.Repository
type InMemoryPaymentRecordStore struct {
	*InMemoryStore[*molliepayment.Record]
}

func NewInMemoryPaymentRecordStore() *InMemoryPaymentRecordStore {
	return &InMemoryPaymentRecordStore{
		InMemoryStore: NewInMemoryStore[*molliepayment.Record](),
	}
}

func copyRecord(r *molliepayment.Record) *molliepayment.Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.NextPayment != nil {
		t := *r.NextPayment
		c.NextPayment = &t
	}
	if r.SubscriptionEnd != nil {
		t := *r.SubscriptionEnd
		c.SubscriptionEnd = &t
	}
	return &c
}

func byAttemptDesc(i, j *molliepayment.Record) bool {
	return i.PaymentAttempt > j.PaymentAttempt
}

func (s *InMemoryPaymentRecordStore) Create(ctx context.Context, r *molliepayment.Record) error {
	latest, err := s.GetLatestByOrderID(ctx, r.OrderID)
	switch {
	case err == nil:
		r.PaymentAttempt = latest.PaymentAttempt + 1
	case ierr.IsNotFound(err):
		r.PaymentAttempt = 1
	default:
		return err
	}

	if r.ID == "" {
		r.ID = types.GenerateUUIDWithPrefix("mp")
	}
	r.DateModified = time.Now().UTC()
	return s.InMemoryStore.Create(ctx, r.ID, copyRecord(r))
}

func (s *InMemoryPaymentRecordStore) find(ctx context.Context, fn FilterFunc[*molliepayment.Record]) (*molliepayment.Record, error) {
	r, err := s.InMemoryStore.First(ctx, fn, byAttemptDesc)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("No payment attempt was found").
			Mark(ierr.ErrNotFound)
	}
	return copyRecord(r), nil
}

func (s *InMemoryPaymentRecordStore) GetLatestByOrderID(ctx context.Context, orderID int) (*molliepayment.Record, error) {
	return s.find(ctx, func(_ context.Context, r *molliepayment.Record) bool {
		return r.OrderID == orderID
	})
}

func (s *InMemoryPaymentRecordStore) GetByMollieOrderID(ctx context.Context, orderID int, mollieOrderID string) (*molliepayment.Record, error) {
	return s.find(ctx, func(_ context.Context, r *molliepayment.Record) bool {
		return r.OrderID == orderID && r.MollieOrderID == mollieOrderID
	})
}

func (s *InMemoryPaymentRecordStore) GetByTransactionID(ctx context.Context, orderID int, transactionID string) (*molliepayment.Record, error) {
	return s.find(ctx, func(_ context.Context, r *molliepayment.Record) bool {
		return r.OrderID == orderID && r.TransactionID == transactionID
	})
}

func (s *InMemoryPaymentRecordStore) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*molliepayment.Record, error) {
	return s.find(ctx, func(_ context.Context, r *molliepayment.Record) bool {
		return r.MollieSubscriptionID == subscriptionID
	})
}

func (s *InMemoryPaymentRecordStore) Update(ctx context.Context, r *molliepayment.Record) error {
	var (
		existing *molliepayment.Record
		err      error
	)
	if r.ID != "" {
		existing, err = s.InMemoryStore.Get(ctx, r.ID)
	} else if r.MollieOrderID != "" {
		existing, err = s.GetByMollieOrderID(ctx, r.OrderID, r.MollieOrderID)
	} else {
		existing, err = s.GetByTransactionID(ctx, r.OrderID, r.TransactionID)
	}
	if err != nil {
		return err
	}

	r.ID = existing.ID
	r.DateModified = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, r.ID, copyRecord(r))
}

// ListByOrderID returns every attempt of an order, newest first
func (s *InMemoryPaymentRecordStore) ListByOrderID(ctx context.Context, orderID int) []*molliepayment.Record {
	records, _ := s.InMemoryStore.List(ctx, func(_ context.Context, r *molliepayment.Record) bool {
		return r.OrderID == orderID
	}, byAttemptDesc)
	return records
}
