package testutil

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/domain/coupon"
	"github.com/shopbridge/mollie-gateway/internal/domain/currency"
	"github.com/shopbridge/mollie-gateway/internal/domain/customer"
	"github.com/shopbridge/mollie-gateway/internal/domain/paymentlink"
	"github.com/shopbridge/mollie-gateway/internal/domain/refund"
	"github.com/shopbridge/mollie-gateway/internal/domain/subscription"
	"github.com/shopbridge/mollie-gateway/internal/domain/tax"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// InMemoryRefundStore implements refund.Repository
type InMemoryRefundStore struct {
	*InMemoryStore[*refund.Refund]
}

func NewInMemoryRefundStore() *InMemoryRefundStore {
	return &InMemoryRefundStore{InMemoryStore: NewInMemoryStore[*refund.Refund]()}
}

func (s *InMemoryRefundStore) Create(ctx context.Context, r *refund.Refund) error {
	if r.ID == "" {
		r.ID = types.GenerateUUIDWithPrefix("rf")
	}
	if r.DateCreated.IsZero() {
		r.DateCreated = time.Now().UTC()
	}
	c := *r
	return s.InMemoryStore.Create(ctx, r.ID, &c)
}

func (s *InMemoryRefundStore) ListByOrderID(ctx context.Context, orderID int) ([]*refund.Refund, error) {
	return s.InMemoryStore.List(ctx, func(_ context.Context, r *refund.Refund) bool {
		return r.OrderID == orderID
	}, func(i, j *refund.Refund) bool {
		return i.DateCreated.Before(j.DateCreated)
	})
}

// InMemorySubscriptionPaymentStore implements subscription.Repository
type InMemorySubscriptionPaymentStore struct {
	*InMemoryStore[*subscription.Payment]
}

func NewInMemorySubscriptionPaymentStore() *InMemorySubscriptionPaymentStore {
	return &InMemorySubscriptionPaymentStore{InMemoryStore: NewInMemoryStore[*subscription.Payment]()}
}

func (s *InMemorySubscriptionPaymentStore) Create(ctx context.Context, p *subscription.Payment) error {
	if p.ID == "" {
		p.ID = types.GenerateUUIDWithPrefix("sp")
	}
	c := *p
	return s.InMemoryStore.Create(ctx, p.ID, &c)
}

func (s *InMemorySubscriptionPaymentStore) ListBySubscriptionID(ctx context.Context, mollieSubscriptionID string) ([]*subscription.Payment, error) {
	return s.InMemoryStore.List(ctx, func(_ context.Context, p *subscription.Payment) bool {
		return p.MollieSubscriptionID == mollieSubscriptionID
	}, func(i, j *subscription.Payment) bool {
		return i.DateCreated.Before(j.DateCreated)
	})
}

// InMemoryCustomerStore implements customer.Repository, keyed by lowercased email
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Mapping]
}

func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{InMemoryStore: NewInMemoryStore[*customer.Mapping]()}
}

func (s *InMemoryCustomerStore) GetByEmail(ctx context.Context, email string) (*customer.Mapping, error) {
	m, err := s.InMemoryStore.Get(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	c := *m
	return &c, nil
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, m *customer.Mapping) error {
	c := *m
	return s.InMemoryStore.Create(ctx, strings.ToLower(m.Email), &c)
}

func (s *InMemoryCustomerStore) DeleteByEmail(ctx context.Context, email string) error {
	err := s.InMemoryStore.Delete(ctx, strings.ToLower(email))
	if ierr.IsNotFound(err) {
		return nil
	}
	return err
}

// InMemoryPaymentLinkStore implements paymentlink.Repository
type InMemoryPaymentLinkStore struct {
	*InMemoryStore[*paymentlink.Link]
}

func NewInMemoryPaymentLinkStore() *InMemoryPaymentLinkStore {
	return &InMemoryPaymentLinkStore{InMemoryStore: NewInMemoryStore[*paymentlink.Link]()}
}

func copyLink(l *paymentlink.Link) *paymentlink.Link {
	c := *l
	if l.DatePayment != nil {
		t := *l.DatePayment
		c.DatePayment = &t
	}
	return &c
}

func (s *InMemoryPaymentLinkStore) Create(ctx context.Context, l *paymentlink.Link) error {
	return s.InMemoryStore.Create(ctx, l.PaymentLinkID, copyLink(l))
}

func (s *InMemoryPaymentLinkStore) Get(ctx context.Context, paymentLinkID string) (*paymentlink.Link, error) {
	l, err := s.InMemoryStore.Get(ctx, paymentLinkID)
	if err != nil {
		return nil, err
	}
	return copyLink(l), nil
}

// GetByOrderID returns the most recent link of an order
func (s *InMemoryPaymentLinkStore) GetByOrderID(ctx context.Context, orderID int) (*paymentlink.Link, error) {
	l, err := s.InMemoryStore.First(ctx, func(_ context.Context, l *paymentlink.Link) bool {
		return l.OrderID == orderID
	}, func(i, j *paymentlink.Link) bool {
		return i.DateCreated.After(j.DateCreated)
	})
	if err != nil {
		return nil, err
	}
	return copyLink(l), nil
}

func (s *InMemoryPaymentLinkStore) SetDatePayment(ctx context.Context, paymentLinkID string, paidAt time.Time) error {
	l, err := s.Get(ctx, paymentLinkID)
	if err != nil {
		return err
	}
	l.DatePayment = &paidAt
	return s.InMemoryStore.Update(ctx, paymentLinkID, l)
}

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.Coupon]
}

func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{InMemoryStore: NewInMemoryStore[*coupon.Coupon]()}
}

func (s *InMemoryCouponStore) Create(ctx context.Context, c *coupon.Coupon) error {
	return s.InMemoryStore.Create(ctx, c.Code, c)
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	return s.InMemoryStore.Get(ctx, code)
}

// InMemoryTaxStore implements tax.Repository
type InMemoryTaxStore struct {
	*InMemoryStore[*tax.Rate]
}

func NewInMemoryTaxStore() *InMemoryTaxStore {
	return &InMemoryTaxStore{InMemoryStore: NewInMemoryStore[*tax.Rate]()}
}

func (s *InMemoryTaxStore) Create(ctx context.Context, r *tax.Rate) error {
	return s.InMemoryStore.Create(ctx, strconv.Itoa(r.TaxRateID), r)
}

func (s *InMemoryTaxStore) ListByClass(ctx context.Context, taxClassID int) ([]*tax.Rate, error) {
	return s.InMemoryStore.List(ctx, func(_ context.Context, r *tax.Rate) bool {
		return r.TaxClassID == taxClassID
	}, func(i, j *tax.Rate) bool {
		return i.Priority < j.Priority
	})
}

// InMemoryCurrencyStore implements currency.Repository
type InMemoryCurrencyStore struct {
	*InMemoryStore[*currency.Currency]
}

func NewInMemoryCurrencyStore() *InMemoryCurrencyStore {
	return &InMemoryCurrencyStore{InMemoryStore: NewInMemoryStore[*currency.Currency]()}
}

func (s *InMemoryCurrencyStore) Create(ctx context.Context, c *currency.Currency) error {
	return s.InMemoryStore.Create(ctx, strings.ToUpper(c.Code), c)
}

func (s *InMemoryCurrencyStore) GetByCode(ctx context.Context, code string) (*currency.Currency, error) {
	return s.InMemoryStore.Get(ctx, strings.ToUpper(code))
}
