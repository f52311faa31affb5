package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopspring/decimal"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]

	mu            sync.RWMutex
	products      map[int][]*order.Product
	totals        map[int][]*order.Total
	vouchers      map[int][]*order.Voucher
	subscriptions map[int][]*order.Subscription
	history       []*order.History
	stock         map[int]decimal.Decimal
	nextID        int
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	s := &InMemoryOrderStore{InMemoryStore: NewInMemoryStore[*order.Order]()}
	s.reset()
	return s
}

func (s *InMemoryOrderStore) reset() {
	s.products = make(map[int][]*order.Product)
	s.totals = make(map[int][]*order.Total)
	s.vouchers = make(map[int][]*order.Voucher)
	s.subscriptions = make(map[int][]*order.Subscription)
	s.history = nil
	s.stock = make(map[int]decimal.Decimal)
	s.nextID = 1000
}

func copyOrder(o *order.Order) *order.Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.DatePayment != nil {
		t := *o.DatePayment
		c.DatePayment = &t
	}
	return &c
}

// Seed stores an order with its rows, replacing what was stored for the id
func (s *InMemoryOrderStore) Seed(o *order.Order, products []*order.Product, totals []*order.Total) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	key := strconv.Itoa(o.ID)
	if err := s.InMemoryStore.Update(ctx, key, copyOrder(o)); err != nil {
		_ = s.InMemoryStore.Create(ctx, key, copyOrder(o))
	}
	for _, p := range products {
		p.OrderID = o.ID
	}
	for _, t := range totals {
		t.OrderID = o.ID
	}
	s.products[o.ID] = products
	s.totals[o.ID] = totals
}

func (s *InMemoryOrderStore) SeedVouchers(orderID int, vouchers []*order.Voucher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vouchers[orderID] = vouchers
}

func (s *InMemoryOrderStore) SeedSubscriptions(orderID int, plans []*order.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range plans {
		p.OrderID = orderID
	}
	s.subscriptions[orderID] = plans
}

func (s *InMemoryOrderStore) Get(ctx context.Context, orderID int) (*order.Order, error) {
	o, err := s.InMemoryStore.Get(ctx, strconv.Itoa(orderID))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Order %d was not found", orderID).
			Mark(ierr.ErrNotFound)
	}
	return copyOrder(o), nil
}

func (s *InMemoryOrderStore) ListProducts(_ context.Context, orderID int) ([]*order.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.products[orderID], func(p *order.Product, _ int) *order.Product {
		c := *p
		return &c
	}), nil
}

func (s *InMemoryOrderStore) ListTotals(_ context.Context, orderID int) ([]*order.Total, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.totals[orderID], func(t *order.Total, _ int) *order.Total {
		c := *t
		return &c
	}), nil
}

func (s *InMemoryOrderStore) ListVouchers(_ context.Context, orderID int) ([]*order.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*order.Voucher(nil), s.vouchers[orderID]...), nil
}

func (s *InMemoryOrderStore) ListSubscriptions(_ context.Context, orderID int) ([]*order.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*order.Subscription(nil), s.subscriptions[orderID]...), nil
}

func (s *InMemoryOrderStore) GetSubscription(_ context.Context, orderSubscriptionID int) (*order.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, plans := range s.subscriptions {
		if p, ok := lo.Find(plans, func(p *order.Subscription) bool {
			return p.OrderSubscriptionID == orderSubscriptionID
		}); ok {
			return p, nil
		}
	}
	return nil, ierr.NewError("subscription not found").
		WithReportableDetails(map[string]any{"order_subscription_id": orderSubscriptionID}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryOrderStore) AddHistory(ctx context.Context, h *order.History) error {
	o, err := s.Get(ctx, h.OrderID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := *h
	if c.DateAdded.IsZero() {
		c.DateAdded = time.Now().UTC()
	}
	c.OrderHistoryID = len(s.history) + 1
	s.history = append(s.history, &c)

	o.OrderStatusID = h.OrderStatusID
	return s.InMemoryStore.Update(ctx, strconv.Itoa(o.ID), o)
}

// History returns the history entries of an order in insertion order
func (s *InMemoryOrderStore) History(orderID int) []*order.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.history, func(h *order.History, _ int) bool { return h.OrderID == orderID })
}

func (s *InMemoryOrderStore) ListHistoryStatusIDs(_ context.Context, orderID int) ([]int, error) {
	ids := lo.Map(s.History(orderID), func(h *order.History, _ int) int { return h.OrderStatusID })
	return lo.Uniq(ids), nil
}

func (s *InMemoryOrderStore) SetDatePayment(ctx context.Context, orderID int, paidAt time.Time) error {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}
	o.DatePayment = &paidAt
	return s.InMemoryStore.Update(ctx, strconv.Itoa(orderID), o)
}

func (s *InMemoryOrderStore) AdjustStock(_ context.Context, productID int, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productID] = s.stock[productID].Add(delta)
	return nil
}

// Stock returns the net stock movement of a product
func (s *InMemoryOrderStore) Stock(productID int) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock[productID]
}

func (s *InMemoryOrderStore) SetStockMutation(_ context.Context, orderProductID int, mutated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, products := range s.products {
		for _, p := range products {
			if p.OrderProductID == orderProductID {
				p.StockMutation = mutated
				return nil
			}
		}
	}
	return ierr.NewError("order product not found").
		WithReportableDetails(map[string]any{"order_product_id": orderProductID}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryOrderStore) Create(ctx context.Context, o *order.Order, products []*order.Product, totals []*order.Total) (int, error) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	c := copyOrder(o)
	c.ID = id
	if c.DateAdded.IsZero() {
		c.DateAdded = time.Now().UTC()
	}
	if err := s.InMemoryStore.Create(ctx, strconv.Itoa(id), c); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range products {
		p.OrderID = id
		p.OrderProductID = id*100 + i + 1
	}
	for _, t := range totals {
		t.OrderID = id
	}
	s.products[id] = products
	s.totals[id] = totals
	return id, nil
}

func (s *InMemoryOrderStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}
