package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
)

type FilterFunc[T any] func(ctx context.Context, item T) bool

type SortFunc[T any] func(i, j T) bool

// InMemoryStore backs the fake repositories. Items are kept in insertion order,
// so List without a sort func behaves like a table ordered by its serial key.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{items: make(map[string]T)}
}

func notFound(id string) error {
	return ierr.NewError("record not found").
		WithReportableDetails(map[string]any{"id": id}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewError("record already exists").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		return item, notFound(id)
	}
	return item, nil
}

func (s *InMemoryStore[T]) List(ctx context.Context, filterFn FilterFunc[T], sortFn SortFunc[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := lo.FilterMap(s.order, func(id string, _ int) (T, bool) {
		item := s.items[id]
		return item, filterFn == nil || filterFn(ctx, item)
	})

	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}
	return result, nil
}

// First returns the first item List would return
func (s *InMemoryStore[T]) First(ctx context.Context, filterFn FilterFunc[T], sortFn SortFunc[T]) (T, error) {
	items, _ := s.List(ctx, filterFn, sortFn)
	if len(items) == 0 {
		var zero T
		return zero, ierr.NewError("record not found").Mark(ierr.ErrNotFound)
	}
	return items[0], nil
}

func (s *InMemoryStore[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return notFound(id)
	}
	s.items[id] = item
	return nil
}

func (s *InMemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return notFound(id)
	}
	delete(s.items, id)
	s.order = lo.Without(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
	s.order = nil
}
