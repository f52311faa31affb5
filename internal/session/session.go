package session

import (
	"context"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/cache"
	"github.com/shopbridge/mollie-gateway/internal/config"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// Data is the checkout session state the gateway reads and writes
type Data struct {
	OrderID   int    `json:"order_id,omitempty"`
	Issuer    string `json:"mollie_issuer,omitempty"`
	CardToken string `json:"mollie_card_token,omitempty"`
	Language  string `json:"language,omitempty"`
	// Success and Error are one-shot notices shown on the next account page
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Store keeps session data in the configured cache, keyed by the session cookie
type Store struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewStore(cfg *config.Configuration, c cache.Cache, logger *logger.Logger) *Store {
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{cache: c, ttl: ttl, logger: logger}
}

// Load returns the session of the request, empty when nothing was stored yet
func (s *Store) Load(ctx context.Context) (*Data, error) {
	id := types.GetSessionID(ctx)
	data := &Data{}
	if id == "" {
		return data, nil
	}

	if _, err := s.cache.Get(ctx, cache.GenerateKey(cache.PrefixSession, id), data); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not load the checkout session").
			Mark(ierr.ErrSystem)
	}
	return data, nil
}

// Update applies fn to the session of the request and stores the result
func (s *Store) Update(ctx context.Context, fn func(d *Data)) error {
	id := types.GetSessionID(ctx)
	if id == "" {
		s.logger.Debugw("no session on request, skipping session update")
		return nil
	}

	data, err := s.Load(ctx)
	if err != nil {
		return err
	}
	fn(data)

	if err := s.cache.Set(ctx, cache.GenerateKey(cache.PrefixSession, id), data, s.ttl); err != nil {
		return ierr.WithError(err).
			WithHint("Could not save the checkout session").
			Mark(ierr.ErrSystem)
	}
	return nil
}

// PopNotices returns and clears the pending success and error notices
func (s *Store) PopNotices(ctx context.Context) (success, failure string, err error) {
	err = s.Update(ctx, func(d *Data) {
		success, failure = d.Success, d.Error
		d.Success, d.Error = "", ""
	})
	return success, failure, err
}
