package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/domain/customer"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
)

// CustomerService links storefront customers to gateway customers
type CustomerService interface {
	// EnsureCustomer returns the gateway customer id for the order's email address,
	// creating the remote customer when no usable mapping exists
	EnsureCustomer(ctx context.Context, o *order.Order) (string, error)
	// GetMapping returns nil without error when the email has no mapping
	GetMapping(ctx context.Context, email string) (*customer.Mapping, error)
	HasUsableMandate(ctx context.Context, mollieCustomerID string) (bool, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{ServiceParams: params}
}

func (s *customerService) GetMapping(ctx context.Context, email string) (*customer.Mapping, error) {
	m, err := s.CustomerRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *customerService) EnsureCustomer(ctx context.Context, o *order.Order) (string, error) {
	email := strings.ToLower(strings.TrimSpace(o.Email))
	if email == "" {
		return "", ierr.NewError("order has no email address").
			WithHint("An email address is required to store payment details").
			Mark(ierr.ErrValidation)
	}

	mapping, err := s.GetMapping(ctx, email)
	if err != nil {
		return "", err
	}

	if mapping != nil {
		remote, err := s.Gateway.GetCustomer(ctx, mapping.MollieCustomerID)
		if err == nil {
			return remote.ID, nil
		}

		// the remote customer was removed or belongs to another profile
		s.Logger.Warnw("stored gateway customer unusable, creating a new one",
			"email", email,
			"mollie_customer_id", mapping.MollieCustomerID,
			"error", err,
		)
		if err := s.CustomerRepo.DeleteByEmail(ctx, email); err != nil {
			return "", err
		}
	}

	remote, err := s.Gateway.CreateCustomer(ctx, &mollie.CreateCustomerRequest{
		Name:     strings.TrimSpace(o.Firstname + " " + o.Lastname),
		Email:    email,
		Metadata: mollie.Metadata{"customer_id": o.CustomerID},
	})
	if err != nil {
		return "", err
	}

	if err := s.CustomerRepo.Create(ctx, &customer.Mapping{
		CustomerID:       o.CustomerID,
		Email:            email,
		MollieCustomerID: remote.ID,
		DateCreated:      time.Now().UTC(),
	}); err != nil {
		return "", err
	}

	s.Logger.Infow("created gateway customer",
		"order_id", o.ID,
		"mollie_customer_id", remote.ID,
	)
	return remote.ID, nil
}

func (s *customerService) HasUsableMandate(ctx context.Context, mollieCustomerID string) (bool, error) {
	if mollieCustomerID == "" {
		return false, nil
	}
	mandates, err := s.Gateway.ListMandates(ctx, mollieCustomerID)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(mandates, func(m *mollie.Mandate) bool { return m.IsValidOrPending() }), nil
}
