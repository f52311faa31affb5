package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/idempotency"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// ShipmentService creates shipments for order resources
type ShipmentService interface {
	// OnStatusChange ships a paid order when the admin moves it to a shipment status
	OnStatusChange(ctx context.Context, orderID int, req *dto.StatusChangeRequest) (*dto.ShipmentResponse, error)
	// ShipPaidOrder ships every line once, right after the payment came in
	ShipPaidOrder(ctx context.Context, o *order.Order, remote *mollie.Order) error
}

type shipmentService struct {
	ServiceParams
}

func NewShipmentService(params ServiceParams) ShipmentService {
	return &shipmentService{ServiceParams: params}
}

func (s *shipmentService) ShipPaidOrder(ctx context.Context, o *order.Order, remote *mollie.Order) error {
	settings := s.settings(o)
	if types.ShipmentMode(settings.CreateShipment) != types.ShipmentModeOnWebhook {
		return nil
	}
	if !remote.IsPaid() && !remote.IsAuthorized() {
		return nil
	}

	history, err := s.OrderRepo.ListHistoryStatusIDs(ctx, o.ID)
	if err != nil {
		return err
	}
	if settings.ShippingStatusID != 0 && lo.Contains(history, settings.ShippingStatusID) {
		return nil
	}

	shipment, err := s.shipAll(ctx, o, remote)
	if err != nil {
		return err
	}

	if settings.ShippingStatusID == 0 {
		s.Logger.Warnw("shipment created but no shipping status configured", "order_id", o.ID)
		return nil
	}
	return s.addHistory(ctx, o, settings.ShippingStatusID, "Shipment created: "+shipment.ID, false)
}

func (s *shipmentService) OnStatusChange(ctx context.Context, orderID int, req *dto.StatusChangeRequest) (*dto.ShipmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	settings := s.settings(o)

	mode := types.ShipmentMode(settings.CreateShipment)
	if mode == types.ShipmentModeOnWebhook {
		return &dto.ShipmentResponse{}, nil
	}

	targets := settings.CompleteStatusIDs
	if mode == types.ShipmentModeOnStatus {
		targets = []int{settings.CreateShipmentStatusID}
	}
	if !lo.Contains(targets, req.OrderStatusID) {
		return &dto.ShipmentResponse{}, nil
	}

	record, err := s.PaymentRecordRepo.GetLatestByOrderID(ctx, o.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &dto.ShipmentResponse{}, nil
		}
		return nil, err
	}
	if record.Kind() != types.ResourceKindOrder {
		return &dto.ShipmentResponse{}, nil
	}

	remote, err := s.Gateway.GetOrder(ctx, record.MollieOrderID)
	if err != nil {
		return nil, err
	}
	if !remote.IsPaid() && !remote.IsAuthorized() {
		s.Logger.Debugw("remote order not shippable",
			"order_id", o.ID,
			"mollie_order_id", remote.ID,
			"status", remote.Status,
		)
		return &dto.ShipmentResponse{}, nil
	}

	shipment, err := s.shipAll(ctx, o, remote)
	if err != nil {
		return nil, err
	}
	return &dto.ShipmentResponse{Created: true, ShipmentID: shipment.ID}, nil
}

func (s *shipmentService) shipAll(ctx context.Context, o *order.Order, remote *mollie.Order) (*mollie.Shipment, error) {
	req := &mollie.CreateShipmentRequest{
		Lines: lo.FilterMap(remote.Lines, func(l mollie.OrderLine, _ int) (mollie.RefundLine, bool) {
			return mollie.RefundLine{ID: l.ID, Quantity: l.Quantity}, l.ID != ""
		}),
	}

	key := s.IdemGen.GenerateKey(idempotency.ScopeCreateShipment, map[string]interface{}{
		"order_id":        o.ID,
		"mollie_order_id": remote.ID,
	})
	shipment, err := s.Gateway.CreateShipment(ctx, remote.ID, req, key)
	if err != nil {
		s.Logger.Errorw("failed to create shipment",
			"order_id", o.ID,
			"mollie_order_id", remote.ID,
			"error", err,
		)
		return nil, err
	}

	s.Logger.Infow("created shipment",
		"order_id", o.ID,
		"mollie_order_id", remote.ID,
		"shipment_id", shipment.ID,
	)
	return shipment, nil
}
