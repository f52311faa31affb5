package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopspring/decimal"
)

// OrderService covers the storefront order hooks that are not tied to a payment attempt
type OrderService interface {
	// CreditOrder stores a negative copy of the selected lines of an order
	CreditOrder(ctx context.Context, orderID int, req *dto.CreditOrderRequest) (*dto.CreditOrderResponse, error)
	ListHistoryStatuses(ctx context.Context, orderID int) (*dto.HistoryStatusesResponse, error)
	// AdjustStockOnStatusChange is called after the storefront moved an order between statuses
	AdjustStockOnStatusChange(ctx context.Context, orderID int, req *dto.StatusChangeRequest) error
}

type orderService struct {
	ServiceParams
}

func NewOrderService(params ServiceParams) OrderService {
	return &orderService{ServiceParams: params}
}

func (s *orderService) CreditOrder(ctx context.Context, orderID int, req *dto.CreditOrderRequest) (*dto.CreditOrderResponse, error) {
	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	products, err := s.OrderRepo.ListProducts(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.OrderRepo.ListTotals(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	selected := lo.SliceToMap(
		lo.Filter(req.Lines, func(l dto.CreditLineRequest, _ int) bool { return l.Quantity > 0 }),
		func(l dto.CreditLineRequest) (int, dto.CreditLineRequest) { return l.OrderProductID, l },
	)

	subTotal := decimal.Zero
	taxTotal := decimal.Zero
	credited := make([]*order.Product, 0, len(products))

	for _, p := range products {
		quantity := p.Quantity
		stockMutation := true
		if len(selected) > 0 {
			line, ok := selected[p.OrderProductID]
			if !ok {
				continue
			}
			quantity = decimal.NewFromInt(int64(line.Quantity))
			stockMutation = line.StockMutation
		}

		subTotal = subTotal.Add(p.Price.Mul(quantity))
		taxTotal = taxTotal.Add(p.Tax.Mul(quantity))

		credited = append(credited, &order.Product{
			ProductID:       p.ProductID,
			Name:            p.Name,
			Model:           p.Model,
			Quantity:        quantity.Neg(),
			Price:           p.Price,
			Tax:             p.Tax,
			Total:           p.Price.Mul(quantity).Neg(),
			Reward:          -p.Reward,
			TaxClassID:      p.TaxClassID,
			VoucherCategory: p.VoucherCategory,
			Subtract:        p.Subtract,
			StockMutation:   stockMutation,
		})
	}

	if len(credited) == 0 {
		return nil, ierr.NewError("no order lines to credit").
			WithHint("Please select at least one product to credit").
			Mark(ierr.ErrValidation)
	}

	grandTotal := subTotal.Add(taxTotal)
	creditTotals := make([]*order.Total, 0, 3)
	for _, t := range totals {
		var value decimal.Decimal
		switch t.Code {
		case TotalCodeSubTotal:
			value = subTotal.Neg()
		case TotalCodeTax:
			value = taxTotal.Neg()
		case TotalCodeTotal:
			value = grandTotal.Neg()
		default:
			continue
		}
		creditTotals = append(creditTotals, &order.Total{
			Code:      t.Code,
			Title:     t.Title,
			Value:     value,
			SortOrder: t.SortOrder,
		})
	}

	credit := *o
	credit.ID = 0
	credit.Total = grandTotal.Neg()
	credit.OrderStatusID = 0
	credit.DateAdded = time.Now().UTC()
	credit.DatePayment = nil

	creditID, err := s.OrderRepo.Create(ctx, &credit, credited, creditTotals)
	if err != nil {
		return nil, err
	}
	credit.ID = creditID

	settings := s.settings(o)
	if err := s.addHistory(ctx, &credit, settings.OrderStatusID, fmt.Sprintf("Credit order for order #%d", o.ID), false); err != nil {
		return nil, err
	}

	s.Logger.Infow("created credit order",
		"order_id", o.ID,
		"credit_order_id", creditID,
		"total", credit.Total.String(),
	)

	return &dto.CreditOrderResponse{
		OrderID:       o.ID,
		CreditOrderID: creditID,
		Total:         credit.Total,
	}, nil
}

func (s *orderService) ListHistoryStatuses(ctx context.Context, orderID int) (*dto.HistoryStatusesResponse, error) {
	statusIDs, err := s.OrderRepo.ListHistoryStatusIDs(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &dto.HistoryStatusesResponse{
		OrderID:   orderID,
		StatusIDs: lo.Uniq(statusIDs),
	}, nil
}

func (s *orderService) AdjustStockOnStatusChange(ctx context.Context, orderID int, req *dto.StatusChangeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	o, err := s.OrderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	settings := s.settings(o)

	wasActive := settings.IsActiveStatus(req.PreviousStatusID)
	isActive := settings.IsActiveStatus(req.OrderStatusID)
	if wasActive == isActive {
		return nil
	}

	products, err := s.OrderRepo.ListProducts(ctx, o.ID)
	if err != nil {
		return err
	}

	s.Logger.Debugw("rebalancing stock after status change",
		"order_id", o.ID,
		"previous_status_id", req.PreviousStatusID,
		"order_status_id", req.OrderStatusID,
	)
	return s.rebalanceStock(ctx, products, isActive)
}
