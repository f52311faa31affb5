package service

import (
	"context"

	"github.com/shopbridge/mollie-gateway/internal/domain/order"
	"github.com/shopspring/decimal"
)

// restock puts quantity of a refunded product back on stock and marks the line so
// later status changes leave its stock alone
func (p ServiceParams) restock(ctx context.Context, product *order.Product, quantity decimal.Decimal) error {
	if product.Subtract && quantity.IsPositive() {
		if err := p.OrderRepo.AdjustStock(ctx, product.ProductID, quantity); err != nil {
			return err
		}
	}
	if err := p.OrderRepo.SetStockMutation(ctx, product.OrderProductID, true); err != nil {
		return err
	}
	product.StockMutation = true

	p.Logger.Debugw("restocked refunded product",
		"order_id", product.OrderID,
		"order_product_id", product.OrderProductID,
		"quantity", quantity.String(),
	)
	return nil
}

// rebalanceStock counters the storefront's own stock handling for lines that were not
// mutated by a refund, when an order crosses between inactive and active statuses
func (p ServiceParams) rebalanceStock(ctx context.Context, products []*order.Product, becameActive bool) error {
	for _, product := range products {
		if product.StockMutation || !product.Subtract {
			continue
		}

		delta := product.Quantity
		if !becameActive {
			delta = delta.Neg()
		}
		if err := p.OrderRepo.AdjustStock(ctx, product.ProductID, delta); err != nil {
			return err
		}
	}
	return nil
}
