package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/service"
)

// OrderHandler serves the admin hooks of the storefront order screens
type OrderHandler struct {
	orders       service.OrderService
	refunds      service.RefundService
	shipments    service.ShipmentService
	paymentLinks service.PaymentLinkService
	logger       *logger.Logger
}

func NewOrderHandler(
	orders service.OrderService,
	refunds service.RefundService,
	shipments service.ShipmentService,
	paymentLinks service.PaymentLinkService,
	logger *logger.Logger,
) *OrderHandler {
	return &OrderHandler{
		orders:       orders,
		refunds:      refunds,
		shipments:    shipments,
		paymentLinks: paymentLinks,
		logger:       logger,
	}
}

// @Summary Refund an order
// @Description Refunds the full amount of the latest payment attempt of an order
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Success 200 {object} dto.RefundResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/refund [post]
func (h *OrderHandler) FullRefund(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.refunds.FullRefund(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Partially refund an order
// @Description Refunds a custom amount or selected product lines of an order
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Param request body dto.PartialRefundRequest true "Partial refund"
// @Success 200 {object} dto.RefundResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/partial-refund [post]
func (h *OrderHandler) PartialRefund(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.PartialRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.refunds.PartialRefund(c.Request.Context(), orderID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List refunds
// @Description Lists the refunds booked for an order
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Success 200 {object} dto.ListResponse[dto.RefundItemResponse]
// @Failure 400 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/refunds [get]
func (h *OrderHandler) ListRefunds(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.refunds.ListRefunds(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Order status changed
// @Description Called after the admin changed the status of an order. Creates a shipment when the new status asks for one.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Param request body dto.StatusChangeRequest true "Status change"
// @Success 200 {object} dto.ShipmentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/shipment [post]
func (h *OrderHandler) OnStatusChange(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.shipments.OnStatusChange(c.Request.Context(), orderID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Re-adjust stock
// @Description Called after a history entry moved an order between active and inactive statuses
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Param request body dto.StatusChangeRequest true "Status change"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/history [post]
func (h *OrderHandler) AdjustStock(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.orders.AdjustStockOnStatusChange(c.Request.Context(), orderID, &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "stock adjusted"})
}

// @Summary List history statuses
// @Description Lists the distinct statuses an order passed through
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Success 200 {object} dto.HistoryStatusesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/history [get]
func (h *OrderHandler) ListHistoryStatuses(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.orders.ListHistoryStatuses(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Send a payment link
// @Description Creates a Mollie payment link for an order and mails it to the customer
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param order_id path int true "Order ID"
// @Param request body dto.SendPaymentLinkRequest false "Amount and mode"
// @Success 200 {object} dto.PaymentLinkResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /admin/orders/{order_id}/payment-link [post]
func (h *OrderHandler) SendPaymentLink(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.SendPaymentLinkRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.paymentLinks.SendPaymentLink(c.Request.Context(), orderID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
