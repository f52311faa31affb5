package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/service"
)

// AccountHandler serves the customer account pages
type AccountHandler struct {
	subscriptions service.SubscriptionService
	orders        service.OrderService
	logger        *logger.Logger
}

func NewAccountHandler(subscriptions service.SubscriptionService, orders service.OrderService, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{
		subscriptions: subscriptions,
		orders:        orders,
		logger:        logger,
	}
}

// @Summary Cancel a subscription
// @Description Cancels the Mollie subscription of an order. The outcome is also left as a notice in the session.
// @Tags Account
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} dto.SubscriptionCancelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /account/orders/{order_id}/subscription/cancel [post]
func (h *AccountHandler) CancelSubscription(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.subscriptions.CancelSubscription(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Create a credit order
// @Description Stores a negative copy of the selected lines of an order, every line when none are selected
// @Tags Account
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param request body dto.CreditOrderRequest false "Lines to credit"
// @Success 201 {object} dto.CreditOrderResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /account/orders/{order_id}/credit [post]
func (h *AccountHandler) CreditOrder(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.CreditOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.orders.CreditOrder(c.Request.Context(), orderID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Pop notices
// @Description Returns and clears the pending success and error notices of the session
// @Tags Account
// @Produce json
// @Success 200 {object} dto.NoticesResponse
// @Router /account/notices [get]
func (h *AccountHandler) PopNotices(c *gin.Context) {
	resp, err := h.subscriptions.PopNotices(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
