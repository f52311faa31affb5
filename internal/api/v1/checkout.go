package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/service"
)

// CheckoutHandler serves the storefront checkout: payment creation, issuer
// selection and the customer's return from the hosted payment page
type CheckoutHandler struct {
	checkout service.CheckoutService
	returns  service.ReturnService
	logger   *logger.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, returns service.ReturnService, logger *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		returns:  returns,
		logger:   logger,
	}
}

// @Summary Create a payment
// @Description Creates a Mollie order or payment for a confirmed storefront order and returns the hosted checkout URL
// @Tags Checkout
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param request body dto.CreatePaymentRequest true "Payment method selection"
// @Success 201 {object} dto.CreatePaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /checkout/orders/{order_id}/payments [post]
func (h *CheckoutHandler) CreatePayment(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.checkout.CreatePayment(c.Request.Context(), orderID, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List payment methods
// @Description Lists the payment methods available for the amount and currency of an order
// @Tags Checkout
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {array} dto.PaymentMethodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /checkout/orders/{order_id}/methods [get]
func (h *CheckoutHandler) ListPaymentMethods(c *gin.Context) {
	orderID, err := orderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.checkout.ListPaymentMethods(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Set the issuer
// @Description Stores the selected bank or gift card issuer in the checkout session
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body dto.SetIssuerRequest true "Issuer"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /checkout/issuer [post]
func (h *CheckoutHandler) SetIssuer(c *gin.Context) {
	var req dto.SetIssuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.checkout.SetIssuer(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "issuer saved"})
}

// @Summary Report a checkout error
// @Description Forwards a checkout failure the customer chose to report
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body dto.ReportErrorRequest true "Error report"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /checkout/report-error [post]
func (h *CheckoutHandler) ReportError(c *gin.Context) {
	var req dto.ReportErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.checkout.ReportError(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "error reported"})
}

// @Summary Return from checkout
// @Description Redirects the customer to the success, failure or checkout page depending on the payment state
// @Tags Checkout
// @Param order_id query int false "Order ID, defaults to the order of the checkout session"
// @Success 302
// @Failure 400 {object} ierr.ErrorResponse
// @Router /checkout/return [get]
func (h *CheckoutHandler) Return(c *gin.Context) {
	orderID, err := optionalOrderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.returns.HandleReturn(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, resp.RedirectURL)
}

// @Summary Return from a payment link
// @Description Books a paid payment link and redirects the customer to the storefront
// @Tags Checkout
// @Param order_id query int false "Order ID, defaults to the order of the checkout session"
// @Success 302
// @Failure 400 {object} ierr.ErrorResponse
// @Router /checkout/payment-link/return [get]
func (h *CheckoutHandler) PaymentLinkReturn(c *gin.Context) {
	orderID, err := optionalOrderIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.returns.HandlePaymentLinkReturn(c.Request.Context(), orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, resp.RedirectURL)
}
