package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/api/dto"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/service"
)

// WebhookHandler receives the status change notifications posted by Mollie
type WebhookHandler struct {
	service service.WebhookService
	logger  *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Handle Mollie webhook
// @Description Mollie posts the id of an order, payment or payment link whenever its status changes. The current state is always fetched from the API.
// @Tags Webhooks
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Resource id (ord_, tr_ or pl_)"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhook [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	var req dto.WebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), req.ID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "ok"})
}
