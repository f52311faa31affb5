package v1

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/spf13/cast"
)

// orderIDParam reads the order id from the path, falling back to the order_id query parameter
func orderIDParam(c *gin.Context) (int, error) {
	raw := c.Param("order_id")
	if raw == "" {
		raw = c.Query("order_id")
	}

	id, err := cast.ToIntE(raw)
	if err != nil || id <= 0 {
		return 0, ierr.NewError("invalid order id").
			WithHint("A valid order id is required").
			WithReportableDetails(map[string]any{"order_id": raw}).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}

// optionalOrderIDParam is orderIDParam for routes where the session may supply the
// order; a missing id yields 0
func optionalOrderIDParam(c *gin.Context) (int, error) {
	if c.Param("order_id") == "" && c.Query("order_id") == "" {
		return 0, nil
	}
	return orderIDParam(c)
}
