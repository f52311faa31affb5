package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

const fallbackMessage = "An unexpected error occurred"

// ErrorHandler renders the last handler error as an ierr.ErrorResponse.
// Server side failures are logged and sent to sentry when a hub is attached.
func ErrorHandler(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		requestID := types.GetRequestID(c.Request.Context())

		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"request_id", requestID,
				"path", c.FullPath(),
				"status", status,
				"error", err)
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}

		c.JSON(status, ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Code:      ierr.CodeOf(err),
				Display:   displayMessage(err),
				RequestID: requestID,
				Details:   safeDetails(err),
			},
		})
	}
}

// displayMessage picks the first non-empty hint
func displayMessage(err error) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return fallbackMessage
}

// safeDetails merges the json payloads added with WithReportableDetails
func safeDetails(err error) map[string]any {
	var details map[string]any
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			raw, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}
			var m map[string]any
			if json.Unmarshal([]byte(raw), &m) != nil {
				continue
			}
			if details == nil {
				details = make(map[string]any, len(m))
			}
			for k, v := range m {
				details[k] = v
			}
		}
	}
	return details
}
