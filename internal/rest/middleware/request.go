package middleware

import (
	"context"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/spf13/cast"
)

func RequestIDMiddleware(c *gin.Context) {
	// Create a new context from the request context
	ctx := c.Request.Context()

	// Add request ID
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	// Create new context with values
	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)

	// Replace request context
	c.Request = c.Request.WithContext(ctx)

	// Add headers for response
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// StoreMiddleware resolves the storefront store from the X-Store-ID header or the
// store_id query parameter. Unparseable values fall back to the default store.
func StoreMiddleware(c *gin.Context) {
	raw := c.GetHeader(types.HeaderStoreID)
	if raw == "" {
		raw = c.Query("store_id")
	}

	storeID := types.DefaultStoreID
	if raw != "" {
		if id, err := cast.ToIntE(raw); err == nil && id >= 0 {
			storeID = id
		}
	}

	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.Scope().SetTag("store_id", strconv.Itoa(storeID))
	}

	c.Request = c.Request.WithContext(types.SetStoreID(c.Request.Context(), storeID))
	c.Next()
}
