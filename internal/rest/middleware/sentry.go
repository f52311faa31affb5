package middleware

import (
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// SentryMiddleware attaches a hub to each request when sentry is enabled
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request hub with the request id and route and
// puts the hub on the request context so gateway and cache spans find it.
func SentryScopeMiddleware(c *gin.Context) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		c.Next()
		return
	}

	ctx := c.Request.Context()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", types.GetRequestID(ctx))
		scope.SetTag("route", c.FullPath())
	})
	c.Request = c.Request.WithContext(sentry.SetHubOnContext(ctx, hub))
	c.Next()
}
