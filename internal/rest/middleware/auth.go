package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// APIKeyMiddleware guards the admin routes with one of the configured api keys
func APIKeyMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	keys := lo.Filter(cfg.Auth.APIKeys, func(k string, _ int) bool { return k != "" })

	return func(c *gin.Context) {
		key := c.GetHeader(types.HeaderAPIKey)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		valid := lo.ContainsBy(keys, func(k string) bool {
			return subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1
		})
		if !valid {
			logger.Debugw("invalid api key", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
