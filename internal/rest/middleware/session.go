package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/types"
)

// SessionMiddleware binds the checkout session cookie to the request context,
// issuing a new session id when the customer has none yet
func SessionMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	name := cfg.Session.CookieName
	maxAge := cfg.Session.TTLMinutes * 60

	return func(c *gin.Context) {
		id, err := c.Cookie(name)
		if err != nil || id == "" {
			id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SESSION)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(name, id, maxAge, "/", "", c.Request.TLS != nil, true)
		}

		c.Request = c.Request.WithContext(types.SetSessionID(c.Request.Context(), id))
		c.Next()
	}
}
