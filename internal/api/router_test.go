package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	v1 "github.com/shopbridge/mollie-gateway/internal/api/v1"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/stretchr/testify/assert"
)

type dbUp struct{}

func (dbUp) PingContext(context.Context) error { return nil }

func TestRouterServesOnlyKnownRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNoopLogger()
	r := NewRouter(Handlers{Health: v1.NewHealthHandler(dbUp{}, log)}, config.GetDefaultConfig(), log)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// admin routes sit behind the api key
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/admin/orders/1/refund", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
