package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/shopbridge/mollie-gateway/internal/api/v1"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/rest/middleware"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Webhook  *v1.WebhookHandler
	Checkout *v1.CheckoutHandler
	Order    *v1.OrderHandler
	Account  *v1.AccountHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryScopeMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	v1Group.Use(middleware.StoreMiddleware)
	registerV1Routes(v1Group, handlers, cfg, logger)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, cfg *config.Configuration, logger *logger.Logger) {
	// Mollie calls the webhook without a session or api key
	router.POST("/webhook", handlers.Webhook.HandleWebhook)

	checkout := router.Group("/checkout", middleware.SessionMiddleware(cfg))
	{
		checkout.POST("/orders/:order_id/payments", handlers.Checkout.CreatePayment)
		checkout.GET("/orders/:order_id/methods", handlers.Checkout.ListPaymentMethods)
		checkout.POST("/issuer", handlers.Checkout.SetIssuer)
		checkout.POST("/report-error", handlers.Checkout.ReportError)
		checkout.GET("/return", handlers.Checkout.Return)
		checkout.GET("/payment-link/return", handlers.Checkout.PaymentLinkReturn)
	}

	account := router.Group("/account", middleware.SessionMiddleware(cfg))
	{
		account.POST("/orders/:order_id/subscription/cancel", handlers.Account.CancelSubscription)
		account.POST("/orders/:order_id/credit", handlers.Account.CreditOrder)
		account.GET("/notices", handlers.Account.PopNotices)
	}

	admin := router.Group("/admin", middleware.APIKeyMiddleware(cfg, logger))
	{
		orders := admin.Group("/orders/:order_id")
		orders.POST("/refund", handlers.Order.FullRefund)
		orders.POST("/partial-refund", handlers.Order.PartialRefund)
		orders.GET("/refunds", handlers.Order.ListRefunds)
		orders.POST("/shipment", handlers.Order.OnStatusChange)
		orders.POST("/history", handlers.Order.AdjustStock)
		orders.GET("/history", handlers.Order.ListHistoryStatuses)
		orders.POST("/payment-link", handlers.Order.SendPaymentLink)
	}
}
