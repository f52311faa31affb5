package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopbridge/mollie-gateway/internal/api"
	v1 "github.com/shopbridge/mollie-gateway/internal/api/v1"
	"github.com/shopbridge/mollie-gateway/internal/cache"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/email"
	"github.com/shopbridge/mollie-gateway/internal/httpclient"
	"github.com/shopbridge/mollie-gateway/internal/integration/mollie"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"github.com/shopbridge/mollie-gateway/internal/postgres"
	"github.com/shopbridge/mollie-gateway/internal/repository"
	"github.com/shopbridge/mollie-gateway/internal/sentry"
	"github.com/shopbridge/mollie-gateway/internal/service"
	"github.com/shopbridge/mollie-gateway/internal/session"
	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/shopbridge/mollie-gateway/internal/validator"
	"go.uber.org/fx"
)

// @title Mollie Gateway API
// @version 1.0
// @description Payment gateway between the storefront and Mollie
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description Enter your API key in the format *x-api-key &lt;api-key&gt;**

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache and checkout sessions
			cache.NewCache,
			session.NewStore,

			// Postgres
			postgres.NewDB,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Mollie
			mollie.NewClient,

			// Email
			email.NewClient,
			email.NewEmail,

			// Repositories
			repository.NewMolliePaymentRepository,
			repository.NewRefundRepository,
			repository.NewSubscriptionPaymentRepository,
			repository.NewCustomerRepository,
			repository.NewPaymentLinkRepository,
			repository.NewOrderRepository,
			repository.NewCouponRepository,
			repository.NewTaxRepository,
			repository.NewCurrencyRepository,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCheckoutService,
			service.NewReturnService,
			service.NewWebhookService,
			service.NewRefundService,
			service.NewShipmentService,
			service.NewSubscriptionService,
			service.NewOrderService,
			service.NewPaymentLinkService,
		),
	)

	// API layer
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			closeDB,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	db *postgres.DB,
	checkoutService service.CheckoutService,
	returnService service.ReturnService,
	webhookService service.WebhookService,
	refundService service.RefundService,
	shipmentService service.ShipmentService,
	subscriptionService service.SubscriptionService,
	orderService service.OrderService,
	paymentLinkService service.PaymentLinkService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(db, logger),
		Webhook:  v1.NewWebhookHandler(webhookService, logger),
		Checkout: v1.NewCheckoutHandler(checkoutService, returnService, logger),
		Order:    v1.NewOrderHandler(orderService, refundService, shipmentService, paymentLinkService, logger),
		Account:  v1.NewAccountHandler(subscriptionService, orderService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger)
}

func closeDB(lc fx.Lifecycle, db *postgres.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
