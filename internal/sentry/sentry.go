package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
	"go.uber.org/fx"
)

// routes never worth a trace
var unsampledTransactions = map[string]bool{
	"GET /health": true,
}

// Service reports gateway failures and storefront error reports. A nil or
// disabled Service is a no-op, which keeps it optional in tests.
type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

func (s *Service) enabled() bool {
	return s != nil && s.cfg.Sentry.Enabled
}

// RegisterHooks initializes the SDK on start and flushes on stop
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if !svc.enabled() {
				svc.logger.Info("sentry disabled")
				return nil
			}

			rate := svc.cfg.Sentry.SampleRate
			err := sentry.Init(sentry.ClientOptions{
				Dsn:           svc.cfg.Sentry.DSN,
				Environment:   svc.cfg.Sentry.Environment,
				EnableTracing: true,
				TracesSampler: func(ctx sentry.SamplingContext) float64 {
					if unsampledTransactions[ctx.Span.Name] {
						return 0
					}
					return rate
				},
			})
			if err != nil {
				svc.logger.Errorw("sentry init failed", "error", err)
				return err
			}
			svc.logger.Infow("sentry initialized",
				"environment", svc.cfg.Sentry.Environment,
				"sample_rate", rate,
			)
			return nil
		},
		OnStop: func(context.Context) error {
			if svc.enabled() {
				sentry.Flush(2 * time.Second)
			}
			return nil
		},
	})
}

func hubFor(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// CaptureException reports err with flow tags such as {"flow": "refund"}
func (s *Service) CaptureException(ctx context.Context, err error, tags map[string]string) {
	if !s.enabled() || err == nil {
		return
	}
	hub := hubFor(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// CaptureMessage reports a problem raised from the storefront checkout page
func (s *Service) CaptureMessage(ctx context.Context, message string, tags map[string]string) {
	if !s.enabled() {
		return
	}
	hub := hubFor(ctx)
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		scope.SetLevel(sentry.LevelWarning)
		hub.CaptureMessage(message)
	})
}

// AddBreadcrumb records a step on the request hub, attached to any later event
func (s *Service) AddBreadcrumb(ctx context.Context, category, message string, data map[string]interface{}) {
	if !s.enabled() {
		return
	}
	hubFor(ctx).AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Data:      data,
		Timestamp: time.Now(),
	}, nil)
}

// StartGatewaySpan opens an http.client span for one Mollie api call
func (s *Service) StartGatewaySpan(ctx context.Context, operation string, params map[string]interface{}) (*sentry.Span, context.Context) {
	if !s.enabled() {
		return nil, ctx
	}

	span := sentry.StartSpan(ctx, "http.client", sentry.WithDescription(operation))
	span.SetData("peer.service", "mollie")
	for k, v := range params {
		span.SetData(k, v)
	}
	return span, span.Context()
}

// FinishSpan closes span; a non-nil err marks it failed
func FinishSpan(span *sentry.Span, err error) {
	if span == nil {
		return
	}
	span.Status = sentry.SpanStatusOK
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	}
	span.Finish()
}
