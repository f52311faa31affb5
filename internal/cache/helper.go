package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

// traceCall opens a db.cache span for one backend call when the request carries a
// sentry hub. The returned func closes it; a nil error counts as success.
func traceCall(ctx context.Context, backend, operation, key string) func(error) {
	if sentry.GetHubFromContext(ctx) == nil {
		return func(error) {}
	}

	span := sentry.StartSpan(ctx, "db.cache", sentry.WithDescription(backend+" "+operation))
	span.SetData("cache.backend", backend)
	span.SetData("cache.key", key)

	return func(err error) {
		if err != nil {
			span.Status = sentry.SpanStatusInternalError
			span.SetData("error", err.Error())
		} else {
			span.Status = sentry.SpanStatusOK
		}
		span.Finish()
	}
}
