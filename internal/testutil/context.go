package testutil

import (
	"context"

	"github.com/shopbridge/mollie-gateway/internal/types"
)

// SetupContext creates a request context carrying a request id and a checkout session
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = types.SetStoreID(ctx, types.DefaultStoreID)
	ctx = types.SetSessionID(ctx, types.GenerateUUIDWithPrefix("sess"))
	return ctx
}
