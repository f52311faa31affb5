package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxStoreID       ContextKey = "ctx_store_id"
	CtxSessionID     ContextKey = "ctx_session_id"
	CtxDBTransaction ContextKey = "ctx_db_transaction"

	HeaderRequestID = "X-Request-ID"
	HeaderStoreID   = "X-Store-ID"
	HeaderAPIKey    = "X-API-Key"

	DefaultStoreID = 0
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetStoreID returns the storefront store the request belongs to
func GetStoreID(ctx context.Context) int {
	if storeID, ok := ctx.Value(CtxStoreID).(int); ok {
		return storeID
	}
	return DefaultStoreID
}

func GetSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(CtxSessionID).(string); ok {
		return sessionID
	}
	return ""
}

// SetStoreID sets the store ID in the context
func SetStoreID(ctx context.Context, storeID int) context.Context {
	return context.WithValue(ctx, CtxStoreID, storeID)
}

// SetSessionID sets the checkout session ID in the context
func SetSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, CtxSessionID, sessionID)
}
