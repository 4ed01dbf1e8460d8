package types

import "context"

type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxCustomerID    ContextKey = "ctx_customer_id"
	CtxCustomerToken ContextKey = "ctx_customer_token"
)

func GetRequestID(ctx context.Context) string {
	return getString(ctx, CtxRequestID)
}

func GetCustomerID(ctx context.Context) string {
	return getString(ctx, CtxCustomerID)
}

// GetCustomerToken returns the per-customer bearer token used for mirror
// (Shopify) calls. The token is placed on the context by the session
// middleware and is opaque to everything below it.
func GetCustomerToken(ctx context.Context) string {
	return getString(ctx, CtxCustomerToken)
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func SetCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, CtxCustomerID, customerID)
}

func SetCustomerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxCustomerToken, token)
}

func getString(ctx context.Context, key ContextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
