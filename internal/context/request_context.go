package context

import (
	"context"
)

type contextKey string

var requestIDKey contextKey = "request_id"

// SetRequestID stores the correlation ID the logging middleware minted
// for this request.
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request's correlation ID, or "" outside a
// request.
func GetRequestID(ctx context.Context) string {
	val := ctx.Value(requestIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
