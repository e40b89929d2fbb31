package utils

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id between the gateway and the catalog service
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// NewRequestID generates a new request id
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID stores id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored in ctx, or a fresh one
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return NewRequestID()
}

// ShortID returns the first 8 characters of a request id for log prefixes
func ShortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
