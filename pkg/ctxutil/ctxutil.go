// Package ctxutil stores request-scoped identifiers in a context.
package ctxutil

import "context"

type key int

const (
	requestIDKey key = iota
	clientIDKey
)

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithClientID returns a copy of ctx carrying the client ID.
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}

// ClientID returns the client ID stored in ctx, or "".
func ClientID(ctx context.Context) string {
	return stringValue(ctx, clientIDKey)
}

// Fields returns the identifiers present in ctx keyed by their log field names.
func Fields(ctx context.Context) map[string]any {
	fields := make(map[string]any, 2)
	if ctx == nil {
		return fields
	}
	if id := RequestID(ctx); id != "" {
		fields["request_id"] = id
	}
	if id := ClientID(ctx); id != "" {
		fields["client_id"] = id
	}
	return fields
}

func stringValue(ctx context.Context, k key) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(k).(string); ok {
		return s
	}
	return ""
}
