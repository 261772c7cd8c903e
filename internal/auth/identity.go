package auth

import "context"

type callerKey struct{}

// WithCaller stores the authenticated user id on the context. Mutating
// handlers must derive the acting identity from here, never from a
// client-supplied field.
func WithCaller(ctx context.Context, userID string) context.Context {
	if ctx == nil || userID == "" {
		return ctx
	}
	return context.WithValue(ctx, callerKey{}, userID)
}

// CallerFromContext returns the authenticated user id, or an empty string
// when the request is unauthenticated.
func CallerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(callerKey{}).(string); ok {
		return id
	}
	return ""
}
