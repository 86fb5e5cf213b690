package middleware

import (
	"context"
	"net/http"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

type contextKey string

const backendContextKey contextKey = "facerec"

// WithBackend is middleware that adds the face recognition client to the request context.
func WithBackend(client *facerec.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(SetBackendInContext(r.Context(), client)))
		})
	}
}

// SetBackendInContext stores the client in ctx.
func SetBackendInContext(ctx context.Context, client *facerec.Client) context.Context {
	return context.WithValue(ctx, backendContextKey, client)
}

// GetBackendFromContext retrieves the client from the request context.
// Returns nil if no client is available.
func GetBackendFromContext(ctx context.Context) *facerec.Client {
	client, ok := ctx.Value(backendContextKey).(*facerec.Client)
	if !ok {
		return nil
	}
	return client
}

// MustGetBackend retrieves the client from context.
// If not available, writes an error response and returns nil.
// Handlers should return immediately after receiving nil.
func MustGetBackend(ctx context.Context, w http.ResponseWriter) *facerec.Client {
	client := GetBackendFromContext(ctx)
	if client == nil {
		http.Error(w, `{"error": "backend client not available"}`, http.StatusInternalServerError)
		return nil
	}
	return client
}
