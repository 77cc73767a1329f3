package httputil

import (
	"context"
	"net/http"

	"userledger/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "requestID"
)

// WithIdentity binds the verified identity to the request context
func WithIdentity(r *http.Request, identity *models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, identity)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the verified identity, or nil on unauthenticated routes
func GetIdentity(r *http.Request) *models.Identity {
	identity, _ := r.Context().Value(identityKey).(*models.Identity)
	return identity
}

// WithRequestID adds the request id to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// RequestID retrieves the request id from ctx, returns empty string if not found
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
