package handler

import (
	"context"
	"log/slog"
	"net/http"

	"userledger/internal/domain/services"
)

// Greeting is the body of GET /
const Greeting = "Hello from userledger!"

// HealthHandler serves the liveness routes
type HealthHandler struct {
	store  services.DocumentService
	logger *slog.Logger
}

// NewHealthHandler creates a health handler that pings through store
func NewHealthHandler(store services.DocumentService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// Greet answers GET /
func (h *HealthHandler) Greet(_ context.Context, _ *Request) (*Result, error) {
	return OK(Greeting), nil
}

// Health reports store reachability
// GET /health
func (h *HealthHandler) Health(ctx context.Context, _ *Request) (*Result, error) {
	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", "error", err)
		return &Result{
			Status:  http.StatusServiceUnavailable,
			Payload: map[string]string{"status": "unavailable"},
		}, nil
	}
	return OK(map[string]string{"status": "ok"}), nil
}
