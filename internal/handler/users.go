package handler

import (
	"context"
	"log/slog"

	"userledger/internal/domain/services"
)

// UserHandler serves the /users routes
type UserHandler struct {
	users  services.DocumentService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users services.DocumentService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// List returns every user
// GET /users
func (h *UserHandler) List(ctx context.Context, _ *Request) (*Result, error) {
	docs, err := h.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return OK(docs), nil
}

// Get returns one user
// GET /users/{id}
func (h *UserHandler) Get(ctx context.Context, req *Request) (*Result, error) {
	doc, err := h.users.Get(ctx, req.Params["id"])
	if err != nil {
		return nil, err
	}
	return OK(doc), nil
}

// GetByEmail returns the first user with the given email
// GET /users/email/{email}
func (h *UserHandler) GetByEmail(ctx context.Context, req *Request) (*Result, error) {
	doc, err := h.users.GetByEmail(ctx, req.Params["email"])
	if err != nil {
		return nil, err
	}
	return OK(doc), nil
}

// Create inserts a user
// POST /users
func (h *UserHandler) Create(ctx context.Context, req *Request) (*Result, error) {
	res, err := h.users.Create(ctx, req.Body)
	if err != nil {
		return nil, err
	}
	return Created(res), nil
}

// Update sets the given fields on a user
// PUT /users/{id}
func (h *UserHandler) Update(ctx context.Context, req *Request) (*Result, error) {
	res, err := h.users.Update(ctx, req.Params["id"], req.Body)
	if err != nil {
		return nil, err
	}
	return OK(res), nil
}

// Delete removes a user. The route requires ownership.
// DELETE /users/{id}
func (h *UserHandler) Delete(ctx context.Context, req *Request) (*Result, error) {
	res, err := h.users.Delete(ctx, req.Params["id"])
	if err != nil {
		return nil, err
	}
	return OK(res), nil
}
