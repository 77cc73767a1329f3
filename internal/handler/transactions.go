package handler

import (
	"context"
	"log/slog"

	"userledger/internal/auth"
	"userledger/internal/domain/services"
)

// TransactionHandler serves the owner-only transaction routes. Each method
// re-checks ownership so it stays safe if mounted without RequireOwner.
type TransactionHandler struct {
	transactions services.DocumentService
	logger       *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactions services.DocumentService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

// Create inserts a transaction
// POST /transactions
func (h *TransactionHandler) Create(ctx context.Context, req *Request) (*Result, error) {
	if err := checkOwner(req); err != nil {
		return nil, err
	}

	res, err := h.transactions.Create(ctx, req.Body)
	if err != nil {
		return nil, err
	}
	return Created(res), nil
}

// Get returns one transaction
// GET /transactions/{id}
func (h *TransactionHandler) Get(ctx context.Context, req *Request) (*Result, error) {
	if err := checkOwner(req); err != nil {
		return nil, err
	}

	doc, err := h.transactions.Get(ctx, req.Params["id"])
	if err != nil {
		return nil, err
	}
	return OK(doc), nil
}

// Update sets the given fields on a transaction
// PUT /transactions/update/{id}
func (h *TransactionHandler) Update(ctx context.Context, req *Request) (*Result, error) {
	if err := checkOwner(req); err != nil {
		return nil, err
	}

	res, err := h.transactions.Update(ctx, req.Params["id"], req.Body)
	if err != nil {
		return nil, err
	}
	return OK(res), nil
}

// ListMine returns every transaction whose email is the caller's
// GET /get-data
func (h *TransactionHandler) ListMine(ctx context.Context, req *Request) (*Result, error) {
	if err := checkOwner(req); err != nil {
		return nil, err
	}

	docs, err := h.transactions.ListByEmail(ctx, req.Identity.Email)
	if err != nil {
		return nil, err
	}
	return OK(docs), nil
}

func checkOwner(req *Request) error {
	return auth.CheckOwner(req.Identity, req.Header.Get(auth.OwnerHeader))
}
