package services

import (
	"context"

	"userledger/internal/domain/models"
)

// DocumentService validates requests against one collection and performs
// at most one repository call per method.
type DocumentService interface {
	// Create inserts a non-empty document. A client-supplied _id is ignored.
	Create(ctx context.Context, doc models.Document) (*models.InsertResult, error)

	// List returns every document in the collection
	List(ctx context.Context) ([]models.Document, error)

	// Get returns a document by identifier
	Get(ctx context.Context, id string) (models.Document, error)

	// GetByEmail returns the first document whose email field matches
	GetByEmail(ctx context.Context, email string) (models.Document, error)

	// ListByEmail returns every document whose email field matches
	ListByEmail(ctx context.Context, email string) ([]models.Document, error)

	// Update applies a $set of the given non-empty fields
	Update(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error)

	// Delete removes a document by identifier
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
