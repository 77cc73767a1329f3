package repositories

import (
	"context"

	"userledger/internal/domain/models"
)

// DocumentRepository is a single collection of free-form documents.
// Each method performs exactly one store operation. Identifiers are
// ObjectID hex strings; callers validate them before calling.
//
// Driver failures are returned as *domain.StoreError. FindByID and
// FindOneByField return domain.ErrNotFound when nothing matches.
type DocumentRepository interface {
	// Insert stores doc under a freshly generated identifier
	Insert(ctx context.Context, doc models.Document) (*models.InsertResult, error)

	// FindAll returns every document in insertion order
	FindAll(ctx context.Context) ([]models.Document, error)

	// FindByID returns the document with the given identifier
	FindByID(ctx context.Context, id string) (models.Document, error)

	// FindOneByField returns the first document whose top-level field equals value
	FindOneByField(ctx context.Context, field, value string) (models.Document, error)

	// FindByField returns every document whose top-level field equals value
	FindByField(ctx context.Context, field, value string) ([]models.Document, error)

	// UpdateByID merges fields into the document's top level ($set semantics)
	UpdateByID(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error)

	// DeleteByID removes the document with the given identifier
	DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error)

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}
