// Package memory is a process-local document store. Documents are kept as
// encoded JSON so callers never share maps with the store.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"userledger/internal/domain"
	"userledger/internal/domain/models"
	"userledger/internal/domain/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentRepository implements repositories.DocumentRepository in memory
type DocumentRepository struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

// NewDocumentRepository creates an empty in-memory collection
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{docs: make(map[string][]byte)}
}

var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Insert(_ context.Context, doc models.Document) (*models.InsertResult, error) {
	raw, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return nil, domain.NewStoreError("insert document", err)
	}

	id := primitive.NewObjectID().Hex()

	r.mu.Lock()
	r.docs[id] = raw
	r.order = append(r.order, id)
	r.mu.Unlock()

	return &models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (r *DocumentRepository) FindAll(_ context.Context) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Document, 0, len(r.order))
	for _, id := range r.order {
		doc, err := decode(id, r.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *DocumentRepository) FindByID(_ context.Context, id string) (models.Document, error) {
	r.mu.RLock()
	raw, ok := r.docs[id]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	return decode(id, raw)
}

func (r *DocumentRepository) FindOneByField(ctx context.Context, field, value string) (models.Document, error) {
	docs, err := r.FindByField(ctx, field, value)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

func (r *DocumentRepository) FindByField(ctx context.Context, field, value string) ([]models.Document, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Document, 0)
	for _, doc := range all {
		if s, ok := doc[field].(string); ok && s == value {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *DocumentRepository) UpdateByID(_ context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.docs[id]
	if !ok {
		return &models.UpdateResult{Acknowledged: true}, nil
	}

	doc, err := decode(id, raw)
	if err != nil {
		return nil, err
	}
	for k, v := range fields.WithoutID() {
		doc[k] = v
	}
	updated, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return nil, domain.NewStoreError("update document", err)
	}

	result := &models.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if !bytes.Equal(raw, updated) {
		r.docs[id] = updated
		result.ModifiedCount = 1
	}
	return result, nil
}

func (r *DocumentRepository) DeleteByID(_ context.Context, id string) (*models.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return &models.DeleteResult{Acknowledged: true}, nil
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (r *DocumentRepository) Ping(_ context.Context) error {
	return nil
}

// Len reports how many documents are stored
func (r *DocumentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func decode(id string, raw []byte) (models.Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	doc := models.Document{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, domain.NewStoreError("decode document", fmt.Errorf("%s: %w", id, err))
	}
	doc[models.IDField] = id
	return doc, nil
}
