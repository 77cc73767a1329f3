package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"userledger/internal/domain"
	"userledger/internal/domain/models"
	"userledger/internal/domain/repositories"
	"userledger/internal/domain/services"
)

// documentService implements the DocumentService interface for one collection
type documentService struct {
	repo     repositories.DocumentRepository
	resource string
	logger   *slog.Logger
}

// NewDocumentService creates a document service. resource names the
// documents in client-facing messages ("user", "transaction").
func NewDocumentService(repo repositories.DocumentRepository, resource string, logger *slog.Logger) services.DocumentService {
	return &documentService{
		repo:     repo,
		resource: resource,
		logger:   logger,
	}
}

func (s *documentService) Create(ctx context.Context, doc models.Document) (*models.InsertResult, error) {
	if err := validateBody(doc); err != nil {
		return nil, err
	}

	result, err := s.repo.Insert(ctx, doc.WithoutID())
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.resource+" created", "id", result.InsertedID)
	return result, nil
}

func (s *documentService) List(ctx context.Context) ([]models.Document, error) {
	return s.repo.FindAll(ctx)
}

func (s *documentService) Get(ctx context.Context, id string) (models.Document, error) {
	id, err := validateID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err)
	}
	return doc, nil
}

func (s *documentService) GetByEmail(ctx context.Context, email string) (models.Document, error) {
	doc, err := s.repo.FindOneByField(ctx, "email", email)
	if err != nil {
		return nil, s.notFound(err)
	}
	return doc, nil
}

func (s *documentService) ListByEmail(ctx context.Context, email string) ([]models.Document, error) {
	return s.repo.FindByField(ctx, "email", email)
}

func (s *documentService) Update(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	id, err := validateID(id)
	if err != nil {
		return nil, err
	}
	fields = fields.WithoutID()
	if err := validateBody(fields); err != nil {
		return nil, err
	}

	result, err := s.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.resource+" updated", "id", id, "matched", result.MatchedCount, "modified", result.ModifiedCount)
	return result, nil
}

func (s *documentService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	id, err := validateID(id)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.resource+" deleted", "id", id, "deleted", result.DeletedCount)
	return result, nil
}

func (s *documentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// notFound names the resource in a repository ErrNotFound
func (s *documentService) notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NotFoundError{Message: s.resource + " not found"}
	}
	return err
}

var objectID = validation.NewStringRule(primitive.IsValidObjectID, "must be a 24-character hex identifier")

// validateID checks id and returns its canonical lowercase form, the
// spelling every store keys documents by.
func validateID(id string) (string, error) {
	if err := validation.Validate(id, validation.Required, objectID); err != nil {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid id: %v", err)}
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", &domain.ValidationError{Message: "invalid id"}
	}
	return oid.Hex(), nil
}

func validateBody(doc models.Document) error {
	if len(doc.WithoutID()) == 0 {
		return &domain.ValidationError{Message: "empty request body"}
	}
	for key := range doc {
		if strings.HasPrefix(key, "$") {
			return &domain.ValidationError{Message: fmt.Sprintf("invalid field name %q", key)}
		}
	}
	return nil
}
