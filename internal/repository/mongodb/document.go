package mongodb

import (
	"context"
	"errors"
	"log/slog"

	"userledger/internal/domain"
	"userledger/internal/domain/models"
	"userledger/internal/domain/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DocumentRepository implements repositories.DocumentRepository on one collection
type DocumentRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewDocumentRepository binds a repository to db.collection
func NewDocumentRepository(db *mongo.Database, collection string, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{
		coll:   db.Collection(collection),
		logger: logger,
	}
}

var _ repositories.DocumentRepository = (*DocumentRepository)(nil)

func (r *DocumentRepository) Insert(ctx context.Context, doc models.Document) (*models.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, bson.M(doc.WithoutID()))
	if err != nil {
		return nil, domain.NewStoreError("insert document", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, domain.NewStoreError("insert document", errors.New("driver returned a non-ObjectID identifier"))
	}
	r.logger.Debug("document inserted", "collection", r.coll.Name(), "id", oid.Hex())
	return &models.InsertResult{Acknowledged: true, InsertedID: oid.Hex()}, nil
}

func (r *DocumentRepository) FindAll(ctx context.Context) ([]models.Document, error) {
	return r.find(ctx, bson.D{}, "find documents")
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (models.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, "find document by id")
}

func (r *DocumentRepository) FindOneByField(ctx context.Context, field, value string) (models.Document, error) {
	return r.findOne(ctx, bson.D{{Key: field, Value: value}}, "find document by "+field)
}

func (r *DocumentRepository) FindByField(ctx context.Context, field, value string) ([]models.Document, error) {
	return r.find(ctx, bson.D{{Key: field, Value: value}}, "find documents by "+field)
}

func (r *DocumentRepository) UpdateByID(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &models.UpdateResult{Acknowledged: true}, nil
	}

	update := bson.D{{Key: "$set", Value: bson.M(fields.WithoutID())}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return nil, domain.NewStoreError("update document", err)
	}

	result := &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		hex := upserted.Hex()
		result.UpsertedID = &hex
	}
	return result, nil
}

func (r *DocumentRepository) DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &models.DeleteResult{Acknowledged: true}, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, domain.NewStoreError("delete document", err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *DocumentRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

func (r *DocumentRepository) findOne(ctx context.Context, filter bson.D, op string) (models.Document, error) {
	var raw bson.M
	err := r.coll.FindOne(ctx, filter).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError(op, err)
	}
	return toDocument(raw), nil
}

func (r *DocumentRepository) find(ctx context.Context, filter bson.D, op string) ([]models.Document, error) {
	// Natural order is insertion order for ObjectID-keyed documents
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, domain.NewStoreError(op, err)
	}

	docs := make([]models.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}
