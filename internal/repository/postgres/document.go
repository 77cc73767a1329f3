package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"userledger/internal/domain"
	"userledger/internal/domain/models"
	"userledger/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostgresDocumentRepository implements repositories.DocumentRepository on a JSONB table.
// The identifier lives in the id column and is injected as _id on read.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewDocumentRepository creates a repository for one collection table
func NewDocumentRepository(config *RepositoryConfig, collection string) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		table:  config.TableName(collection),
		logger: config.Logger,
	}
}

func (r *PostgresDocumentRepository) Insert(ctx context.Context, doc models.Document) (*models.InsertResult, error) {
	raw, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return nil, domain.NewStoreError("insert document", err)
	}

	id := primitive.NewObjectID().Hex()
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, r.table)

	if _, err := r.pool.Exec(ctx, query, id, string(raw)); err != nil {
		return nil, domain.NewStoreError("insert document", err)
	}

	return &models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (r *PostgresDocumentRepository) FindAll(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, doc
		FROM %s
		ORDER BY created_at, id
	`, r.table)

	return r.query(ctx, "find documents", query)
}

func (r *PostgresDocumentRepository) FindByID(ctx context.Context, id string) (models.Document, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, r.table)
	return r.queryOne(ctx, "find document by id", query, id)
}

func (r *PostgresDocumentRepository) FindOneByField(ctx context.Context, field, value string) (models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, doc
		FROM %s
		WHERE doc->>%s = $1
		ORDER BY created_at, id
		LIMIT 1
	`, r.table, quoteLiteral(field))

	return r.queryOne(ctx, "find document by "+field, query, value)
}

func (r *PostgresDocumentRepository) FindByField(ctx context.Context, field, value string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, doc
		FROM %s
		WHERE doc->>%s = $1
		ORDER BY created_at, id
	`, r.table, quoteLiteral(field))

	return r.query(ctx, "find documents by "+field, query, value)
}

// UpdateByID merges fields into the stored object in a single statement.
// Rows whose merged value is unchanged count as matched but not modified.
func (r *PostgresDocumentRepository) UpdateByID(ctx context.Context, id string, fields models.Document) (*models.UpdateResult, error) {
	raw, err := json.Marshal(fields.WithoutID())
	if err != nil {
		return nil, domain.NewStoreError("update document", err)
	}

	query := fmt.Sprintf(`
		WITH target AS (
			SELECT id FROM %[1]s WHERE id = $1
		), updated AS (
			UPDATE %[1]s
			SET doc = doc || $2::jsonb
			WHERE id = $1 AND doc || $2::jsonb <> doc
			RETURNING id
		)
		SELECT (SELECT count(*) FROM target), (SELECT count(*) FROM updated)
	`, r.table)

	result := &models.UpdateResult{Acknowledged: true}
	err = r.pool.QueryRow(ctx, query, id, string(raw)).Scan(&result.MatchedCount, &result.ModifiedCount)
	if err != nil {
		return nil, domain.NewStoreError("update document", err)
	}
	return result, nil
}

func (r *PostgresDocumentRepository) DeleteByID(ctx context.Context, id string) (*models.DeleteResult, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return nil, domain.NewStoreError("delete document", err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}

func (r *PostgresDocumentRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return domain.NewStoreError("ping", err)
	}
	return nil
}

func (r *PostgresDocumentRepository) queryOne(ctx context.Context, op, query string, args ...interface{}) (models.Document, error) {
	var id string
	var raw []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(&id, &raw)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, domain.ErrNotFound
		}
		return nil, r.storeError(op, err)
	}
	return decodeRow(id, raw)
}

func (r *PostgresDocumentRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]models.Document, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, r.storeError(op, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, r.storeError(op, err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.storeError(op, err)
	}
	return docs, nil
}

func (r *PostgresDocumentRepository) storeError(op string, err error) error {
	if IsPgUndefinedTableError(err) {
		r.logger.Error("collection table missing; run the seed command or set SEED_ON_START", "table", r.table)
	}
	return domain.NewStoreError(op, err)
}

// quoteLiteral renders field as a SQL string literal so the planner can match
// expression indexes such as (doc->>'email'). Assumes standard_conforming_strings.
func quoteLiteral(field string) string {
	return "'" + strings.ReplaceAll(field, "'", "''") + "'"
}

func decodeRow(id string, raw []byte) (models.Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	doc := models.Document{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, domain.NewStoreError("decode document", fmt.Errorf("%s: %w", id, err))
	}
	doc[models.IDField] = id
	return doc, nil
}
