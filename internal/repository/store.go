// Package repository selects and wires the configured document store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"userledger/internal/config"
	"userledger/internal/domain/repositories"
	"userledger/internal/repository/memory"
	"userledger/internal/repository/mongodb"
	"userledger/internal/repository/postgres"
)

// Store is the pair of collections the service runs on, plus the hook
// that releases the underlying connection.
type Store struct {
	Users        repositories.DocumentRepository
	Transactions repositories.DocumentRepository
	close        func(context.Context) error
}

// Close releases the store connection
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.StoreDriver. When both
// collections have the same name they share one repository.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, logger)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreMemory:
		return NewMemoryStore(cfg.UsersCollection, cfg.TransactionsCollection), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMemoryStore builds a process-local store
func NewMemoryStore(usersCollection, transactionsCollection string) *Store {
	users := memory.NewDocumentRepository()
	store := &Store{Users: users, Transactions: users}
	if transactionsCollection != usersCollection {
		store.Transactions = memory.NewDocumentRepository()
	}
	return store
}

func openMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	logger.Info("connected to mongo",
		"database", cfg.MongoDatabase,
		"users_collection", cfg.UsersCollection,
		"transactions_collection", cfg.TransactionsCollection,
	)

	return &Store{
		Users:        mongodb.NewDocumentRepository(db, cfg.UsersCollection, logger),
		Transactions: mongodb.NewDocumentRepository(db, cfg.TransactionsCollection, logger),
		close:        client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:        pool,
		TablePrefix: cfg.TablePrefix,
		Logger:      logger,
	}

	for _, collection := range uniqueCollections(cfg) {
		if err := postgres.EnsureCollection(ctx, repoConfig, collection); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logger.Info("connected to postgres", "table_prefix", cfg.TablePrefix)

	return &Store{
		Users:        postgres.NewDocumentRepository(repoConfig, cfg.UsersCollection),
		Transactions: postgres.NewDocumentRepository(repoConfig, cfg.TransactionsCollection),
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func uniqueCollections(cfg *config.Config) []string {
	if cfg.UsersCollection == cfg.TransactionsCollection {
		return []string{cfg.UsersCollection}
	}
	return []string{cfg.UsersCollection, cfg.TransactionsCollection}
}
