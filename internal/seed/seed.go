// Package seed loads the embedded dummy dataset into empty collections.
package seed

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"userledger/internal/domain/models"
	"userledger/internal/domain/repositories"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

// Fixtures is the dummy dataset
type Fixtures struct {
	Users        []models.Document
	Transactions []models.Document
}

// LoadFixtures decodes the embedded YAML fixtures
func LoadFixtures() (*Fixtures, error) {
	users, err := loadFixture("users")
	if err != nil {
		return nil, err
	}
	transactions, err := loadFixture("transactions")
	if err != nil {
		return nil, err
	}
	return &Fixtures{Users: users, Transactions: transactions}, nil
}

func loadFixture(name string) ([]models.Document, error) {
	filename := fmt.Sprintf("fixtures/%s.yaml", name)
	data, err := fixtureFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var docs []models.Document
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	return docs, nil
}

// Summary reports how many documents each collection received
type Summary struct {
	Users        int
	Transactions int
}

// Seeder writes fixtures through the document repositories
type Seeder struct {
	users        repositories.DocumentRepository
	transactions repositories.DocumentRepository
	logger       *slog.Logger
}

// NewSeeder creates a seeder for the given collections
func NewSeeder(users, transactions repositories.DocumentRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:        users,
		transactions: transactions,
		logger:       logger,
	}
}

// Seed inserts fixtures into each collection that is empty, or into every
// collection when force is set. Emptiness is decided before any insert so
// collections that share storage are seeded consistently.
func (s *Seeder) Seed(ctx context.Context, fixtures *Fixtures, force bool) (*Summary, error) {
	seedUsers, err := s.shouldSeed(ctx, s.users, force)
	if err != nil {
		return nil, err
	}
	seedTransactions, err := s.shouldSeed(ctx, s.transactions, force)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if seedUsers {
		if summary.Users, err = s.insertAll(ctx, s.users, fixtures.Users); err != nil {
			return summary, fmt.Errorf("seed users: %w", err)
		}
	}
	if seedTransactions {
		if summary.Transactions, err = s.insertAll(ctx, s.transactions, fixtures.Transactions); err != nil {
			return summary, fmt.Errorf("seed transactions: %w", err)
		}
	}

	s.logger.Info("seeding complete", "users", summary.Users, "transactions", summary.Transactions)
	return summary, nil
}

func (s *Seeder) shouldSeed(ctx context.Context, repo repositories.DocumentRepository, force bool) (bool, error) {
	if force {
		return true, nil
	}
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("check existing documents: %w", err)
	}
	return len(existing) == 0, nil
}

func (s *Seeder) insertAll(ctx context.Context, repo repositories.DocumentRepository, docs []models.Document) (int, error) {
	inserted := 0
	for _, doc := range docs {
		res, err := repo.Insert(ctx, doc)
		if err != nil {
			return inserted, err
		}
		inserted++
		s.logger.Debug("seeded document", "id", res.InsertedID)
	}
	return inserted, nil
}
