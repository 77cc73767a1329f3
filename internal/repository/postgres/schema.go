package postgres

import (
	"context"
	"fmt"
)

// EnsureCollection creates the backing table for a collection if missing.
// The email expression index serves the by-email lookups.
func EnsureCollection(ctx context.Context, config *RepositoryConfig, collection string) error {
	table := config.TableName(collection)
	index := config.TableName(collection + "_email_idx")

	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				doc        JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ((doc->>'email'))`, index, table),
	}

	for _, stmt := range statements {
		if _, err := config.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure collection %s: %w", collection, err)
		}
	}

	config.Logger.Debug("collection table ready", "collection", collection, "table", table)
	return nil
}
