package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"userledger/internal/config"
	"userledger/internal/repository"
	"userledger/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	force := flag.Bool("force", false, "Insert fixtures even if the collections already hold documents")
	dryRun := flag.Bool("dry-run", false, "Load and print the fixtures without touching the store")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.ValidateStore(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent forced seeding in production
	if cfg.Environment == "prod" && *force {
		log.Fatalf("BLOCKED: --force is not allowed in the prod environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	fixtures, err := seed.LoadFixtures()
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	if *dryRun {
		log.Printf("Fixtures: %d users, %d transactions", len(fixtures.Users), len(fixtures.Transactions))
		return
	}

	if err := run(cfg, logger, fixtures, *force); err != nil {
		logCloser.Close()
		log.Fatalf("Seeding failed: %v", err)
	}
}

// run seeds through a store it closes before returning
func run(cfg *config.Config, logger *slog.Logger, fixtures *seed.Fixtures, force bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer store.Close(context.Background())

	log.Printf("Seeding %s store (environment: %s)", cfg.StoreDriver, cfg.Environment)

	summary, err := seed.NewSeeder(store.Users, store.Transactions, logger).Seed(ctx, fixtures, force)
	if err != nil {
		return err
	}

	log.Printf("Seeding complete: %d users, %d transactions", summary.Users, summary.Transactions)
	return nil
}
