package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userledger/internal/auth"
	"userledger/internal/config"
	"userledger/internal/ratelimit"
	"userledger/internal/repository"
	"userledger/internal/seed"
	"userledger/internal/server"
	"userledger/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// run owns every resource it opens, so deferred closes always execute
// before main exits.
func run() error {
	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_driver", cfg.StoreDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Identity provider
	projectID, err := auth.ResolveProjectID(cfg.FirebaseProjectID, cfg.FirebaseServiceAccount)
	if err != nil {
		return fmt.Errorf("resolve Firebase project: %w", err)
	}
	verifier, err := auth.NewFirebaseVerifier(ctx, projectID, cfg.FirebaseJWKSURL, logger)
	if err != nil {
		return fmt.Errorf("create Firebase verifier: %w", err)
	}
	defer verifier.Close()

	// Document store (connect + ping, fail fast)
	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to close document store", "error", err)
		}
	}()

	if cfg.SeedOnStart {
		fixtures, err := seed.LoadFixtures()
		if err != nil {
			return fmt.Errorf("load seed fixtures: %w", err)
		}
		if _, err := seed.NewSeeder(store.Users, store.Transactions, logger).Seed(ctx, fixtures, false); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// Rate limiter
	limiter, closeLimiter, err := newLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Services and router
	deps := &server.Dependencies{
		Users:             service.NewDocumentService(store.Users, "user", logger),
		Transactions:      service.NewDocumentService(store.Transactions, "transaction", logger),
		Gate:              auth.NewGate(verifier, logger),
		Logger:            logger,
		Limiter:           limiter,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		AllowedOrigins:    cfg.AllowedOrigins(),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newLimiter returns the Redis limiter when REDIS_URL is set, otherwise a
// process-local one. It returns nil when rate limiting is disabled.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.RateLimitRequests <= 0 {
		return nil, func() {}, nil
	}

	if cfg.RedisURL != "" {
		client, err := ratelimit.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to Redis: %w", err)
		}
		logger.Info("rate limiting enabled", "backend", "redis", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
		return ratelimit.NewRedisLimiter(client, "userledger:ratelimit:"), func() { client.Close() }, nil
	}

	logger.Info("rate limiting enabled", "backend", "memory", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
	return ratelimit.NewMemoryLimiter(ratelimit.MemoryOptions{}), func() {}, nil
}
