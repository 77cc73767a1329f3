package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Store drivers
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port            string
	Environment     string
	LogDir          string
	CORSOrigins     string
	ShutdownTimeout time.Duration
	// Document store
	StoreDriver            string
	MongoURI               string
	MongoDatabase          string
	UsersCollection        string
	TransactionsCollection string
	DatabaseURL            string
	TablePrefix            string
	SeedOnStart            bool
	// Identity provider
	FirebaseServiceAccount string
	FirebaseProjectID      string
	FirebaseJWKSURL        string
	// Rate limiting (disabled when RateLimitRequests is 0)
	RedisURL          string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		LogDir:          getEnv("LOG_DIR", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		// Document store
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "testDB"),
		// Both routes share the "users" collection unless told otherwise
		UsersCollection:        getEnv("USERS_COLLECTION", "users"),
		TransactionsCollection: getEnv("TRANSACTIONS_COLLECTION", "users"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		TablePrefix:            getTablePrefix(env),
		SeedOnStart:            getBool("SEED_ON_START", false),
		// Identity provider
		FirebaseServiceAccount: getEnv("FIREBASE_SERVICE_ACCOUNT", ""),
		FirebaseProjectID:      getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseJWKSURL:        getEnv("FIREBASE_JWKS_URL", ""),
		// Rate limiting
		RedisURL:          getEnv("REDIS_URL", ""),
		RateLimitRequests: getInt("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// Validate checks the configuration before anything is constructed,
// so misconfiguration fails at startup rather than on the first request.
func (c *Config) Validate() error {
	if err := c.ValidateStore(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.FirebaseServiceAccount,
			validation.When(c.FirebaseProjectID == "", validation.Required.Error("FIREBASE_SERVICE_ACCOUNT or FIREBASE_PROJECT_ID is required")),
		),
		validation.Field(&c.FirebaseJWKSURL, is.URL),
		validation.Field(&c.RateLimitRequests, validation.Min(0)),
		validation.Field(&c.RateLimitWindow, validation.When(c.RateLimitRequests > 0, validation.Required)),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
}

// ValidateStore checks only the document store settings. The seed command
// uses it since it never verifies tokens.
func (c *Config) ValidateStore() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StoreDriver, validation.Required, validation.In(StoreMongo, StorePostgres, StoreMemory)),
		validation.Field(&c.MongoURI,
			validation.When(c.StoreDriver == StoreMongo, validation.Required.Error("MONGO_URI is required for the mongo store")),
		),
		validation.Field(&c.MongoDatabase, validation.When(c.StoreDriver == StoreMongo, validation.Required)),
		validation.Field(&c.DatabaseURL,
			validation.When(c.StoreDriver == StorePostgres, validation.Required.Error("DATABASE_URL is required for the postgres store")),
		),
		validation.Field(&c.UsersCollection, validation.Required, validation.Length(1, MaxCollectionNameLength)),
		validation.Field(&c.TransactionsCollection, validation.Required, validation.Length(1, MaxCollectionNameLength)),
	)
}

// AllowedOrigins splits CORS_ORIGINS into a list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getTablePrefix returns the Postgres table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}
