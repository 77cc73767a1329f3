package config

const (
	// MaxRequestBodyBytes bounds JSON bodies on create/update routes.
	MaxRequestBodyBytes = 1 << 20

	// MaxCollectionNameLength keeps collection names under MongoDB's
	// namespace limit and Postgres' 63-byte identifier limit once prefixed.
	MaxCollectionNameLength = 48

	// MaxLogFiles is how many rotated server logs are kept under LOG_DIR.
	MaxLogFiles = 10
)
