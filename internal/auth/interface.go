package auth

import (
	"context"

	"userledger/internal/domain/models"
)

// IdentityVerifier defines the interface for bearer token verification.
// This abstraction keeps the gate agnostic to the identity provider and
// lets tests substitute a fake without any real credential.
type IdentityVerifier interface {
	// VerifyToken validates an ID token and returns the identity it asserts.
	// Any failure (expired, bad signature, wrong project, key fetch error)
	// is returned as an error; callers must not depend on its kind.
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)

	// Close releases any resources held by the verifier (e.g. the JWKS refresh goroutine).
	Close() error
}
