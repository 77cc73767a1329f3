package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"userledger/internal/domain"
	"userledger/internal/domain/models"
)

const (
	// AuthHeader carries "<scheme> <token>"
	AuthHeader = "auth_key"

	// OwnerHeader carries the subject the client claims to act for
	OwnerHeader = "email"
)

// Gate authenticates requests by delegating token verification to an
// IdentityVerifier. It holds no per-request state.
type Gate struct {
	verifier IdentityVerifier
	logger   *slog.Logger
}

// NewGate creates a gate backed by the given verifier
func NewGate(verifier IdentityVerifier, logger *slog.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		logger:   logger,
	}
}

// Authorize extracts the bearer token from header and returns the verified
// identity. Errors are domain.ErrMissingHeader, domain.ErrMalformedToken or
// domain.ErrInvalidToken, all of which wrap domain.ErrUnauthorized.
func (g *Gate) Authorize(ctx context.Context, header http.Header) (*models.Identity, error) {
	raw := header.Get(AuthHeader)
	if raw == "" {
		return nil, domain.ErrMissingHeader
	}

	_, token, ok := strings.Cut(raw, " ")
	if !ok || token == "" {
		return nil, domain.ErrMalformedToken
	}

	identity, err := g.verifier.VerifyToken(ctx, token)
	if err != nil {
		// Verifier errors never include the token itself
		g.logger.DebugContext(ctx, "token verification failed", "error", err)
		return nil, domain.ErrInvalidToken
	}
	if identity == nil || identity.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	return identity, nil
}

// CheckOwner succeeds only if claim is exactly the verified email.
// Comparison is case-sensitive with no normalization.
func CheckOwner(identity *models.Identity, claim string) error {
	if identity == nil || claim == "" || claim != identity.Email {
		return domain.ErrForbidden
	}
	return nil
}
