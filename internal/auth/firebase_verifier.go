package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"userledger/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// GoogleJWKSURL serves the public keys that sign Firebase ID tokens
	GoogleJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	// firebaseIssuerPrefix is followed by the project id in the iss claim
	firebaseIssuerPrefix = "https://securetoken.google.com/"

	// maxSubjectLength is the Firebase limit on uid length
	maxSubjectLength = 128
)

// FirebaseVerifier implements IdentityVerifier for Firebase Auth ID tokens.
type FirebaseVerifier struct {
	projectID string
	keyfunc   jwt.Keyfunc
	leeway    time.Duration
	cancel    context.CancelFunc
	logger    *slog.Logger
}

// NewFirebaseVerifier creates a verifier that fetches Google's signing keys
// from jwksURL (GoogleJWKSURL when empty). The key set is cached and refreshed
// in the background until Close is called.
func NewFirebaseVerifier(ctx context.Context, projectID, jwksURL string, logger *slog.Logger) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id cannot be empty")
	}
	if jwksURL == "" {
		jwksURL = GoogleJWKSURL
	}

	ctx, cancel := context.WithCancel(ctx)
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	v := newFirebaseVerifier(projectID, jwks.Keyfunc, logger)
	v.cancel = cancel

	logger.Info("firebase verifier initialized", "project_id", projectID, "jwks_url", jwksURL)
	return v, nil
}

// newFirebaseVerifier builds a verifier around an arbitrary key lookup
func newFirebaseVerifier(projectID string, kf jwt.Keyfunc, logger *slog.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{
		projectID: projectID,
		keyfunc:   kf,
		leeway:    30 * time.Second,
		logger:    logger,
	}
}

// VerifyToken validates signature, issuer, audience and lifetime of a
// Firebase ID token and returns the identity it carries.
func (v *FirebaseVerifier) VerifyToken(ctx context.Context, tokenString string) (*models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &models.FirebaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	if claims.Subject == "" || len(claims.Subject) > maxSubjectLength {
		return nil, errors.New("token has an invalid subject")
	}

	// auth_time must not be in the future
	if claims.AuthTime > 0 && time.Unix(claims.AuthTime, 0).After(time.Now().Add(v.leeway)) {
		return nil, errors.New("token auth_time is in the future")
	}

	return claims.Identity(), nil
}

// Close stops the background key refresh.
func (v *FirebaseVerifier) Close() error {
	if v.cancel != nil {
		v.cancel()
	}
	v.logger.Info("firebase verifier closed")
	return nil
}
