package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"userledger/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

const testProjectID = "ledger-test"

func newTestVerifier(t *testing.T) (*FirebaseVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	kf := func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}
	return newFirebaseVerifier(testProjectID, kf, discardLogger()), key
}

func validClaims(now time.Time) *models.FirebaseClaims {
	return &models.FirebaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    firebaseIssuerPrefix + testProjectID,
			Audience:  jwt.ClaimStrings{testProjectID},
			Subject:   "uid-123",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:         "a@b.com",
		EmailVerified: true,
		UserID:        "uid-123",
		AuthTime:      now.Add(-time.Minute).Unix(),
		Firebase:      models.FirebaseInfo{SignInProvider: "password"},
	}
}

func sign(t *testing.T, key *rsa.PrivateKey, claims *models.FirebaseClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key"
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestFirebaseVerifierAcceptsValidToken(t *testing.T) {
	v, key := newTestVerifier(t)
	token := sign(t, key, validClaims(time.Now()))

	identity, err := v.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken() unexpected error: %v", err)
	}
	if identity.Email != "a@b.com" || identity.UID != "uid-123" || !identity.EmailVerified {
		t.Errorf("VerifyToken() identity = %+v", identity)
	}
}

func TestFirebaseVerifierRejects(t *testing.T) {
	now := time.Now()
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *models.FirebaseClaims)
		key    *rsa.PrivateKey
		raw    string
	}{
		{
			name:   "wrong audience",
			mutate: func(c *models.FirebaseClaims) { c.Audience = jwt.ClaimStrings{"other-project"} },
		},
		{
			name:   "wrong issuer",
			mutate: func(c *models.FirebaseClaims) { c.Issuer = "https://securetoken.google.com/other-project" },
		},
		{
			name:   "expired",
			mutate: func(c *models.FirebaseClaims) { c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour)) },
		},
		{
			name:   "no expiry",
			mutate: func(c *models.FirebaseClaims) { c.ExpiresAt = nil },
		},
		{
			name:   "issued in the future",
			mutate: func(c *models.FirebaseClaims) { c.IssuedAt = jwt.NewNumericDate(now.Add(time.Hour)) },
		},
		{
			name:   "empty subject",
			mutate: func(c *models.FirebaseClaims) { c.Subject = "" },
		},
		{
			name:   "auth time in the future",
			mutate: func(c *models.FirebaseClaims) { c.AuthTime = now.Add(time.Hour).Unix() },
		},
		{
			name: "signed by another key",
			key:  otherKey,
		},
		{
			name: "garbage",
			raw:  "not-a-jwt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, key := newTestVerifier(t)
			token := tt.raw
			if token == "" {
				claims := validClaims(now)
				if tt.mutate != nil {
					tt.mutate(claims)
				}
				signer := key
				if tt.key != nil {
					signer = tt.key
				}
				token = sign(t, signer, claims)
			}

			if identity, err := v.VerifyToken(context.Background(), token); err == nil {
				t.Errorf("VerifyToken() expected error, got identity %+v", identity)
			}
		})
	}
}

func TestFirebaseVerifierRejectsHMAC(t *testing.T) {
	v, _ := newTestVerifier(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(time.Now()))
	s, err := token.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.VerifyToken(context.Background(), s); err == nil {
		t.Error("VerifyToken() accepted an HS256 token")
	}
}

func TestFirebaseVerifierHonoursCancelledContext(t *testing.T) {
	v, key := newTestVerifier(t)
	token := sign(t, key, validClaims(time.Now()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := v.VerifyToken(ctx, token); err == nil {
		t.Error("VerifyToken() succeeded with a cancelled context")
	}
}

func TestNewFirebaseVerifierRequiresProject(t *testing.T) {
	if _, err := NewFirebaseVerifier(context.Background(), "", "", discardLogger()); err == nil {
		t.Error("NewFirebaseVerifier() with empty project id should fail")
	}
}
