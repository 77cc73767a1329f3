package models

import "github.com/golang-jwt/jwt/v5"

// FirebaseClaims represents the claims of a Firebase Auth ID token.
// See: https://firebase.google.com/docs/auth/admin/verify-id-tokens
type FirebaseClaims struct {
	jwt.RegisteredClaims              // sub, iss, aud, exp, iat
	Email                string       `json:"email"`
	EmailVerified        bool         `json:"email_verified"`
	UserID               string       `json:"user_id"`
	Name                 string       `json:"name,omitempty"`
	Picture              string       `json:"picture,omitempty"`
	AuthTime             int64        `json:"auth_time"`
	Firebase             FirebaseInfo `json:"firebase"`
}

// FirebaseInfo is the provider block nested under the "firebase" claim
type FirebaseInfo struct {
	SignInProvider string                 `json:"sign_in_provider"`
	Identities     map[string]interface{} `json:"identities,omitempty"`
}

// Identity is the verified caller of a single request.
// It lives only as long as that request and is never persisted.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Identity extracts the request identity from verified claims
func (c *FirebaseClaims) Identity() *Identity {
	return &Identity{
		UID:           c.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
	}
}
