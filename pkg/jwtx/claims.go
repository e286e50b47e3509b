package jwtx

import (
	"time"

	"github.com/aussiebroadwan/branchauth/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These are the last step of the configuration
// fallback chain and are expected to be overridden in deployment.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the payload carried by both access and refresh tokens. The two
// token kinds share a shape and are told apart only by the secret that
// signed them.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewClaims builds the subject part of a token. Issued-at, expiry and jti are
// stamped by Codec.Sign.
func NewClaims(subject, email, role string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Email:            email,
		Role:             role,
	}
}

// Identity is the authenticated principal recovered from a verified access
// token. It is recomputed on every request and never persisted.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Identity returns the principal described by the claims.
func (c Claims) Identity() Identity {
	return Identity{ID: c.Subject, Email: c.Email, Role: c.Role}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. It also
// guarantees two tokens signed in the same second never collide.
func NewJTI() string {
	jti, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return jti
}
