package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is wrapped by every verification failure. The more specific
// errors below are wrapped alongside it for logging.
var ErrInvalidToken = errors.New("jwtx: invalid token")

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// VerifyFunc turns a raw bearer token into an Identity.
type VerifyFunc func(token string) (Identity, error)

// VerifyAccessToken checks signature and expiry of an access token and
// returns the identity it carries.
func VerifyAccessToken(token string, secret []byte) (Identity, error) {
	claims, err := verify(token, secret, time.Now)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// Verifier returns VerifyAccessToken bound to secret.
func Verifier(secret []byte) VerifyFunc {
	return func(token string) (Identity, error) {
		return VerifyAccessToken(token, secret)
	}
}

func verify(token string, secret []byte, now func() time.Time) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(now),
	)

	var claims Claims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, classify(err))
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrInvalidClaim)
	}

	return claims, nil
}

// classify maps golang-jwt errors onto the package's own error values.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	default:
		return ErrInvalidClaim
	}
}
