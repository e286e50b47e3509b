package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies HS256 tokens with one secret and one lifetime.
// Access and refresh tokens each get their own Codec so that a token of one
// kind never verifies as the other.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source used for iat/exp and for verification.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a Codec. Both secret and ttl are required.
func NewCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("jwtx: ttl must be positive")
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL is the lifetime stamped into every token this codec signs.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Sign stamps iat, exp and jti onto claims and returns the compact token.
func (c *Codec) Sign(claims Claims) (string, error) {
	token, _, err := c.SignExpiring(claims)
	return token, err
}

// SignExpiring is Sign that also reports the exp it stamped.
func (c *Codec) SignExpiring(claims Claims) (string, time.Time, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	claims.ID = NewJTI()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// Verify checks the signature and expiry of token. Every failure wraps
// ErrInvalidToken.
func (c *Codec) Verify(token string) (Claims, error) {
	return verify(token, c.secret, c.now)
}
