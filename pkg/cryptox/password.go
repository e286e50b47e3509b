package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrMismatch is returned when a secret does not match the stored digest.
	ErrMismatch = errors.New("cryptox: secret does not match")

	// ErrMalformedHash is returned when a digest is not a valid argon2id PHC string.
	ErrMalformedHash = errors.New("cryptox: malformed hash")
)

// Params are the Argon2id cost parameters baked into every digest. They are
// encoded in the PHC string so digests created with older parameters still
// verify after the defaults change.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultParams follow the OWASP minimum for argon2id (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Hasher is a one-way, salted hash for secrets that must never be stored
// recoverably (passwords and refresh tokens).
type Hasher interface {
	// Hash returns a salted digest. Two calls with the same input return
	// different digests.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches digest. Malformed digests
	// simply fail verification.
	Verify(digest, secret string) bool
}

// Argon2Hasher implements Hasher with Argon2id and an optional pepper.
type Argon2Hasher struct {
	Params Params
	Pepper string
}

// NewArgon2Hasher returns a hasher using DefaultParams.
func NewArgon2Hasher(pepper string) *Argon2Hasher {
	return &Argon2Hasher{Params: DefaultParams, Pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *Argon2Hasher) Hash(secret string) (string, error) {
	p := h.params()

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret+h.Pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify implements Hasher.
func (h *Argon2Hasher) Verify(digest, secret string) bool {
	return h.Compare(secret, digest) == nil
}

// Compare checks secret against a PHC-style Argon2id hash and reports why it
// failed: ErrMalformedHash for structural problems, ErrMismatch otherwise.
func (h *Argon2Hasher) Compare(secret, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return fmt.Errorf("%w: expected 6 parts", ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrMalformedHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return fmt.Errorf("%w: wrong version", ErrMalformedHash)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}
	if mem == 0 || iters == 0 || par == 0 {
		return fmt.Errorf("%w: zero parameter", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: hash", ErrMalformedHash)
	}

	computed := argon2.IDKey(
		[]byte(secret+h.Pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - bounded by the decoded digest
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrMismatch
}

func (h *Argon2Hasher) params() Params {
	if h.Params == (Params{}) {
		return DefaultParams
	}
	return h.Params
}
