package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports a compare-and-swap that lost: the row no longer held
	// the value the caller expected.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it as methods so a transaction can
// hand out the same repositories bound to itself.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx runs fn inside a read/write transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx exposes the repositories bound to a single transaction.
type Tx interface {
	Users() Users
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches the email exactly as stored.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the caller as a ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the user row.
	DeleteUser(ctx context.Context, userID string) error

	// UpdatePasswordHash replaces the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetRefreshTokenHash overwrites whatever refresh hash is stored.
	SetRefreshTokenHash(ctx context.Context, userID string, hash string, expiresAt time.Time) error

	// RotateRefreshTokenHash replaces prevHash with newHash only if prevHash
	// is still the stored value. Returns ErrConflict otherwise.
	RotateRefreshTokenHash(ctx context.Context, userID, prevHash, newHash string, expiresAt time.Time) error

	// ClearRefreshTokenHash drops the stored refresh hash. Clearing an absent
	// hash succeeds.
	ClearRefreshTokenHash(ctx context.Context, userID string) error

	// ClearExpiredRefreshTokenHashes drops refresh hashes whose token expired
	// before now and reports how many rows changed.
	ClearExpiredRefreshTokenHashes(ctx context.Context, now time.Time) (int64, error)
}
