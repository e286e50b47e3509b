package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, role, branch, display_name, phone_number,
	refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

type usersRepo struct {
	q querier
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, role, branch, display_name, phone_number,
			refresh_token_hash, refresh_token_expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Branch,
		u.DisplayName,
		u.PhoneNumber,
		u.RefreshTokenHash,
		u.RefreshTokenExpiresAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return expectOne(tag, err, store.ErrNotFound)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newHash, userID,
	)
	return expectOne(tag, err, store.ErrNotFound)
}

func (r *usersRepo) SetRefreshTokenHash(
	ctx context.Context,
	userID string,
	hash string,
	expiresAt time.Time,
) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = now()
		WHERE id = $3`,
		hash, expiresAt, userID,
	)
	return expectOne(tag, err, store.ErrNotFound)
}

func (r *usersRepo) RotateRefreshTokenHash(
	ctx context.Context,
	userID, prevHash, newHash string,
	expiresAt time.Time,
) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = now()
		WHERE id = $3 AND refresh_token_hash = $4`,
		newHash, expiresAt, userID, prevHash,
	)
	return expectOne(tag, err, store.ErrConflict)
}

func (r *usersRepo) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND refresh_token_hash IS NOT NULL`,
		userID,
	)
	return err
}

func (r *usersRepo) ClearExpiredRefreshTokenHashes(ctx context.Context, at time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL
		WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at < $1`,
		at,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Branch,
		&u.DisplayName,
		&u.PhoneNumber,
		&u.RefreshTokenHash,
		&u.RefreshTokenExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
