package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, email, password_hash, role, branch, display_name, phone_number,
	refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, password_hash, role, branch, display_name, phone_number,
			refresh_token_hash, refresh_token_expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Branch,
		mapOptionalString(u.DisplayName),
		mapOptionalString(u.PhoneNumber),
		mapOptionalString(u.RefreshTokenHash),
		mapOptionalTime(u.RefreshTokenExpiresAt),
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, now(), userID,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) SetRefreshTokenHash(
	ctx context.Context,
	userID string,
	hash string,
	expiresAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		hash, expiresAt.UTC(), now(), userID,
	)
	return expectOne(res, err, store.ErrNotFound)
}

func (r *usersRepo) RotateRefreshTokenHash(
	ctx context.Context,
	userID, prevHash, newHash string,
	expiresAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ?
		WHERE id = ? AND refresh_token_hash = ?`,
		newHash, expiresAt.UTC(), now(), userID, prevHash,
	)
	return expectOne(res, err, store.ErrConflict)
}

func (r *usersRepo) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = ?
		WHERE id = ? AND refresh_token_hash IS NOT NULL`,
		now(), userID,
	)
	return err
}

func (r *usersRepo) ClearExpiredRefreshTokenHashes(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL
		WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at < ?`,
		at.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                                     domain.User
		displayName, phoneNumber, refreshHash sql.NullString
		refreshExpiresAt                      sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Branch,
		&displayName,
		&phoneNumber,
		&refreshHash,
		&refreshExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.DisplayName = mapNullStringPtr(displayName)
	u.PhoneNumber = mapNullStringPtr(phoneNumber)
	u.RefreshTokenHash = mapNullStringPtr(refreshHash)
	u.RefreshTokenExpiresAt = mapNullTimePtr(refreshExpiresAt)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func now() time.Time { return time.Now().UTC() }
