// Package postgres implements store.Store on top of a pgx/v5 connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// poolIface is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type poolIface interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type Store struct {
	pool poolIface
	dsn  string
}

// ConnectConfig bounds how long Connect keeps retrying an unreachable server.
type ConnectConfig struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// DefaultConnectConfig retries for roughly half a minute.
var DefaultConnectConfig = ConnectConfig{MaxRetries: 6, BaseDelay: 500 * time.Millisecond}

// Connect opens a pool and waits for the server to answer a ping, backing off
// exponentially between attempts.
func Connect(ctx context.Context, dsn string, cfg ConnectConfig) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}

	backoff := retry.WithMaxRetries(cfg.MaxRetries, retry.NewExponential(cfg.BaseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Store{pool: pool, dsn: dsn}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool poolIface, dsn string) *Store {
	return &Store{pool: pool, dsn: dsn}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // returns ErrTxClosed after commit
	}()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) Users() store.Users { return &usersRepo{q: s.pool} }

type txStore struct {
	tx pgx.Tx
}

func (t *txStore) Users() store.Users { return &usersRepo{q: t.tx} }

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// expectOne converts a zero-row command into zero.
func expectOne(tag pgconn.CommandTag, err error, zero error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return zero
	}
	return nil
}
