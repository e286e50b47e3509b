package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
	"github.com/aussiebroadwan/branchauth/internal/auth/service"
	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/aussiebroadwan/branchauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/branchauth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var testConfig = service.SessionConfig{
	AccessSecret:  []byte("access-secret-for-tests"),
	AccessTTL:     15 * time.Minute,
	RefreshSecret: []byte("refresh-secret-for-tests"),
	RefreshTTL:    7 * 24 * time.Hour,
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestHasher() cryptox.Hasher {
	return &cryptox.Argon2Hasher{
		Params: cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
	}
}

func newTestManager(t *testing.T, st store.Store) *service.SessionManager {
	t.Helper()
	m, err := service.NewSessionManager(st, newTestHasher(), testConfig)
	require.NoError(t, err)
	return m
}

func registerInput(email string) domain.RegisterInput {
	name := "Alice"
	return domain.RegisterInput{
		Branch:      "north",
		DisplayName: &name,
		Email:       email,
		Role:        "cashier",
		Password:    "longenough1",
	}
}

func mustRegister(t *testing.T, m *service.SessionManager, email string) domain.Session {
	t.Helper()
	sess, err := m.Register(context.Background(), registerInput(email))
	require.NoError(t, err)
	return sess
}

// faultyStore fails SetRefreshTokenHash inside transactions.
type faultyStore struct {
	*sqlite.Store
	err error
}

func (f faultyStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return f.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(faultyTx{Tx: tx, err: f.err})
	})
}

type faultyTx struct {
	store.Tx
	err error
}

func (t faultyTx) Users() store.Users { return faultyUsers{Users: t.Tx.Users(), err: t.err} }

type faultyUsers struct {
	store.Users
	err error
}

func (u faultyUsers) SetRefreshTokenHash(context.Context, string, string, time.Time) error {
	return u.err
}
