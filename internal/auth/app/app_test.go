package app

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/branchauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	clearConfigEnv(t)

	dir := t.TempDir()
	cfg := LoadConfig()
	cfg.DatabaseFile = filepath.Join(dir, "auth.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.LogLevel = "error"

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })
	return application
}

func TestNew_WiresSQLiteStoreAndRoutes(t *testing.T) {
	application := newTestApp(t)

	_, err := os.Stat(application.cfg.PepperFile)
	require.NoError(t, err, "pepper file should be generated on first start")

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client := authsdk.NewSDKClient(srv.URL)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	_, err = client.Register(ctx, authsdk.RegisterRequest{
		Branch:   "north",
		Email:    "a@x.com",
		Role:     "cashier",
		Password: "longenough1",
	})
	require.NoError(t, err)

	session, err := client.AuthenticateWithPassword(ctx, "a@x.com", "longenough1")
	require.NoError(t, err)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", me.Email)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	clearConfigEnv(t)

	cfg := LoadConfig()
	cfg.DatabaseDriver = "mysql"
	cfg.LogLevel = "error"

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}
