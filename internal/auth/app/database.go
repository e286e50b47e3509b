package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/aussiebroadwan/branchauth/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/branchauth/internal/auth/store/drivers/sqlite"
)

// OpenStore connects the configured user directory driver and applies its
// migrations. The caller owns the returned store.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.DatabaseDriver {
	case DriverSQLite:
		st, err = sqlite.NewStore("file:" + cfg.DatabaseFile)
	case DriverPostgres:
		st, err = postgres.Connect(ctx, cfg.DatabaseURL, postgres.DefaultConnectConfig)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return st, nil
}
