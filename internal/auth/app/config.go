package app

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/branchauth/pkg/jwtx"
)

// Development fallbacks for the signing secrets. A warning is logged at
// startup whenever one of them is in effect.
const (
	DefaultAccessSecret  = "change-this"
	DefaultRefreshSecret = "change-this-refresh"
)

// Supported values for Config.DatabaseDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AccessSecret  string        // JWT_ACCESS_SECRET, then JWT_SECRET (default: change-this)
	AccessTTL     time.Duration // JWT_ACCESS_EXPIRES_IN, then JWT_EXPIRES_IN (default: 15m)
	RefreshSecret string        // JWT_REFRESH_SECRET (default: change-this-refresh)
	RefreshTTL    time.Duration // JWT_REFRESH_EXPIRES_IN (default: 7d)

	DatabaseDriver       string        // sqlite or postgres (default: sqlite)
	DatabaseFile         string        // SQLite database file (default: ./auth.db)
	DatabaseURL          string        // Postgres connection string, required for the postgres driver
	PepperFile           string        // File holding the password pepper, created if missing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// Source records which environment variable each fallback chain resolved
	// to, or "default". It is only used for startup logging.
	Source map[string]string
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseDriver:       strings.ToLower(getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:          os.Getenv("AUTH_DATABASE_URL"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		Source:               make(map[string]string),
	}

	cfg.AccessSecret, cfg.Source["access_secret"] = firstEnv(DefaultAccessSecret, "JWT_ACCESS_SECRET", "JWT_SECRET")
	cfg.RefreshSecret, cfg.Source["refresh_secret"] = firstEnv(DefaultRefreshSecret, "JWT_REFRESH_SECRET")

	var raw string
	raw, cfg.Source["access_ttl"] = firstEnv("", "JWT_ACCESS_EXPIRES_IN", "JWT_EXPIRES_IN")
	cfg.AccessTTL = durationOrDefault(raw, jwtx.DefaultAccessTokenTTL)
	raw, cfg.Source["refresh_ttl"] = firstEnv("", "JWT_REFRESH_EXPIRES_IN")
	cfg.RefreshTTL = durationOrDefault(raw, jwtx.DefaultRefreshTokenTTL)

	return cfg
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		errs = append(errs, errors.New("token secrets must not be empty"))
	} else if c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}
	return errors.Join(errs...)
}

// DefaultSecrets names the signing secrets still set to their development
// fallback.
func (c Config) DefaultSecrets() []string {
	var names []string
	if c.AccessSecret == DefaultAccessSecret {
		names = append(names, "access")
	}
	if c.RefreshSecret == DefaultRefreshSecret {
		names = append(names, "refresh")
	}
	return names
}

// firstEnv returns the first non-empty variable among keys along with its
// name, or def and "default" when none is set.
func firstEnv(def string, keys ...string) (string, string) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, key
		}
	}
	return def, "default"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	return durationOrDefault(os.Getenv(key), defaultValue)
}

func durationOrDefault(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	if d, err := ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

// ParseDuration accepts Go durations ("15m", "1h30m"), whole days ("7d") and
// bare integers, which are read as seconds. Counts that do not fit in a
// time.Duration are rejected.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid day duration %q", value)
		}
		return scaleDuration(value, n, 24*time.Hour)
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return scaleDuration(value, seconds, time.Second)
	}

	return time.ParseDuration(value)
}

func scaleDuration(value string, n int64, unit time.Duration) (time.Duration, error) {
	limit := int64(math.MaxInt64 / unit)
	if n > limit || n < -limit {
		return 0, fmt.Errorf("duration %q out of range", value)
	}
	return time.Duration(n) * unit, nil
}
