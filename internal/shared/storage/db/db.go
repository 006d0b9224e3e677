package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"storefront-backend/internal/shared/telemetry"
)

// DefaultApplicationName tags connections in pg_stat_activity.
const DefaultApplicationName = "storefront-backend"

// Options sizes the pool shared by the event recorder and health checks.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	ApplicationName string
}

var openDB = sql.Open

// DefaultServerOptions suits the API and the event worker.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     5 * time.Second,
		ApplicationName: DefaultApplicationName,
	}
}

// DefaultMigrateOptions uses a single connection; goose runs serially.
func DefaultMigrateOptions() Options {
	opts := DefaultServerOptions()
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	opts.ApplicationName = DefaultApplicationName + "-migrate"
	return opts
}

// OptionsFromEnv applies DB_* overrides on top of defaults. Invalid values are
// logged and ignored.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	envOverride("DB_MAX_OPEN_CONNS", strconv.Atoi, &opts.MaxOpenConns)
	envOverride("DB_MAX_IDLE_CONNS", strconv.Atoi, &opts.MaxIdleConns)
	envOverride("DB_CONN_MAX_LIFETIME", time.ParseDuration, &opts.ConnMaxLifetime)
	envOverride("DB_CONN_MAX_IDLE_TIME", time.ParseDuration, &opts.ConnMaxIdleTime)
	envOverride("DB_PING_TIMEOUT", time.ParseDuration, &opts.PingTimeout)
	envOverride("DB_APPLICATION_NAME", func(s string) (string, error) { return s, nil }, &opts.ApplicationName)
	return opts
}

// Connect opens a pgx-backed pool and pings it. Callers share the returned handle.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", withApplicationName(databaseURL, opts.ApplicationName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := db.Stats()
	telemetry.Info("db.connected", map[string]any{
		"application_name": opts.ApplicationName,
		"max_open":         stats.MaxOpenConnections,
		"open":             stats.OpenConnections,
		"idle":             stats.Idle,
	})
	return db, nil
}

func applyOptions(db *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

// withApplicationName adds application_name to a URL or keyword/value DSN
// unless the caller already set one. Unrecognised DSNs pass through.
func withApplicationName(dsn, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(dsn, "application_name") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("application_name", name)
		u.RawQuery = q.Encode()
		return u.String()
	}
	if strings.Contains(dsn, "=") {
		return dsn + " application_name=" + name
	}
	return dsn
}

func envOverride[T any](key string, parse func(string) (T, error), dst *T) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	val, err := parse(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return
	}
	*dst = val
}
