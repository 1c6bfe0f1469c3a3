package db

import (
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolOptions controls the connection pool of a PostgreSQL store. SQLite always uses a
// single connection.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// DefaultPoolOptions returns defaults for a long-running server.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 2 * time.Minute,
		PingTimeout:     pingTimeout,
	}
}

// PoolOptionsFromEnv overrides defaults with DB_* environment variables when present.
func PoolOptionsFromEnv(defaults PoolOptions) PoolOptions {
	opts := defaults
	if v, ok := envInt("DB_MAX_OPEN_CONNS"); ok {
		opts.MaxOpenConns = v
	}
	if v, ok := envInt("DB_MAX_IDLE_CONNS"); ok {
		opts.MaxIdleConns = v
	}
	if v, ok := envDuration("DB_CONN_MAX_LIFETIME"); ok {
		opts.ConnMaxLifetime = v
	}
	if v, ok := envDuration("DB_CONN_MAX_IDLE_TIME"); ok {
		opts.ConnMaxIdleTime = v
	}
	if v, ok := envDuration("DB_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

func (o PoolOptions) apply(conn *sql.DB) {
	if o.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns >= 0 {
		conn.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	if o.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(o.ConnMaxIdleTime)
	}
}

func logPoolStats(conn *sql.DB, driver string) {
	s := conn.Stats()
	slog.Debug("report store pool",
		"driver", driver,
		"max_open", s.MaxOpenConnections,
		"open", s.OpenConnections,
		"in_use", s.InUse,
		"idle", s.Idle)
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring invalid integer env var", "key", key, "value", raw)
		return 0, false
	}
	return v, true
}

func envDuration(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("ignoring invalid duration env var", "key", key, "value", raw)
		return 0, false
	}
	return v, true
}
