// Package db stores scoring reports in PostgreSQL or SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const pingTimeout = 5 * time.Second

// Store persists scoring reports.
type Store interface {
	SaveReport(ctx context.Context, r *Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*Report, error)
	ListReports(ctx context.Context, opts ListOptions) ([]Report, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
	Close() error
}

// dialect captures the differences between the supported databases.
type dialect struct {
	name       string
	sqlDriver  string
	goose      string
	dollarArgs bool
}

var dialects = map[string]dialect{
	DriverPostgres: {name: DriverPostgres, sqlDriver: "pgx", goose: "postgres", dollarArgs: true},
	DriverSQLite:   {name: DriverSQLite, sqlDriver: "sqlite", goose: "sqlite3"},
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if !d.dollarArgs {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

var _ Store = (*SQLStore)(nil)

// Open connects to the database, verifies connectivity and applies pending migrations.
// driver is DriverPostgres or DriverSQLite; for SQLite the dsn is a file path or ":memory:".
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("failed to open %s store: empty data source", driver)
	}

	conn, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	opts := PoolOptionsFromEnv(DefaultPoolOptions())
	if d.name == DriverSQLite {
		// SQLite serializes writers and an in-memory database lives in a single connection.
		opts.MaxOpenConns, opts.MaxIdleConns = 1, 1
	}
	opts.apply(conn)
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = pingTimeout
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", driver, err)
	}

	if err := Migrate(ctx, conn, driver); err != nil {
		_ = conn.Close()
		return nil, err
	}
	logPoolStats(conn, driver)
	return &SQLStore{db: conn, dialect: d}, nil
}

// NewSQLStore wraps an existing connection without migrating it.
func NewSQLStore(conn *sql.DB, driver string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	return &SQLStore{db: conn, dialect: d}, nil
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const reportColumns = `id, created_at, source_name, content_hash, mode, level, overall, match_band, trustworthy`

// SaveReport inserts r, or replaces the stored report with the same ID.
func (s *SQLStore) SaveReport(ctx context.Context, r *Report) error {
	if r == nil {
		return fmt.Errorf("failed to save report: nil report")
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	query := s.dialect.rebind(`INSERT INTO reports (` + reportColumns + `, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			source_name = excluded.source_name,
			content_hash = excluded.content_hash,
			mode = excluded.mode,
			level = excluded.level,
			overall = excluded.overall,
			match_band = excluded.match_band,
			trustworthy = excluded.trustworthy,
			result = excluded.result`)
	_, err := s.db.ExecContext(ctx, query,
		r.ID.String(), r.CreatedAt.UTC(), r.SourceName, r.ContentHash, string(r.Mode), string(r.Level),
		r.Overall, string(r.MatchBand), r.Trustworthy, string(r.Result),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport returns the report with the given ID, or a NotFoundError.
func (s *SQLStore) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := s.dialect.rebind(`SELECT ` + reportColumns + `, result FROM reports WHERE id = ?`)
	var (
		r      Report
		result string
	)
	err := s.db.QueryRowContext(ctx, query, id.String()).Scan(
		&r.ID, &r.CreatedAt, &r.SourceName, &r.ContentHash, &r.Mode, &r.Level,
		&r.Overall, &r.MatchBand, &r.Trustworthy, &result,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	r.Result = []byte(result)
	return &r, nil
}

// ListReports returns report summaries, newest first. Result bodies are not loaded.
func (s *SQLStore) ListReports(ctx context.Context, opts ListOptions) ([]Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	if opts.ContentHash != "" {
		query += ` WHERE content_hash = ?`
		args = append(args, opts.ContentHash)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, opts.limit(), opts.offset())

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	reports := []Report{}
	for rows.Next() {
		var r Report
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.SourceName, &r.ContentHash, &r.Mode, &r.Level,
			&r.Overall, &r.MatchBand, &r.Trustworthy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// DeleteReport removes the report with the given ID, or returns a NotFoundError.
func (s *SQLStore) DeleteReport(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM reports WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
