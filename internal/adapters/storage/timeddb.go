package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"directory/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// *sqlx.DB, *sqlx.Tx and *TimedDB satisfy this interface.
type SQLDB interface {
	sqlx.ExtContext
}

// Compile-time checks.
var (
	_ SQLDB = (*sqlx.DB)(nil)
	_ SQLDB = (*sqlx.Tx)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sqlx.DB to log slow queries and record timings to a collector.
type TimedDB struct {
	db        *sqlx.DB
	collector *perf.Collector
	threshold float64
}

// NewTimedDB wraps db with timing instrumentation.
// PRE: db is a valid database connection; slowMs <= 0 selects DefaultSlowQueryMs
// POST: Returns a TimedDB that logs slow queries and records to collector (which may be nil)
func NewTimedDB(db *sqlx.DB, collector *perf.Collector, slowMs int) *TimedDB {
	if slowMs <= 0 {
		slowMs = DefaultSlowQueryMs
	}
	return &TimedDB{db: db, collector: collector, threshold: float64(slowMs)}
}

// RawDB returns the underlying *sqlx.DB (needed for migrations and pool config).
func (t *TimedDB) RawDB() *sqlx.DB {
	return t.db
}

func (t *TimedDB) logQuery(op string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	switch {
	case err != nil && err != sql.ErrNoRows:
		slog.Warn("query_error", "op", op, "duration_ms", durationMs, "error", err)
	case durationMs >= t.threshold:
		slog.Warn("slow_query", "op", op, "duration_ms", durationMs)
	default:
		slog.Debug("query", "op", op, "duration_ms", durationMs)
	}

	t.collector.Record(perf.Entry{Kind: perf.KindQuery, Path: op, DurationMs: durationMs})
}

// DriverName returns the driver name of the wrapped connection.
func (t *TimedDB) DriverName() string { return t.db.DriverName() }

// Rebind converts '?' placeholders to the driver's bindvar style.
func (t *TimedDB) Rebind(query string) string { return t.db.Rebind(query) }

// BindNamed binds a named query for the wrapped driver.
func (t *TimedDB) BindNamed(query string, arg any) (string, []any, error) {
	return t.db.BindNamed(query, arg)
}

// ExecContext wraps sqlx.DB.ExecContext with timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing recorded
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("ExecContext", start, err)
	return result, err
}

// QueryContext wraps sqlx.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("QueryContext", start, err)
	return rows, err
}

// QueryxContext wraps sqlx.DB.QueryxContext with timing.
func (t *TimedDB) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryxContext(ctx, query, args...)
	t.logQuery("QueryxContext", start, err)
	return rows, err
}

// QueryRowxContext wraps sqlx.DB.QueryRowxContext with timing.
// Errors surface on Scan, so only latency is recorded here.
func (t *TimedDB) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	start := time.Now()
	row := t.db.QueryRowxContext(ctx, query, args...)
	t.logQuery("QueryRowxContext", start, nil)
	return row
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

// PingContext verifies the database connection.
// POST: returns nil if connection is alive
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
