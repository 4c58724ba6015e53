package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the database and applies pending migrations.
// PRE: driver is "sqlite" or "postgres"; dsn is non-empty
// POST: Returns a migrated connection or an error
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}
	if err := MigrateDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{1, "member directory", []string{
		`CREATE TABLE IF NOT EXISTS member (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			surname TEXT NOT NULL DEFAULT '',
			gender TEXT,
			date_of_birth TEXT,
			blood_group TEXT,
			marital_status TEXT,
			mobile TEXT,
			mobile2 TEXT,
			email TEXT,
			landline TEXT,
			residential_address TEXT,
			office_address TEXT,
			city TEXT,
			occupation TEXT,
			education TEXT,
			family_no TEXT,
			relationship TEXT,
			profile_picture TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_member_surname ON member(surname, id)`,
		`CREATE INDEX IF NOT EXISTS idx_member_family ON member(family_no)`,
		`CREATE INDEX IF NOT EXISTS idx_member_email ON member(email)`,
	}},
	{2, "listings", []string{
		`CREATE TABLE IF NOT EXISTS business (
			id TEXT PRIMARY KEY,
			owner_member_id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			cover_image TEXT,
			images TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS event (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			venue TEXT NOT NULL DEFAULT '',
			starts_at TEXT NOT NULL,
			ends_at TEXT,
			organizer TEXT NOT NULL DEFAULT '',
			contact_phone TEXT NOT NULL DEFAULT '',
			image TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS donation (
			id TEXT PRIMARY KEY,
			donor_name TEXT NOT NULL,
			member_id TEXT,
			purpose TEXT NOT NULL,
			amount_cents BIGINT NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			image TEXT,
			created_at TEXT NOT NULL
		)`,
	}},
	{3, "news and doctors", []string{
		`CREATE TABLE IF NOT EXISTS news_article (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			published_at TEXT NOT NULL,
			images TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS doctor (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			specialty TEXT NOT NULL,
			qualification TEXT NOT NULL DEFAULT '',
			hospital TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			image TEXT,
			member_id TEXT
		)`,
	}},
	{4, "hostel applications", []string{
		`CREATE TABLE IF NOT EXISTS hostel_application (
			id TEXT PRIMARY KEY,
			applicant_name TEXT NOT NULL,
			member_id TEXT,
			guardian_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			institution TEXT NOT NULL,
			course TEXT NOT NULL DEFAULT '',
			documents TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		)`,
	}},
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the currently applied schema version, 0 for a fresh database.
// PRE: schema_version table exists
func SchemaVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var v sql.NullInt64
	if err := db.GetContext(ctx, &v, "SELECT MAX(version) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies pending migrations in order, one transaction per version.
// PRE: db is a valid connection
// POST: SchemaVersion == LatestSchemaVersion, or an error naming the failed version
// INVARIANT: re-running on a migrated database is a no-op
func MigrateDB(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO schema_version (version, name) VALUES (?, ?)"), m.version, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
