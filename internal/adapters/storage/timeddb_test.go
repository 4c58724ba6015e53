package storage

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"directory/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// TestTimedDB_RecordsEachCall verifies every wrapped call is recorded.
func TestTimedDB_RecordsEachCall(t *testing.T) {
	ctx := context.Background()
	collector := perf.NewCollector()
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}

	var val string
	if err := sqlx.GetContext(ctx, tdb, &val, "SELECT val FROM test WHERE id = ?", "1"); err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}

	var vals []string
	if err := sqlx.SelectContext(ctx, tdb, &vals, "SELECT val FROM test"); err != nil {
		t.Fatalf("SelectContext: %v", err)
	}
	if len(vals) != 1 {
		t.Errorf("rows = %d, want 1", len(vals))
	}

	// exec + get (QueryRowx) + select (Queryx)
	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies the wrapper works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 1)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "x"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if tdb.threshold != 1 {
		t.Errorf("threshold = %v, want 1", tdb.threshold)
	}
}

// TestTimedDB_RebindPassesThrough verifies sqlite keeps '?' placeholders.
func TestTimedDB_RebindPassesThrough(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 0)
	q := "SELECT * FROM test WHERE id = ? AND val = ?"
	if got := tdb.Rebind(q); got != q {
		t.Errorf("Rebind = %q, want unchanged", got)
	}
	if tdb.DriverName() != DriverSQLite {
		t.Errorf("DriverName = %q", tdb.DriverName())
	}
	if tdb.threshold != DefaultSlowQueryMs {
		t.Errorf("threshold = %v, want default", tdb.threshold)
	}
}

// TestTimedDB_Ping verifies PingContext on a live connection.
func TestTimedDB_Ping(t *testing.T) {
	tdb := NewTimedDB(openTimedTestDB(t), nil, 0)
	if err := tdb.PingContext(context.Background()); err != nil {
		t.Errorf("PingContext: %v", err)
	}
}
