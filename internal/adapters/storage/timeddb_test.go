package storage

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"sportsdesk/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T, collector *perf.Collector) *TimedDB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := MigrateDB(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewTimedDB(db, collector, time.Second)
}

// TestTimedDB_RecordsEachCall verifies every call lands in the collector.
func TestTimedDB_RecordsEachCall(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := openTimedTestDB(t, collector)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO kv_entry (key, value) VALUES (?, ?)", "user", []byte("ana")); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}

	rows, err := tdb.QueryContext(ctx, "SELECT key FROM kv_entry")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}

	var value []byte
	if err := tdb.QueryRowContext(ctx, "SELECT value FROM kv_entry WHERE key = ?", "user").Scan(&value); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if string(value) != "ana" {
		t.Errorf("value = %q, want ana", value)
	}

	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestQueries) != 2 {
		t.Errorf("expected 2 distinct query labels, got %+v", snap.SlowestQueries)
	}
}

// TestTimedDB_NilCollector verifies the wrapper works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	tdb := openTimedTestDB(t, nil)
	if _, err := tdb.ExecContext(context.Background(), "DELETE FROM kv_entry"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
}

// TestQueryLabel verifies statements are labelled by verb and table.
func TestQueryLabel(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT value FROM kv_entry WHERE key = ?", "SELECT kv_entry"},
		{"INSERT INTO kv_entry (key, value) VALUES (?, ?)", "INSERT kv_entry"},
		{"update kv_entry SET value = ?", "UPDATE kv_entry"},
		{"PRAGMA user_version", "PRAGMA"},
		{"   ", "empty"},
	}
	for _, tt := range tests {
		if got := queryLabel(tt.query); got != tt.want {
			t.Errorf("queryLabel(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
