package storage

import (
	"context"
	"testing"

	_ "modernc.org/sqlite"
)

// TestMigrateDB_CreatesKVTable verifies the key/value table exists after migration.
func TestMigrateDB_CreatesKVTable(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := MigrateDB(context.Background(), db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entry'").Scan(&name)
	if err != nil {
		t.Fatalf("expected kv_entry table: %v", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("user_version = %d, want %d", version, LatestSchemaVersion())
	}
}

// TestMigrateDB_Idempotent verifies running migrations twice is harmless.
func TestMigrateDB_Idempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := MigrateDB(ctx, db); err != nil {
		t.Fatalf("first MigrateDB: %v", err)
	}
	if _, err := db.Exec("INSERT INTO kv_entry (key, value) VALUES ('k', 'v')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := MigrateDB(ctx, db); err != nil {
		t.Fatalf("second MigrateDB: %v", err)
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM kv_entry").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected existing rows to survive, got %d", count)
	}
}
