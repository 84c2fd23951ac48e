package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestMigrationsAreIdempotent verifies that running migrations multiple times doesn't cause errors
func TestMigrationsAreIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := RunEmbeddedMigrations(db); err != nil {
		t.Fatalf("First migration run failed: %v", err)
	}

	appliedFirst, err := GetAppliedMigrations(db)
	if err != nil {
		t.Fatalf("Failed to get applied migrations after first run: %v", err)
	}
	if len(appliedFirst) == 0 {
		t.Fatal("No migrations were applied on first run")
	}

	// Second and third runs must be no-ops
	for run := 2; run <= 3; run++ {
		if err := RunEmbeddedMigrations(db); err != nil {
			t.Fatalf("Migration run %d failed (not idempotent): %v", run, err)
		}

		applied, err := GetAppliedMigrations(db)
		if err != nil {
			t.Fatalf("Failed to get applied migrations after run %d: %v", run, err)
		}
		if len(applied) != len(appliedFirst) {
			t.Errorf("Migration count changed on run %d: first=%d, got=%d", run, len(appliedFirst), len(applied))
		}
		for i, v := range appliedFirst {
			if i >= len(applied) || v != applied[i] {
				t.Errorf("Applied migrations differ at index %d on run %d", i, run)
			}
		}
	}
}

// TestMigrationTrackingPreventsReapplication verifies that applied migrations are tracked exactly once
func TestMigrationTrackingPreventsReapplication(t *testing.T) {
	db := openTestDB(t)

	if err := RunEmbeddedMigrations(db); err != nil {
		t.Fatalf("Migration run failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to query schema_migrations table: %v", err)
	}
	if count == 0 {
		t.Fatal("No migration tracking entries found")
	}

	rows, err := db.Query("SELECT version, COUNT(*) FROM schema_migrations GROUP BY version HAVING COUNT(*) > 1")
	if err != nil {
		t.Fatalf("Failed to check for duplicate migration entries: %v", err)
	}
	defer rows.Close()

	var duplicates []int
	for rows.Next() {
		var version, dupeCount int
		if err := rows.Scan(&version, &dupeCount); err != nil {
			t.Fatalf("Failed to scan duplicate check: %v", err)
		}
		duplicates = append(duplicates, version)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Duplicate check iteration failed: %v", err)
	}

	if len(duplicates) > 0 {
		t.Errorf("Found duplicate migration entries for versions: %v", duplicates)
	}
}

// TestAllMigrationsApplyOnFreshDatabase verifies all migrations work on a new database
func TestAllMigrationsApplyOnFreshDatabase(t *testing.T) {
	db := openTestDB(t)

	expectedMigrations, err := GetMigrations()
	if err != nil {
		t.Fatalf("Failed to get migrations: %v", err)
	}
	if len(expectedMigrations) == 0 {
		t.Fatal("No migration files found")
	}

	if err := RunEmbeddedMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	appliedVersions, err := GetAppliedMigrations(db)
	if err != nil {
		t.Fatalf("Failed to get applied migrations: %v", err)
	}
	if len(appliedVersions) != len(expectedMigrations) {
		t.Errorf("Expected %d migrations to be applied, got %d", len(expectedMigrations), len(appliedVersions))
	}

	for i, migration := range expectedMigrations {
		if i >= len(appliedVersions) {
			t.Errorf("Migration %d (%s) was not applied", migration.Version, migration.Name)
			continue
		}
		if appliedVersions[i] != migration.Version {
			t.Errorf("Migration version mismatch at index %d: expected %d, got %d", i, migration.Version, appliedVersions[i])
		}
	}
}

// TestMigrationOrdering verifies migrations are numbered 1..N with no gaps
func TestMigrationOrdering(t *testing.T) {
	migrations, err := GetMigrations()
	if err != nil {
		t.Fatalf("Failed to get migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("No migrations found")
	}

	for i, migration := range migrations {
		expectedVersion := i + 1
		if migration.Version != expectedVersion {
			t.Errorf("Migration version gap detected: expected version %d, got %d (%s)",
				expectedVersion, migration.Version, migration.Name)
		}
	}
}

// TestVersionTableCreationIsIdempotent verifies the tracking table can be created multiple times
func TestVersionTableCreationIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := ensureVersionTable(db); err != nil {
			t.Fatalf("Failed to create tracking table on attempt %d: %v", i+1, err)
		}
	}

	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_migrations'
	`).Scan(&tableName)
	if err != nil {
		t.Fatalf("Tracking table not found: %v", err)
	}

	rows, err := db.Query("PRAGMA table_info(schema_migrations)")
	if err != nil {
		t.Fatalf("Failed to get table info: %v", err)
	}
	defer rows.Close()

	expectedColumns := map[string]bool{
		"version":    false,
		"name":       false,
		"applied_at": false,
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("Failed to scan table info: %v", err)
		}
		if _, expected := expectedColumns[name]; expected {
			expectedColumns[name] = true
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Table info iteration failed: %v", err)
	}

	for col, found := range expectedColumns {
		if !found {
			t.Errorf("Expected column '%s' not found in schema_migrations table", col)
		}
	}
}

// TestPartialMigrationState verifies that a database with some migrations applied picks up the rest
func TestPartialMigrationState(t *testing.T) {
	db := openTestDB(t)

	if err := ensureVersionTable(db); err != nil {
		t.Fatalf("Failed to create tracking table: %v", err)
	}

	allMigrations, err := GetMigrations()
	if err != nil {
		t.Fatalf("Failed to get migrations: %v", err)
	}
	if len(allMigrations) < 2 {
		t.Skip("Need at least 2 migrations for this test")
	}

	// Manually apply only the first migration
	first := allMigrations[0]
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(first.SQL); err != nil {
		_ = tx.Rollback()
		t.Fatalf("Failed to execute first migration: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", first.Version, first.Name); err != nil {
		_ = tx.Rollback()
		t.Fatalf("Failed to record first migration: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit first migration: %v", err)
	}

	applied, err := GetAppliedMigrations(db)
	if err != nil {
		t.Fatalf("Failed to get applied migrations: %v", err)
	}
	if len(applied) != 1 {
		t.Fatalf("Expected 1 applied migration, got %d", len(applied))
	}

	// Running the full set should apply only the remaining ones
	if err := RunEmbeddedMigrations(db); err != nil {
		t.Fatalf("Failed to run remaining migrations: %v", err)
	}

	appliedAfter, err := GetAppliedMigrations(db)
	if err != nil {
		t.Fatalf("Failed to get applied migrations after full run: %v", err)
	}
	if len(appliedAfter) != len(allMigrations) {
		t.Errorf("Expected %d migrations applied, got %d", len(allMigrations), len(appliedAfter))
	}
	if appliedAfter[0] != first.Version {
		t.Errorf("First migration version changed: expected %d, got %d", first.Version, appliedAfter[0])
	}
}

// TestGetAppliedMigrationsEmptyDatabase verifies behavior on a database with no migrations
func TestGetAppliedMigrationsEmptyDatabase(t *testing.T) {
	db := openTestDB(t)

	applied, err := GetAppliedMigrations(db)
	if err != nil {
		t.Fatalf("GetAppliedMigrations failed on empty database: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("Expected 0 applied migrations on empty database, got %d", len(applied))
	}
}

// TestVerifyAllMigrationsApplied verifies the verification function catches missing migrations
func TestVerifyAllMigrationsApplied(t *testing.T) {
	db := openTestDB(t)

	if err := RunEmbeddedMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if err := VerifyAllMigrationsApplied(db); err != nil {
		t.Errorf("VerifyAllMigrationsApplied() failed after running all migrations: %v", err)
	}

	// Drop one tracking record; verification must now fail
	if _, err := db.Exec("DELETE FROM schema_migrations WHERE version = 2"); err != nil {
		t.Fatalf("Failed to delete migration record: %v", err)
	}

	if err := VerifyAllMigrationsApplied(db); err == nil {
		t.Error("VerifyAllMigrationsApplied() should have failed with missing migration, but it passed")
	}
}

// TestSessionSchemaAfterMigrations verifies the session tables and columns exist
func TestSessionSchemaAfterMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := RunEmbeddedMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	expectedTables := []string{
		"schema_migrations", // migration tracking
		"sessions",          // 001_initial.sql
	}
	for _, tableName := range expectedTables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", tableName).Scan(&name)
		if err == sql.ErrNoRows {
			t.Errorf("Expected table '%s' does not exist", tableName)
		} else if err != nil {
			t.Fatalf("Failed to check for table '%s': %v", tableName, err)
		}
	}

	var indexName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_sessions_updated_at'").Scan(&indexName)
	if err == sql.ErrNoRows {
		t.Error("Expected index 'idx_sessions_updated_at' does not exist")
	} else if err != nil {
		t.Fatalf("Failed to check for sessions index: %v", err)
	}

	// Columns from 002_add_window_geometry.sql
	rows, err := db.Query("PRAGMA table_info(sessions)")
	if err != nil {
		t.Fatalf("Failed to get sessions table info: %v", err)
	}
	defer rows.Close()

	expectedColumns := map[string]bool{
		"id":             false,
		"created_at":     false,
		"updated_at":     false,
		"selected_index": false,
		"tab_count":      false,
		"tabs":           false,
		"window_x":       false,
		"window_y":       false,
		"window_width":   false,
		"window_height":  false,
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("Failed to scan sessions table info: %v", err)
		}
		if _, expected := expectedColumns[name]; expected {
			expectedColumns[name] = true
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Sessions table info iteration failed: %v", err)
	}

	for col, found := range expectedColumns {
		if !found {
			t.Errorf("Expected column '%s' not found in sessions table", col)
		}
	}
}
