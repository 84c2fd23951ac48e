// Package migrations embeds the SQL schema migrations and applies them
// to the session database. Files are named NNN_description.sql and run
// in ascending version order, each inside its own transaction.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.sql
var migrationFiles embed.FS

// Migration is one embedded schema change.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// GetMigrations returns all embedded migrations sorted by version.
func GetMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		// "002_add_window_geometry.sql" -> version 2, name "add_window_geometry"
		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) != 2 {
			log.Printf("Warning: skipping migration with unparseable filename: %s", entry.Name())
			continue
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil {
			log.Printf("Warning: skipping migration with non-numeric version: %s", entry.Name())
			continue
		}

		content, err := migrationFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// RunEmbeddedMigrations applies every migration that is not yet recorded
// in the schema_migrations table. Already-applied versions are skipped,
// so calling this on every startup is safe.
func RunEmbeddedMigrations(db *sql.DB) error {
	if err := ensureVersionTable(db); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	migrations, err := GetMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	appliedVersions, err := GetAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(appliedVersions))
	for _, v := range appliedVersions {
		applied[v] = true
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	return nil
}

// ensureVersionTable creates the tracking table used to record which
// migrations have run.
func ensureVersionTable(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := db.Exec(schema)
	return err
}

// applyMigration executes one migration and records it, both inside a
// single transaction so a failed migration leaves no partial schema.
func applyMigration(db *sql.DB, migration Migration) error {
	log.Printf("Applying migration %03d: %s", migration.Version, migration.Name)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Printf("failed to rollback migration transaction: %v", rollbackErr)
			}
		}
	}()

	if _, err = tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err = tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		migration.Version, migration.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	log.Printf("Successfully applied migration %03d: %s", migration.Version, migration.Name)
	return nil
}

// GetAppliedMigrations returns the recorded migration versions in
// ascending order. A database without the tracking table reports none.
func GetAppliedMigrations(db *sql.DB) ([]int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check for migration tracking table: %w", err)
	}
	if count == 0 {
		return []int{}, nil
	}

	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close migration query rows: %v", err)
		}
	}()

	var versions []int
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over migration rows: %w", err)
	}

	return versions, nil
}

// VerifyAllMigrationsApplied compares the embedded migration set against
// the recorded versions and fails if any are missing. Run after
// RunEmbeddedMigrations to catch a schema that drifted out from under us.
func VerifyAllMigrationsApplied(db *sql.DB) error {
	allMigrations, err := GetMigrations()
	if err != nil {
		return fmt.Errorf("failed to get embedded migrations: %w", err)
	}

	appliedVersions, err := GetAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	applied := make(map[int]bool, len(appliedVersions))
	for _, version := range appliedVersions {
		applied[version] = true
	}

	var missing []Migration
	for _, migration := range allMigrations {
		if !applied[migration.Version] {
			missing = append(missing, migration)
		}
	}

	if len(missing) > 0 {
		log.Printf("WARNING: %d migrations are not applied:", len(missing))
		for _, migration := range missing {
			log.Printf("  - Migration %03d: %s", migration.Version, migration.Name)
		}
		return fmt.Errorf("%d migrations are not applied", len(missing))
	}

	log.Printf("Migration verification: All %d migrations are applied", len(allMigrations))
	return nil
}
