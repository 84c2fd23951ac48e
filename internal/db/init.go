// Package db opens the SQLite session database and brings its schema up
// to date. SQLite is compiled in via WASM, so there is no cgo and no
// system dependency.
package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary

	"github.com/tabnest/tabnest/internal/migrations"
)

const dbDirPerm = 0o750

// InitDB opens (creating if necessary) the database at dbPath, applies
// pragmas and embedded migrations, and verifies the schema is complete.
// The returned handle is ready for use.
func InitDB(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pool limits must be set before the first query runs
	configurePool(database)

	if err := database.Ping(); err != nil {
		closeQuietly(database)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(database); err != nil {
		closeQuietly(database)
		return nil, err
	}

	if err := migrations.RunEmbeddedMigrations(database); err != nil {
		closeQuietly(database)
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	if err := migrations.VerifyAllMigrationsApplied(database); err != nil {
		closeQuietly(database)
		return nil, fmt.Errorf("migration verification failed: %w", err)
	}

	return database, nil
}

// applyPragmas tunes SQLite for a small, single-process database.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",   // survive crashes without blocking readers
		"PRAGMA synchronous = NORMAL", // safe in WAL mode
		"PRAGMA busy_timeout = 5000",  // wait 5 seconds on lock contention
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return nil
}

// configurePool limits the pool to a single connection. SQLite allows
// one writer at a time and the session store is the only client, so a
// second connection buys nothing but lock contention.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
}

// Close closes the database connection gracefully.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}
}
