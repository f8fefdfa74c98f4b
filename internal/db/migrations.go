package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations lists all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_hazards",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "create_settings",
		Up:      migrationV2,
	},
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := migration.Up(db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the hazard library table
func migrationV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS hazards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// migrationV2 adds the carried-forward settings row
func migrationV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			mode TEXT NOT NULL CHECK(mode IN ('SP', 'EOA')) DEFAULT 'SP',
			scale INTEGER NOT NULL DEFAULT 5,
			threshold_low REAL NOT NULL DEFAULT 5,
			threshold_medium REAL NOT NULL DEFAULT 12,
			threshold_high REAL NOT NULL DEFAULT 25,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}
