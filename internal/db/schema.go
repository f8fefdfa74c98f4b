package db

import "database/sql"

// SchemaSQL is the complete schema for fresh riskmap installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it via GetSchemaSQL() instead of declaring their own tables, so a
// column referenced by repository code but missing here fails immediately
// with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Hazard library (ordered by insertion, exact case-sensitive names)
CREATE TABLE IF NOT EXISTS hazards (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Scoring settings of the last saved document (single row)
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	mode TEXT NOT NULL CHECK(mode IN ('SP', 'EOA')) DEFAULT 'SP',
	scale INTEGER NOT NULL DEFAULT 5,
	threshold_low REAL NOT NULL DEFAULT 5,
	threshold_medium REAL NOT NULL DEFAULT 12,
	threshold_high REAL NOT NULL DEFAULT 25,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the schema on a fresh database and migrates an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Fresh install - create modern schema directly and mark every migration applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
