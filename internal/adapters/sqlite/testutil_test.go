// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// Do not hardcode CREATE TABLE statements in test files; use setupTestDB().
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/riskmap/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}
