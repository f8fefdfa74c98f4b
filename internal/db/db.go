// Package db opens the riskmap SQLite database and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// dbPath overrides the default location when set.
var dbPath string

// UsePath selects the database file used by the next GetDB call.
func UsePath(path string) {
	dbPath = path
}

// GetDB returns the database connection, initializing if needed
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	path, err := GetDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	db = conn
	return db, nil
}

// Open opens the database at path, creating its directory and schema.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return conn, nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// GetDBPath returns the path to the database file
func GetDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".riskmap", "riskmap.db"), nil
}
