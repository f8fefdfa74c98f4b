// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/riskmap/internal/ports/secondary"
)

// HazardRepository implements secondary.HazardRepository with SQLite.
type HazardRepository struct {
	db *sql.DB
}

// NewHazardRepository creates a new SQLite hazard repository.
func NewHazardRepository(db *sql.DB) *HazardRepository {
	return &HazardRepository{db: db}
}

// Create persists a new hazard name and fills in its ID.
func (r *HazardRepository) Create(ctx context.Context, hazard *secondary.HazardRecord) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO hazards (name) VALUES (?)",
		hazard.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to create hazard: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read hazard id: %w", err)
	}
	hazard.ID = id

	return nil
}

// GetByName retrieves a hazard by its exact name.
func (r *HazardRepository) GetByName(ctx context.Context, name string) (*secondary.HazardRecord, error) {
	var createdAt time.Time

	record := &secondary.HazardRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM hazards WHERE name = ?",
		name,
	).Scan(&record.ID, &record.Name, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hazard '%s' not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hazard: %w", err)
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves all hazards in insertion order.
func (r *HazardRepository) List(ctx context.Context) ([]*secondary.HazardRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM hazards ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list hazards: %w", err)
	}
	defer rows.Close()

	var hazards []*secondary.HazardRecord
	for rows.Next() {
		var createdAt time.Time

		record := &secondary.HazardRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan hazard: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)

		hazards = append(hazards, record)
	}

	return hazards, rows.Err()
}

// Count returns the number of hazards in the library.
func (r *HazardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hazards").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count hazards: %w", err)
	}
	return n, nil
}

// Ensure HazardRepository implements the interface.
var _ secondary.HazardRepository = (*HazardRepository)(nil)
