package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/riskmap/internal/ports/secondary"
)

// SettingsRepository implements secondary.SettingsRepository with SQLite.
// Settings live in a single row with id 1.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the saved settings, or nil if none were saved yet.
func (r *SettingsRepository) Load(ctx context.Context) (*secondary.SettingsRecord, error) {
	var updatedAt time.Time

	record := &secondary.SettingsRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT mode, scale, threshold_low, threshold_medium, threshold_high, updated_at FROM settings WHERE id = 1",
	).Scan(&record.Mode, &record.Scale, &record.Low, &record.Medium, &record.High, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Save replaces the saved settings.
func (r *SettingsRepository) Save(ctx context.Context, settings *secondary.SettingsRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, mode, scale, threshold_low, threshold_medium, threshold_high, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			scale = excluded.scale,
			threshold_low = excluded.threshold_low,
			threshold_medium = excluded.threshold_medium,
			threshold_high = excluded.threshold_high,
			updated_at = excluded.updated_at`,
		settings.Mode, settings.Scale, settings.Low, settings.Medium, settings.High,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Ensure SettingsRepository implements the interface.
var _ secondary.SettingsRepository = (*SettingsRepository)(nil)
