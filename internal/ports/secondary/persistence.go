// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// HazardRepository defines the secondary port for the hazard name library.
type HazardRepository interface {
	// Create appends a hazard name. Duplicate names are rejected by the store.
	Create(ctx context.Context, hazard *HazardRecord) error

	// GetByName retrieves a hazard by exact name.
	GetByName(ctx context.Context, name string) (*HazardRecord, error)

	// List retrieves all hazards in insertion order.
	List(ctx context.Context) ([]*HazardRecord, error)

	// Count returns the number of hazards in the library.
	Count(ctx context.Context) (int, error)
}

// HazardRecord represents a hazard library entry as stored in persistence.
type HazardRecord struct {
	ID        int64
	Name      string
	CreatedAt string
}

// SettingsRepository defines the secondary port for settings carried from one
// session to the next.
type SettingsRepository interface {
	// Load returns the last saved settings, or nil if none were saved yet.
	Load(ctx context.Context) (*SettingsRecord, error)

	// Save replaces the saved settings.
	Save(ctx context.Context, settings *SettingsRecord) error
}

// SettingsRecord represents scoring settings as stored in persistence.
type SettingsRecord struct {
	Mode      string
	Scale     int
	Low       float64
	Medium    float64
	High      float64
	UpdatedAt string
}
