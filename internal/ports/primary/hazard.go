package primary

import "context"

// HazardLibraryService defines the primary port for the hazard name library.
type HazardLibraryService interface {
	// AddHazard appends a name to the library.
	AddHazard(ctx context.Context, req AddHazardRequest) (*AddHazardResponse, error)

	// ListHazards lists the library in insertion order, seeding it on first use.
	ListHazards(ctx context.Context) ([]*Hazard, error)
}

// AddHazardRequest contains parameters for adding a hazard name.
type AddHazardRequest struct {
	Name string
}

// AddHazardResponse contains the result of adding a hazard name.
type AddHazardResponse struct {
	Name string // normalized
}

// Hazard represents a library entry at the port boundary.
type Hazard struct {
	Name      string
	CreatedAt string
}
