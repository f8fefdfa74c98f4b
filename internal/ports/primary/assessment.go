// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"io"
)

// AssessmentService defines the primary port for risk assessment documents.
// Every operation addresses the document stored at a path; mutating
// operations load it, apply the change and write it back.
type AssessmentService interface {
	// NewDocument creates an empty assessment, carrying forward the settings
	// of the last saved document.
	NewDocument(ctx context.Context, req NewDocumentRequest) (*NewDocumentResponse, error)

	// OpenDocument loads an assessment file, repairing what it can.
	OpenDocument(ctx context.Context, req OpenDocumentRequest) (*OpenDocumentResponse, error)

	// GetAssessment retrieves a full view of the document at path.
	GetAssessment(ctx context.Context, path string) (*Assessment, error)

	// RenameDocument changes the document title.
	RenameDocument(ctx context.Context, req RenameDocumentRequest) error

	// UpdateThresholds changes the given scoring thresholds and keeps the others.
	UpdateThresholds(ctx context.Context, req UpdateThresholdsRequest) (*UpdateThresholdsResponse, error)

	// PlaceHazard creates a marker and its linked risk row.
	PlaceHazard(ctx context.Context, req PlaceHazardRequest) (*PlaceHazardResponse, error)

	// MoveMarker re-anchors an on-image marker.
	MoveMarker(ctx context.Context, req MoveMarkerRequest) (*MutationResponse, error)

	// DeleteMarker removes a marker and, optionally, its linked rows.
	DeleteMarker(ctx context.Context, req DeleteMarkerRequest) (*DeleteMarkerResponse, error)

	// LinkedRows lists the rows still pointing at a marker.
	LinkedRows(ctx context.Context, path, markerID string) ([]*Row, error)

	// UpdateRow merges user edits into a risk row.
	UpdateRow(ctx context.Context, req UpdateRowRequest) (*MutationResponse, error)

	// DeleteRow removes a risk row without touching markers.
	DeleteRow(ctx context.Context, req DeleteRowRequest) (*MutationResponse, error)

	// ImportImage ingests a machine image from a file or a URL.
	ImportImage(ctx context.Context, req ImportImageRequest) (*ImportImageResponse, error)

	// ExportTabular writes the risk rows as delimited text.
	ExportTabular(ctx context.Context, req ExportTabularRequest) (*ExportTabularResponse, error)

	// Summarize aggregates the risk rows of a document.
	Summarize(ctx context.Context, path string) (*Summary, error)
}

// NewDocumentRequest contains parameters for creating a document.
type NewDocumentRequest struct {
	Path  string
	Title string
	Force bool // overwrite an existing file
}

// NewDocumentResponse contains the result of creating a document.
type NewDocumentResponse struct {
	Path       string
	Assessment *Assessment
}

// OpenDocumentRequest contains parameters for opening a document.
// Only the first path is used.
type OpenDocumentRequest struct {
	Paths []string
}

// OpenDocumentResponse contains the result of opening a document.
type OpenDocumentResponse struct {
	Path       string
	Assessment *Assessment
	Repairs    []string
}

// RenameDocumentRequest contains parameters for renaming a document.
type RenameDocumentRequest struct {
	Path  string
	Title string
}

// UpdateThresholdsRequest contains parameters for changing thresholds.
// Nil fields keep the document's current value.
type UpdateThresholdsRequest struct {
	Path   string
	Low    *float64
	Medium *float64
	High   *float64
}

// UpdateThresholdsResponse contains the thresholds now in effect.
type UpdateThresholdsResponse struct {
	Low    float64
	Medium float64
	High   float64
}

// PlaceHazardRequest contains parameters for placing a hazard.
// With neither X nor Y set the hazard is placed off the image.
type PlaceHazardRequest struct {
	Path       string
	HazardType string
	X          *float64
	Y          *float64
	Pointer    bool // X/Y are display pixels rather than relative coordinates
}

// PlaceHazardResponse contains the result of placing a hazard.
// Placed is false when a pointer could not be mapped onto the image.
type PlaceHazardResponse struct {
	Placed   bool
	MarkerID string
	RowID    string
}

// MoveMarkerRequest contains parameters for moving a marker.
type MoveMarkerRequest struct {
	Path     string
	MarkerID string
	X        float64
	Y        float64
}

// MutationResponse reports whether an id-addressed operation changed anything.
type MutationResponse struct {
	Changed bool
}

// DeleteMarkerRequest contains parameters for deleting a marker.
type DeleteMarkerRequest struct {
	Path     string
	MarkerID string
	Cascade  bool
}

// DeleteMarkerResponse contains the result of deleting a marker.
type DeleteMarkerResponse struct {
	Changed     bool
	RowsDeleted int
}

// UpdateRowRequest contains parameters for editing a row. Nil fields are
// left unchanged.
type UpdateRowRequest struct {
	Path              string
	RowID             string
	HazardType        *string
	Scenario          *string
	SeverityBefore    *string
	ProbabilityBefore *string
	Measures          *string
	SeverityAfter     *string
	ProbabilityAfter  *string
	Comments          *string
}

// DeleteRowRequest contains parameters for deleting a row.
type DeleteRowRequest struct {
	Path  string
	RowID string
}

// ImportImageRequest contains parameters for ingesting an image.
// Exactly one of File or URL must be set.
type ImportImageRequest struct {
	Path string
	File string
	URL  string
}

// ImportImageResponse contains the result of ingesting an image.
type ImportImageResponse struct {
	Format        string
	NaturalWidth  int
	NaturalHeight int
	DisplayWidth  float64
	DisplayHeight int
}

// ExportTabularRequest contains parameters for a tabular export.
type ExportTabularRequest struct {
	Path string
	Out  io.Writer
}

// ExportTabularResponse contains the result of a tabular export.
type ExportTabularResponse struct {
	Rows int
}

// Assessment represents a document at the port boundary.
type Assessment struct {
	Path          string
	Title         string
	CreatedAt     string
	SchemaVersion int
	Mode          string
	Scale         int
	Low           float64
	Medium        float64
	High          float64
	HasImage      bool
	NaturalWidth  int
	NaturalHeight int
	DisplayWidth  float64
	DisplayHeight int
	Markers       []*Marker
	Rows          []*Row
}

// Marker represents a hazard marker at the port boundary.
type Marker struct {
	ID         string
	HazardType string
	OnImage    bool
	X          float64
	Y          float64
	LinkedRows int
}

// Row represents an evaluated risk row at the port boundary.
type Row struct {
	ID                string
	MarkerID          string
	Linked            bool
	HazardType        string
	Scenario          string
	SeverityBefore    string
	ProbabilityBefore string
	RiskBefore        string
	BandBefore        string
	Measures          string
	SeverityAfter     string
	ProbabilityAfter  string
	RiskAfter         string
	BandAfter         string
	Comments          string
}

// Summary aggregates the rows of a document.
type Summary struct {
	Title        string
	Markers      int
	SideMarkers  int
	Rows         int
	UnlinkedRows int
	Before       RiskStats
	After        RiskStats
}

// RiskStats describes one column of risk values.
type RiskStats struct {
	Computable int
	Mean       float64
	Max        float64
	Bands      map[string]int // band name -> row count
}
