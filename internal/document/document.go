// Package document defines the risk assessment document and the Store that
// owns it. All mutation goes through Store methods so that markers and risk
// rows stay linked.
package document

import (
	"time"

	"github.com/example/riskmap/internal/core/coords"
	"github.com/example/riskmap/internal/core/scoring"
)

// SchemaVersion is the only interchange version understood.
const SchemaVersion = 1

// DisplayHeight is the fixed rendered height of the machine image, in pixels.
const DisplayHeight = 650

// Document is the root aggregate of an assessment.
type Document struct {
	SchemaVersion int       `json:"schemaVersion"`
	Metadata      Metadata  `json:"metadata"`
	Settings      Settings  `json:"settings"`
	Image         Image     `json:"image"`
	Labels        []Marker  `json:"labels"`
	Rows          []RiskRow `json:"rows"`
}

// Metadata describes the document itself.
type Metadata struct {
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings carries the configurable parts of a document.
type Settings struct {
	Scoring scoring.Settings `json:"scoring"`
}

// DefaultSettings returns SP scoring on a 1-5 scale with 5/12/25 thresholds.
func DefaultSettings() Settings {
	return Settings{Scoring: scoring.DefaultSettings()}
}

// withDefaults replaces an unknown mode or a non-positive scale with the
// default. Thresholds are kept as given.
func (s Settings) withDefaults() Settings {
	def := scoring.DefaultSettings()
	switch s.Scoring.Mode {
	case scoring.ModeSP, scoring.ModeEOA:
	default:
		s.Scoring.Mode = def.Mode
	}
	if s.Scoring.Scale <= 0 {
		s.Scoring.Scale = def.Scale
	}
	return s
}

// Image references the machine picture the markers are placed on.
// DisplayWidth is derived from the natural size and is recomputed on load.
type Image struct {
	SourceData    string  `json:"sourceData,omitempty"` // data URL
	NaturalWidth  int     `json:"naturalWidth,omitempty"`
	NaturalHeight int     `json:"naturalHeight,omitempty"`
	DisplayHeight int     `json:"displayHeight"`
	DisplayWidth  float64 `json:"displayWidth,omitempty"`
}

// WithLayout fixes the display height and derives the display width from the
// natural size. A persisted display width is never trusted.
func (i Image) WithLayout() Image {
	i.DisplayHeight = DisplayHeight
	i.DisplayWidth = 0
	if i.NaturalWidth > 0 && i.NaturalHeight > 0 {
		i.DisplayWidth = float64(i.NaturalWidth) * DisplayHeight / float64(i.NaturalHeight)
	}
	return i
}

// HasSource reports whether image bytes have been ingested.
func (i Image) HasSource() bool {
	return i.SourceData != ""
}

// Marker is a hazard indicator. Markers without X/Y are side markers and are
// never drawn on the image.
type Marker struct {
	ID         string   `json:"id"`
	HazardType string   `json:"hazardType"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
}

// OnImage reports whether the marker is anchored on the image.
func (m Marker) OnImage() bool {
	return m.X != nil && m.Y != nil
}

// Coord returns the anchor of an on-image marker.
func (m Marker) Coord() (coords.Coord, bool) {
	if !m.OnImage() {
		return coords.Coord{}, false
	}
	return coords.Coord{X: *m.X, Y: *m.Y}, true
}

func (m Marker) clone() Marker {
	out := m
	if m.X != nil {
		x := *m.X
		out.X = &x
	}
	if m.Y != nil {
		y := *m.Y
		out.Y = &y
	}
	return out
}

// RiskRow is one line of the risk evaluation table.
// Risk values are not stored; see EvaluatedRow.
type RiskRow struct {
	ID                string        `json:"id"`
	MarkerID          string        `json:"markerId,omitempty"`
	HazardType        string        `json:"hazardType"`
	Scenario          string        `json:"scenario,omitempty"`
	SeverityBefore    scoring.Score `json:"severityBefore,omitempty"`
	ProbabilityBefore scoring.Score `json:"probabilityBefore,omitempty"`
	Measures          string        `json:"measures,omitempty"`
	SeverityAfter     scoring.Score `json:"severityAfter,omitempty"`
	ProbabilityAfter  scoring.Score `json:"probabilityAfter,omitempty"`
	Comments          string        `json:"comments,omitempty"`
}

// RowPatch holds the fields to merge into a row. Nil fields are left alone.
type RowPatch struct {
	HazardType        *string
	Scenario          *string
	SeverityBefore    *scoring.Score
	ProbabilityBefore *scoring.Score
	Measures          *string
	SeverityAfter     *scoring.Score
	ProbabilityAfter  *scoring.Score
	Comments          *string
}

// IsEmpty reports whether the patch would change nothing.
func (p RowPatch) IsEmpty() bool {
	return p == RowPatch{}
}

func (p RowPatch) applyTo(r *RiskRow) {
	if p.HazardType != nil {
		r.HazardType = *p.HazardType
	}
	if p.Scenario != nil {
		r.Scenario = *p.Scenario
	}
	if p.SeverityBefore != nil {
		r.SeverityBefore = *p.SeverityBefore
	}
	if p.ProbabilityBefore != nil {
		r.ProbabilityBefore = *p.ProbabilityBefore
	}
	if p.Measures != nil {
		r.Measures = *p.Measures
	}
	if p.SeverityAfter != nil {
		r.SeverityAfter = *p.SeverityAfter
	}
	if p.ProbabilityAfter != nil {
		r.ProbabilityAfter = *p.ProbabilityAfter
	}
	if p.Comments != nil {
		r.Comments = *p.Comments
	}
}

// EvaluatedRow is a row with its derived risk values, computed at read time.
type EvaluatedRow struct {
	RiskRow
	RiskBefore scoring.Risk
	RiskAfter  scoring.Risk
	BandBefore scoring.Band
	BandAfter  scoring.Band
	Linked     bool // MarkerID refers to a marker that still exists
}

// Evaluate derives risk values for a row.
func Evaluate(r RiskRow, t scoring.Thresholds) EvaluatedRow {
	before := scoring.ComputeRisk(r.SeverityBefore, r.ProbabilityBefore)
	after := scoring.ComputeRisk(r.SeverityAfter, r.ProbabilityAfter)
	return EvaluatedRow{
		RiskRow:    r,
		RiskBefore: before,
		RiskAfter:  after,
		BandBefore: scoring.Classify(before, t),
		BandAfter:  scoring.Classify(after, t),
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Labels = make([]Marker, len(d.Labels))
	for i, m := range d.Labels {
		out.Labels[i] = m.clone()
	}
	out.Rows = make([]RiskRow, len(d.Rows))
	copy(out.Rows, d.Rows)
	return out
}
