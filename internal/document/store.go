package document

import (
	"time"

	"github.com/example/riskmap/internal/core/coords"
	"github.com/example/riskmap/internal/core/hazard"
	"github.com/example/riskmap/internal/core/scoring"
)

// Store owns the document of an editing session. It is a single-writer
// object: callers serialize access (see package session).
//
// Operations addressed by id never fail on a miss; they report whether
// anything changed instead.
type Store struct {
	doc Document
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for metadata.createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store holding a fresh document with default settings.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.CreateDocument(nil)
	return s
}

// CreateDocument resets metadata, image, labels and rows. Settings are carried
// forward from previous when provided, else defaulted. A carried mode or scale
// that is unset falls back to the default.
func (s *Store) CreateDocument(previous *Settings) Document {
	settings := DefaultSettings()
	if previous != nil {
		settings = previous.withDefaults()
	}

	s.doc = Document{
		SchemaVersion: SchemaVersion,
		Metadata: Metadata{
			CreatedAt: s.now().UTC(),
		},
		Settings: settings,
		Image:    Image{DisplayHeight: DisplayHeight},
		Labels:   []Marker{},
		Rows:     []RiskRow{},
	}
	return s.doc.Clone()
}

// Load replaces the whole document. The display size is recomputed and
// marker coordinates are clamped; nothing else is validated.
func (s *Store) Load(doc Document) {
	next := doc.Clone()
	if next.SchemaVersion == 0 {
		next.SchemaVersion = SchemaVersion
	}
	for i := range next.Labels {
		next.Labels[i] = normalizeMarker(next.Labels[i])
	}
	next.Image = next.Image.WithLayout()
	s.doc = next
}

// Document returns a snapshot of the current document.
func (s *Store) Document() Document {
	return s.doc.Clone()
}

// Settings returns the current settings.
func (s *Store) Settings() Settings {
	return s.doc.Settings
}

// PlaceHazardOnImage appends a marker at the given (clamped) coordinate and a
// linked risk row with every optional field empty.
func (s *Store) PlaceHazardOnImage(hazardType string, at coords.Coord) (Marker, RiskRow) {
	at = coords.Clamp(at)
	return s.place(hazardType, &at)
}

// PlaceHazardOffImage appends a side marker and its linked risk row.
func (s *Store) PlaceHazardOffImage(hazardType string) (Marker, RiskRow) {
	return s.place(hazardType, nil)
}

// PlaceHazardAtPointer maps a pointer in display space onto the image and
// places the hazard there. Nothing is created if the layout is unknown.
func (s *Store) PlaceHazardAtPointer(hazardType string, p coords.Point) (Marker, RiskRow, error) {
	box, err := s.ImageBox()
	if err != nil {
		return Marker{}, RiskRow{}, err
	}
	at, err := coords.ToRelative(p, box)
	if err != nil {
		return Marker{}, RiskRow{}, err
	}
	m, r := s.place(hazardType, &at)
	return m, r, nil
}

func (s *Store) place(hazardType string, at *coords.Coord) (Marker, RiskRow) {
	marker := Marker{
		ID:         hazard.NextID(hazard.MarkerPrefix, s.markerIDs()),
		HazardType: hazardType,
	}
	if at != nil {
		x, y := at.X, at.Y
		marker.X, marker.Y = &x, &y
	}
	row := RiskRow{
		ID:         hazard.NextID(hazard.RowPrefix, s.rowIDs()),
		MarkerID:   marker.ID,
		HazardType: hazardType,
	}

	s.doc.Labels = append(s.doc.Labels, marker)
	s.doc.Rows = append(s.doc.Rows, row)
	return marker.clone(), row
}

// MoveMarker re-anchors a marker. Unknown ids are ignored: a drag may race
// with a deletion.
func (s *Store) MoveMarker(markerID string, at coords.Coord) bool {
	i := s.markerIndex(markerID)
	if i < 0 {
		return false
	}
	at = coords.Clamp(at)
	x, y := at.X, at.Y
	s.doc.Labels[i].X, s.doc.Labels[i].Y = &x, &y
	return true
}

// DeleteMarker removes a marker. With cascadeRows every row referencing it is
// removed too; otherwise those rows stay and read as unlinked.
// Returns the number of rows removed and whether the marker existed.
func (s *Store) DeleteMarker(markerID string, cascadeRows bool) (int, bool) {
	i := s.markerIndex(markerID)
	if i < 0 {
		return 0, false
	}

	labels := make([]Marker, 0, len(s.doc.Labels)-1)
	labels = append(labels, s.doc.Labels[:i]...)
	labels = append(labels, s.doc.Labels[i+1:]...)

	removed := 0
	rows := s.doc.Rows
	if cascadeRows {
		rows = make([]RiskRow, 0, len(s.doc.Rows))
		for _, r := range s.doc.Rows {
			if r.MarkerID == markerID {
				removed++
				continue
			}
			rows = append(rows, r)
		}
	}

	s.doc.Labels = labels
	s.doc.Rows = rows
	return removed, true
}

// UpdateRow merges patch into the row. Values are not validated here; the
// scoring engine treats anything unusable as not computable.
func (s *Store) UpdateRow(rowID string, patch RowPatch) bool {
	i := s.rowIndex(rowID)
	if i < 0 {
		return false
	}
	row := s.doc.Rows[i]
	patch.applyTo(&row)
	s.doc.Rows[i] = row
	return true
}

// DeleteRow removes a single row, leaving its marker in place.
func (s *Store) DeleteRow(rowID string) bool {
	i := s.rowIndex(rowID)
	if i < 0 {
		return false
	}
	rows := make([]RiskRow, 0, len(s.doc.Rows)-1)
	rows = append(rows, s.doc.Rows[:i]...)
	rows = append(rows, s.doc.Rows[i+1:]...)
	s.doc.Rows = rows
	return true
}

// RenameDocument sets metadata.title.
func (s *Store) RenameDocument(title string) {
	s.doc.Metadata.Title = title
}

// UpdateThresholds replaces the band thresholds.
func (s *Store) UpdateThresholds(t scoring.Thresholds) {
	s.doc.Settings.Scoring.Thresholds = t
}

// SetImage applies ingested image data and recomputes the display size.
func (s *Store) SetImage(img Image) {
	s.doc.Image = img.WithLayout()
}

// ImageBox returns the displayed bounding box of the image, anchored at the
// origin. ErrMappingUnavailable means the natural size is unknown.
func (s *Store) ImageBox() (coords.Box, error) {
	box := coords.Box{
		Width:  s.doc.Image.DisplayWidth,
		Height: float64(s.doc.Image.DisplayHeight),
	}
	if !box.Ready() {
		return coords.Box{}, coords.ErrMappingUnavailable
	}
	return box, nil
}

// Marker returns a marker by id.
func (s *Store) Marker(markerID string) (Marker, bool) {
	i := s.markerIndex(markerID)
	if i < 0 {
		return Marker{}, false
	}
	return s.doc.Labels[i].clone(), true
}

// Row returns a row by id.
func (s *Store) Row(rowID string) (RiskRow, bool) {
	i := s.rowIndex(rowID)
	if i < 0 {
		return RiskRow{}, false
	}
	return s.doc.Rows[i], true
}

// RowsForMarker returns the rows that reference a marker.
func (s *Store) RowsForMarker(markerID string) []RiskRow {
	var rows []RiskRow
	for _, r := range s.doc.Rows {
		if markerID != "" && r.MarkerID == markerID {
			rows = append(rows, r)
		}
	}
	return rows
}

// LinkedMarker resolves a row's marker for navigation. Rows whose marker was
// deleted without cascading are unlinked.
func (s *Store) LinkedMarker(rowID string) (Marker, bool) {
	row, ok := s.Row(rowID)
	if !ok || row.MarkerID == "" {
		return Marker{}, false
	}
	return s.Marker(row.MarkerID)
}

// EvaluatedRows returns every row with its derived risk values.
func (s *Store) EvaluatedRows() []EvaluatedRow {
	thresholds := s.doc.Settings.Scoring.Thresholds
	out := make([]EvaluatedRow, len(s.doc.Rows))
	for i, r := range s.doc.Rows {
		out[i] = Evaluate(r, thresholds)
		out[i].Linked = r.MarkerID != "" && s.markerIndex(r.MarkerID) >= 0
	}
	return out
}

func (s *Store) markerIndex(id string) int {
	for i, m := range s.doc.Labels {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) rowIndex(id string) int {
	for i, r := range s.doc.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// markerIDs includes ids still referenced by unlinked rows so a new marker
// never adopts an orphaned row.
func (s *Store) markerIDs() []string {
	ids := make([]string, 0, len(s.doc.Labels)+len(s.doc.Rows))
	for _, m := range s.doc.Labels {
		ids = append(ids, m.ID)
	}
	for _, r := range s.doc.Rows {
		if r.MarkerID != "" {
			ids = append(ids, r.MarkerID)
		}
	}
	return ids
}

func (s *Store) rowIDs() []string {
	ids := make([]string, len(s.doc.Rows))
	for i, r := range s.doc.Rows {
		ids[i] = r.ID
	}
	return ids
}

// normalizeMarker clamps coordinates; a marker with only one axis becomes a
// side marker.
func normalizeMarker(m Marker) Marker {
	c, ok := m.Coord()
	if !ok {
		m.X, m.Y = nil, nil
		return m
	}
	c = coords.Clamp(c)
	m.X, m.Y = &c.X, &c.Y
	return m
}
