package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/riskmap/internal/codec"
	"github.com/example/riskmap/internal/core/coords"
	"github.com/example/riskmap/internal/core/scoring"
	"github.com/example/riskmap/internal/document"
	"github.com/example/riskmap/internal/ports/primary"
	"github.com/example/riskmap/internal/ports/secondary"
	"github.com/example/riskmap/internal/session"
)

// AssessmentServiceImpl implements the AssessmentService interface.
// Each call loads the document, runs its mutations through a session and
// writes the document back only if every mutation succeeded.
type AssessmentServiceImpl struct {
	files        secondary.DocumentFileStore
	settingsRepo secondary.SettingsRepository
	images       secondary.ImageSource
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAssessmentService creates a new AssessmentService with injected dependencies.
func NewAssessmentService(
	files secondary.DocumentFileStore,
	settingsRepo secondary.SettingsRepository,
	images secondary.ImageSource,
	logger zerolog.Logger,
) *AssessmentServiceImpl {
	return &AssessmentServiceImpl{
		files:        files,
		settingsRepo: settingsRepo,
		images:       images,
		logger:       logger,
		now:          time.Now,
	}
}

// NewDocument creates an empty document at req.Path.
func (s *AssessmentServiceImpl) NewDocument(ctx context.Context, req primary.NewDocumentRequest) (*primary.NewDocumentResponse, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}
	if !req.Force {
		exists, err := s.files.Exists(ctx, req.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to check document: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("document %s already exists (use --force to overwrite)", req.Path)
		}
	}

	previous, err := s.previousSettings(ctx)
	if err != nil {
		return nil, err
	}

	store := s.newStore()
	store.CreateDocument(previous)
	store.RenameDocument(req.Title)

	if err := s.save(ctx, req.Path, store); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("path", req.Path).Msg("document created")

	return &primary.NewDocumentResponse{
		Path:       req.Path,
		Assessment: toAssessment(req.Path, store),
	}, nil
}

// OpenDocument loads the first of req.Paths. Repairs applied to the file are
// reported but the file itself is not rewritten.
func (s *AssessmentServiceImpl) OpenDocument(ctx context.Context, req primary.OpenDocumentRequest) (*primary.OpenDocumentResponse, error) {
	if len(req.Paths) == 0 {
		return nil, fmt.Errorf("no document to open")
	}
	path := req.Paths[0]

	store, repairs, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return &primary.OpenDocumentResponse{
		Path:       path,
		Assessment: toAssessment(path, store),
		Repairs:    repairs,
	}, nil
}

// GetAssessment retrieves a full view of the document at path.
func (s *AssessmentServiceImpl) GetAssessment(ctx context.Context, path string) (*primary.Assessment, error) {
	store, _, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	return toAssessment(path, store), nil
}

// RenameDocument changes the document title.
func (s *AssessmentServiceImpl) RenameDocument(ctx context.Context, req primary.RenameDocumentRequest) error {
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Apply(ctx, func(store *document.Store) {
			store.RenameDocument(req.Title)
		})
	})
	return err
}

// UpdateThresholds merges the given thresholds into the current ones and
// checks the result before applying it.
func (s *AssessmentServiceImpl) UpdateThresholds(ctx context.Context, req primary.UpdateThresholdsRequest) (*primary.UpdateThresholdsResponse, error) {
	if req.Low == nil && req.Medium == nil && req.High == nil {
		return nil, fmt.Errorf("no thresholds to update")
	}

	var t scoring.Thresholds
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		if err := sess.Read(ctx, func(store *document.Store) {
			t = store.Settings().Scoring.Thresholds
		}); err != nil {
			return err
		}
		if req.Low != nil {
			t.Low = *req.Low
		}
		if req.Medium != nil {
			t.Medium = *req.Medium
		}
		if req.High != nil {
			t.High = *req.High
		}
		if result := scoring.CanUseThresholds(t); !result.Allowed {
			return result.Error()
		}
		return sess.Apply(ctx, func(store *document.Store) {
			store.UpdateThresholds(t)
		})
	})
	if err != nil {
		return nil, err
	}
	return &primary.UpdateThresholdsResponse{Low: t.Low, Medium: t.Medium, High: t.High}, nil
}

// PlaceHazard creates a marker and its linked row. A pointer that cannot be
// mapped onto the image creates nothing and reports Placed=false.
func (s *AssessmentServiceImpl) PlaceHazard(ctx context.Context, req primary.PlaceHazardRequest) (*primary.PlaceHazardResponse, error) {
	if (req.X == nil) != (req.Y == nil) {
		return nil, fmt.Errorf("both x and y are required to place a hazard on the image")
	}

	resp := &primary.PlaceHazardResponse{}
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Apply(ctx, func(store *document.Store) {
			var (
				marker document.Marker
				row    document.RiskRow
			)
			switch {
			case req.X == nil:
				marker, row = store.PlaceHazardOffImage(req.HazardType)
			case req.Pointer:
				var err error
				marker, row, err = store.PlaceHazardAtPointer(req.HazardType, coords.Point{X: *req.X, Y: *req.Y})
				if err != nil {
					s.logger.Debug().Err(err).Str("path", req.Path).Msg("pointer ignored")
					return
				}
			default:
				marker, row = store.PlaceHazardOnImage(req.HazardType, coords.Coord{X: *req.X, Y: *req.Y})
			}
			resp.Placed = true
			resp.MarkerID = marker.ID
			resp.RowID = row.ID
		})
	})
	if err != nil {
		return nil, err
	}
	if resp.Placed {
		s.logger.Debug().Str("path", req.Path).Str("marker", resp.MarkerID).Str("row", resp.RowID).Msg("hazard placed")
	}
	return resp, nil
}

// MoveMarker re-anchors a marker. Unknown ids report Changed=false.
func (s *AssessmentServiceImpl) MoveMarker(ctx context.Context, req primary.MoveMarkerRequest) (*primary.MutationResponse, error) {
	resp := &primary.MutationResponse{}
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Apply(ctx, func(store *document.Store) {
			resp.Changed = store.MoveMarker(req.MarkerID, coords.Coord{X: req.X, Y: req.Y})
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("path", req.Path).Str("marker", req.MarkerID).Bool("changed", resp.Changed).Msg("marker moved")
	return resp, nil
}

// DeleteMarker removes a marker, cascading to its rows when asked to.
func (s *AssessmentServiceImpl) DeleteMarker(ctx context.Context, req primary.DeleteMarkerRequest) (*primary.DeleteMarkerResponse, error) {
	resp := &primary.DeleteMarkerResponse{}
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Apply(ctx, func(store *document.Store) {
			resp.RowsDeleted, resp.Changed = store.DeleteMarker(req.MarkerID, req.Cascade)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("path", req.Path).
		Str("marker", req.MarkerID).
		Bool("cascade", req.Cascade).
		Int("rows_deleted", resp.RowsDeleted).
		Bool("changed", resp.Changed).
		Msg("marker deleted")
	return resp, nil
}

// LinkedRows lists the rows referencing markerID.
func (s *AssessmentServiceImpl) LinkedRows(ctx context.Context, path, markerID string) ([]*primary.Row, error) {
	store, _, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}

	linked := map[string]bool{}
	for _, r := range store.RowsForMarker(markerID) {
		linked[r.ID] = true
	}
	var rows []*primary.Row
	for _, r := range store.EvaluatedRows() {
		if linked[r.ID] {
			rows = append(rows, toRow(r))
		}
	}
	return rows, nil
}

// UpdateRow merges the non-nil fields of req into the row.
func (s *AssessmentServiceImpl) UpdateRow(ctx context.Context, req primary.UpdateRowRequest) (*primary.MutationResponse, error) {
	patch := document.RowPatch{
		HazardType:        req.HazardType,
		Scenario:          req.Scenario,
		SeverityBefore:    scorePtr(req.SeverityBefore),
		ProbabilityBefore: scorePtr(req.ProbabilityBefore),
		Measures:          req.Measures,
		SeverityAfter:     scorePtr(req.SeverityAfter),
		ProbabilityAfter:  scorePtr(req.ProbabilityAfter),
		Comments:          req.Comments,
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("no fields to update")
	}

	resp := &primary.MutationResponse{}
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Apply(ctx, func(store *document.Store) {
			resp.Changed = store.UpdateRow(req.RowID, patch)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("path", req.Path).Str("row", req.RowID).Bool("changed", resp.Changed).Msg("row updated")
	return resp, nil
}

// DeleteRow removes a row. Unknown ids report Changed=false.
func (s *AssessmentServiceImpl) DeleteRow(ctx context.Context, req primary.DeleteRowRequest) (*primary.MutationResponse, error) {
	resp := &primary.MutationResponse{}
	_, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Apply(ctx, func(store *document.Store) {
			resp.Changed = store.DeleteRow(req.RowID)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("path", req.Path).Str("row", req.RowID).Bool("changed", resp.Changed).Msg("row deleted")
	return resp, nil
}

// ImportImage ingests an image from a file or a URL. A failed import leaves
// the document untouched on disk.
func (s *AssessmentServiceImpl) ImportImage(ctx context.Context, req primary.ImportImageRequest) (*primary.ImportImageResponse, error) {
	if (req.File == "") == (req.URL == "") {
		return nil, fmt.Errorf("exactly one of file or url is required")
	}

	var format string
	produce := func(ctx context.Context) (document.Image, error) {
		var (
			data *secondary.ImageData
			err  error
		)
		if req.File != "" {
			data, err = s.images.FromFile(ctx, req.File)
		} else {
			data, err = s.images.FromURL(ctx, req.URL)
		}
		if err != nil {
			return document.Image{}, err
		}
		format = data.Format
		return document.Image{
			SourceData:    data.DataURL,
			NaturalWidth:  data.Width,
			NaturalHeight: data.Height,
		}, nil
	}

	store, err := s.edit(ctx, req.Path, func(ctx context.Context, sess *session.Session) error {
		return sess.Import(ctx, produce)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("path", req.Path).Str("file", req.File).Str("url", req.URL).Msg("image import failed")
		return nil, fmt.Errorf("failed to import image: %w", err)
	}

	img := store.Document().Image
	s.logger.Debug().Str("path", req.Path).Int("width", img.NaturalWidth).Int("height", img.NaturalHeight).Msg("image imported")
	return &primary.ImportImageResponse{
		Format:        format,
		NaturalWidth:  img.NaturalWidth,
		NaturalHeight: img.NaturalHeight,
		DisplayWidth:  img.DisplayWidth,
		DisplayHeight: img.DisplayHeight,
	}, nil
}

// ExportTabular writes the document rows to req.Out.
func (s *AssessmentServiceImpl) ExportTabular(ctx context.Context, req primary.ExportTabularRequest) (*primary.ExportTabularResponse, error) {
	store, _, err := s.load(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	rows := store.Document().Rows
	if err := codec.ExportTabular(req.Out, rows, scoring.ComputeRisk); err != nil {
		return nil, fmt.Errorf("failed to export rows: %w", err)
	}
	return &primary.ExportTabularResponse{Rows: len(rows)}, nil
}

// Summarize aggregates band counts and risk statistics.
func (s *AssessmentServiceImpl) Summarize(ctx context.Context, path string) (*primary.Summary, error) {
	store, _, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := store.Document()
	thresholds := doc.Settings.Scoring.Thresholds
	summary := &primary.Summary{
		Title:   doc.Metadata.Title,
		Markers: len(doc.Labels),
		Rows:    len(doc.Rows),
	}
	for _, m := range doc.Labels {
		if !m.OnImage() {
			summary.SideMarkers++
		}
	}

	evaluated := store.EvaluatedRows()
	before := make([]scoring.Risk, len(evaluated))
	after := make([]scoring.Risk, len(evaluated))
	for i, r := range evaluated {
		before[i], after[i] = r.RiskBefore, r.RiskAfter
		if !r.Linked {
			summary.UnlinkedRows++
		}
	}
	summary.Before = toRiskStats(scoring.Describe(before, thresholds))
	summary.After = toRiskStats(scoring.Describe(after, thresholds))
	return summary, nil
}

// ============================================================================
// Load / save
// ============================================================================

func (s *AssessmentServiceImpl) newStore() *document.Store {
	return document.NewStore(document.WithClock(s.now))
}

// load reads and repairs the document at path.
func (s *AssessmentServiceImpl) load(ctx context.Context, path string) (*document.Store, []string, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("no document selected (use --file or riskmap open)")
	}
	data, err := s.files.Read(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	defaults := codec.Defaults{
		Metadata: document.Metadata{CreatedAt: s.now().UTC()},
		Settings: document.DefaultSettings(),
	}
	previous, err := s.previousSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	if previous != nil {
		defaults.Settings = *previous
	}

	loaded, err := codec.Deserialize(data, defaults)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	for _, note := range loaded.Repairs {
		s.logger.Warn().Str("path", path).Msg(note)
	}

	store := s.newStore()
	store.Load(loaded.Document)
	return store, loaded.Repairs, nil
}

// edit loads the document, runs fn inside a session and saves the result.
// Nothing is written when fn fails.
func (s *AssessmentServiceImpl) edit(ctx context.Context, path string, fn func(ctx context.Context, sess *session.Session) error) (*document.Store, error) {
	store, _, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := session.With(ctx, store, fn); err != nil {
		return nil, err
	}
	if err := s.save(ctx, path, store); err != nil {
		return nil, err
	}
	return store, nil
}

// save writes the document and remembers its settings for the next one.
func (s *AssessmentServiceImpl) save(ctx context.Context, path string, store *document.Store) error {
	data, err := codec.Serialize(store.Document())
	if err != nil {
		return err
	}
	if err := s.files.Write(ctx, path, data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	sc := store.Settings().Scoring
	record := &secondary.SettingsRecord{
		Mode:   string(sc.Mode),
		Scale:  sc.Scale,
		Low:    sc.Thresholds.Low,
		Medium: sc.Thresholds.Medium,
		High:   sc.Thresholds.High,
	}
	if err := s.settingsRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *AssessmentServiceImpl) previousSettings(ctx context.Context) (*document.Settings, error) {
	record, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return &document.Settings{Scoring: scoring.Settings{
		Mode:  scoring.Mode(record.Mode),
		Scale: record.Scale,
		Thresholds: scoring.Thresholds{
			Low:    record.Low,
			Medium: record.Medium,
			High:   record.High,
		},
	}}, nil
}

// ============================================================================
// Conversion helpers
// ============================================================================

func toAssessment(path string, store *document.Store) *primary.Assessment {
	doc := store.Document()
	sc := doc.Settings.Scoring

	a := &primary.Assessment{
		Path:          path,
		Title:         doc.Metadata.Title,
		CreatedAt:     doc.Metadata.CreatedAt.Format(time.RFC3339),
		SchemaVersion: doc.SchemaVersion,
		Mode:          string(sc.Mode),
		Scale:         sc.Scale,
		Low:           sc.Thresholds.Low,
		Medium:        sc.Thresholds.Medium,
		High:          sc.Thresholds.High,
		HasImage:      doc.Image.HasSource(),
		NaturalWidth:  doc.Image.NaturalWidth,
		NaturalHeight: doc.Image.NaturalHeight,
		DisplayWidth:  doc.Image.DisplayWidth,
		DisplayHeight: doc.Image.DisplayHeight,
	}

	for _, m := range doc.Labels {
		marker := &primary.Marker{
			ID:         m.ID,
			HazardType: m.HazardType,
			LinkedRows: len(store.RowsForMarker(m.ID)),
		}
		if c, ok := m.Coord(); ok {
			marker.OnImage = true
			marker.X, marker.Y = c.X, c.Y
		}
		a.Markers = append(a.Markers, marker)
	}
	for _, r := range store.EvaluatedRows() {
		a.Rows = append(a.Rows, toRow(r))
	}
	return a
}

func toRow(r document.EvaluatedRow) *primary.Row {
	return &primary.Row{
		ID:                r.ID,
		MarkerID:          r.MarkerID,
		Linked:            r.Linked,
		HazardType:        r.HazardType,
		Scenario:          r.Scenario,
		SeverityBefore:    string(r.SeverityBefore),
		ProbabilityBefore: string(r.ProbabilityBefore),
		RiskBefore:        r.RiskBefore.String(),
		BandBefore:        r.BandBefore.String(),
		Measures:          r.Measures,
		SeverityAfter:     string(r.SeverityAfter),
		ProbabilityAfter:  string(r.ProbabilityAfter),
		RiskAfter:         r.RiskAfter.String(),
		BandAfter:         r.BandAfter.String(),
		Comments:          r.Comments,
	}
}

func toRiskStats(st scoring.Stats) primary.RiskStats {
	bands := make(map[string]int, len(st.Bands))
	for band, n := range st.Bands {
		bands[band.String()] = n
	}
	return primary.RiskStats{
		Computable: st.Computable,
		Mean:       st.Mean,
		Max:        st.Max,
		Bands:      bands,
	}
}

func scorePtr(v *string) *scoring.Score {
	if v == nil {
		return nil
	}
	sc := scoring.Score(*v)
	return &sc
}

// IsParseError reports whether err came from a malformed document file.
func IsParseError(err error) bool {
	return codec.IsParseError(err)
}

// Ensure AssessmentServiceImpl implements the interface
var _ primary.AssessmentService = (*AssessmentServiceImpl)(nil)
