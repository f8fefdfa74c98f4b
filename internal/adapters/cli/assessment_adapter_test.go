package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/riskmap/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockAssessmentService implements primary.AssessmentService for testing
type mockAssessmentService struct {
	getAssessmentFn func(ctx context.Context, path string) (*primary.Assessment, error)
	placeHazardFn   func(ctx context.Context, req primary.PlaceHazardRequest) (*primary.PlaceHazardResponse, error)
	deleteMarkerFn  func(ctx context.Context, req primary.DeleteMarkerRequest) (*primary.DeleteMarkerResponse, error)
	moveMarkerFn    func(ctx context.Context, req primary.MoveMarkerRequest) (*primary.MutationResponse, error)
	openFn          func(ctx context.Context, req primary.OpenDocumentRequest) (*primary.OpenDocumentResponse, error)
	summarizeFn     func(ctx context.Context, path string) (*primary.Summary, error)

	// Track calls for verification
	lastPlaceReq  primary.PlaceHazardRequest
	lastDeleteReq primary.DeleteMarkerRequest

	lastThresholdsReq primary.UpdateThresholdsRequest
}

func (m *mockAssessmentService) NewDocument(ctx context.Context, req primary.NewDocumentRequest) (*primary.NewDocumentResponse, error) {
	return &primary.NewDocumentResponse{
		Path:       req.Path,
		Assessment: &primary.Assessment{Title: req.Title, Mode: "SP", Scale: 5, Low: 5, Medium: 12, High: 25},
	}, nil
}

func (m *mockAssessmentService) OpenDocument(ctx context.Context, req primary.OpenDocumentRequest) (*primary.OpenDocumentResponse, error) {
	if m.openFn != nil {
		return m.openFn(ctx, req)
	}
	return &primary.OpenDocumentResponse{Path: req.Paths[0], Assessment: &primary.Assessment{}}, nil
}

func (m *mockAssessmentService) GetAssessment(ctx context.Context, path string) (*primary.Assessment, error) {
	if m.getAssessmentFn != nil {
		return m.getAssessmentFn(ctx, path)
	}
	return &primary.Assessment{Path: path}, nil
}

func (m *mockAssessmentService) RenameDocument(ctx context.Context, req primary.RenameDocumentRequest) error {
	return nil
}

func (m *mockAssessmentService) UpdateThresholds(ctx context.Context, req primary.UpdateThresholdsRequest) (*primary.UpdateThresholdsResponse, error) {
	m.lastThresholdsReq = req
	resp := &primary.UpdateThresholdsResponse{Low: 8, Medium: 12, High: 30}
	if req.Medium != nil {
		resp.Medium = *req.Medium
	}
	return resp, nil
}

func (m *mockAssessmentService) PlaceHazard(ctx context.Context, req primary.PlaceHazardRequest) (*primary.PlaceHazardResponse, error) {
	m.lastPlaceReq = req
	if m.placeHazardFn != nil {
		return m.placeHazardFn(ctx, req)
	}
	return &primary.PlaceHazardResponse{Placed: true, MarkerID: "HZ-001", RowID: "ROW-001"}, nil
}

func (m *mockAssessmentService) MoveMarker(ctx context.Context, req primary.MoveMarkerRequest) (*primary.MutationResponse, error) {
	if m.moveMarkerFn != nil {
		return m.moveMarkerFn(ctx, req)
	}
	return &primary.MutationResponse{Changed: true}, nil
}

func (m *mockAssessmentService) DeleteMarker(ctx context.Context, req primary.DeleteMarkerRequest) (*primary.DeleteMarkerResponse, error) {
	m.lastDeleteReq = req
	if m.deleteMarkerFn != nil {
		return m.deleteMarkerFn(ctx, req)
	}
	return &primary.DeleteMarkerResponse{Changed: true}, nil
}

func (m *mockAssessmentService) LinkedRows(ctx context.Context, path, markerID string) ([]*primary.Row, error) {
	return []*primary.Row{{ID: "ROW-001", MarkerID: markerID, Linked: true}}, nil
}

func (m *mockAssessmentService) UpdateRow(ctx context.Context, req primary.UpdateRowRequest) (*primary.MutationResponse, error) {
	return &primary.MutationResponse{Changed: req.RowID != "ROW-404"}, nil
}

func (m *mockAssessmentService) DeleteRow(ctx context.Context, req primary.DeleteRowRequest) (*primary.MutationResponse, error) {
	return &primary.MutationResponse{Changed: true}, nil
}

func (m *mockAssessmentService) ImportImage(ctx context.Context, req primary.ImportImageRequest) (*primary.ImportImageResponse, error) {
	return nil, errors.New("image import failed: remote host refused connection")
}

func (m *mockAssessmentService) ExportTabular(ctx context.Context, req primary.ExportTabularRequest) (*primary.ExportTabularResponse, error) {
	_, _ = io.WriteString(req.Out, "ID,Danger\n")
	return &primary.ExportTabularResponse{Rows: 1}, nil
}

func (m *mockAssessmentService) Summarize(ctx context.Context, path string) (*primary.Summary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, path)
	}
	return &primary.Summary{}, nil
}

func newTestAdapter() (*AssessmentAdapter, *mockAssessmentService, *bytes.Buffer) {
	mock := &mockAssessmentService{}
	out := &bytes.Buffer{}
	return NewAssessmentAdapter(mock, out), mock, out
}

func TestAssessmentAdapter_New(t *testing.T) {
	adapter, _, out := newTestAdapter()

	if err := adapter.New(context.Background(), "presse.json", "Presse", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "✓ Created assessment presse.json: Presse") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if !strings.Contains(out.String(), "thresholds 5/12/25") {
		t.Errorf("expected thresholds in output: %s", out.String())
	}
}

func TestAssessmentAdapter_OpenPrintsRepairs(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	mock.openFn = func(ctx context.Context, req primary.OpenDocumentRequest) (*primary.OpenDocumentResponse, error) {
		return &primary.OpenDocumentResponse{
			Path:       req.Paths[0],
			Assessment: &primary.Assessment{Rows: []*primary.Row{{ID: "ROW-001"}}},
			Repairs:    []string{"labels: expected an array, got string"},
		}, nil
	}

	path, err := adapter.Open(context.Background(), []string{"a.json", "b.json"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path != "a.json" {
		t.Errorf("expected a.json, got %s", path)
	}
	if !strings.Contains(out.String(), "! repaired labels: expected an array") {
		t.Errorf("expected repair note, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "(0 markers, 1 rows)") {
		t.Errorf("expected counts, got: %s", out.String())
	}
}

func TestAssessmentAdapter_Place(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	x, y := 0.62, 0.41

	if err := adapter.Place(context.Background(), "p.json", "Écrasement", &x, &y, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastPlaceReq.HazardType != "Écrasement" || *mock.lastPlaceReq.X != 0.62 {
		t.Errorf("unexpected request: %+v", mock.lastPlaceReq)
	}
	if !strings.Contains(out.String(), "✓ Placed HZ-001 Écrasement on the image (row ROW-001)") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestAssessmentAdapter_PlaceNotMapped(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	mock.placeHazardFn = func(ctx context.Context, req primary.PlaceHazardRequest) (*primary.PlaceHazardResponse, error) {
		return &primary.PlaceHazardResponse{}, nil
	}
	x, y := 10.0, 10.0

	if err := adapter.Place(context.Background(), "p.json", "Choc", &x, &y, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "nothing placed") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestAssessmentAdapter_DeleteMarker(t *testing.T) {
	tests := []struct {
		name    string
		cascade bool
		resp    *primary.DeleteMarkerResponse
		want    string
	}{
		{name: "cascade", cascade: true, resp: &primary.DeleteMarkerResponse{Changed: true, RowsDeleted: 2}, want: "✓ Deleted marker HZ-001 and 2 row(s)"},
		{name: "keep rows", cascade: false, resp: &primary.DeleteMarkerResponse{Changed: true}, want: "✓ Deleted marker HZ-001\n"},
		{name: "unknown id", cascade: true, resp: &primary.DeleteMarkerResponse{}, want: "not found, nothing deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, mock, out := newTestAdapter()
			mock.deleteMarkerFn = func(ctx context.Context, req primary.DeleteMarkerRequest) (*primary.DeleteMarkerResponse, error) {
				return tt.resp, nil
			}

			if err := adapter.DeleteMarker(context.Background(), "p.json", "HZ-001", tt.cascade); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if mock.lastDeleteReq.Cascade != tt.cascade {
				t.Errorf("expected cascade=%v", tt.cascade)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q in output, got: %s", tt.want, out.String())
			}
		})
	}
}

func TestAssessmentAdapter_MoveUnknown(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	mock.moveMarkerFn = func(ctx context.Context, req primary.MoveMarkerRequest) (*primary.MutationResponse, error) {
		return &primary.MutationResponse{}, nil
	}

	if err := adapter.Move(context.Background(), "p.json", "HZ-404", 0.5, 0.5); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "Marker HZ-404 not found") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestAssessmentAdapter_ThresholdsPartial(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	medium := 15.0

	if err := adapter.Thresholds(context.Background(), "p.json", nil, &medium, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastThresholdsReq.Low != nil || mock.lastThresholdsReq.High != nil {
		t.Error("expected unset thresholds to be passed as nil")
	}
	if !strings.Contains(out.String(), "8/15/30") {
		t.Errorf("expected thresholds in effect to be printed, got: %s", out.String())
	}
}

func TestAssessmentAdapter_ListRows(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	mock.getAssessmentFn = func(ctx context.Context, path string) (*primary.Assessment, error) {
		return &primary.Assessment{Rows: []*primary.Row{
			{ID: "ROW-001", MarkerID: "HZ-001", Linked: true, HazardType: "Écrasement", SeverityBefore: "3", ProbabilityBefore: "4", RiskBefore: "12", BandBefore: "moderate", BandAfter: "unknown", Scenario: "Main prise"},
			{ID: "ROW-002", MarkerID: "HZ-002", HazardType: "Bruit", BandBefore: "unknown", BandAfter: "unknown"},
		}}, nil
	}

	if err := adapter.ListRows(context.Background(), "p.json"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := out.String()
	for _, want := range []string{"ROW-001", "12", "scenario: Main prise", "ROW-002", "HZ-002"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got:\n%s", want, got)
		}
	}
}

func TestAssessmentAdapter_ListMarkersEmpty(t *testing.T) {
	adapter, _, out := newTestAdapter()

	if err := adapter.ListMarkers(context.Background(), "p.json"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "No markers") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestAssessmentAdapter_SetImageError(t *testing.T) {
	adapter, _, _ := newTestAdapter()

	err := adapter.SetImage(context.Background(), "p.json", "", "https://example.com/x.png")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAssessmentAdapter_Export(t *testing.T) {
	adapter, _, out := newTestAdapter()
	var file bytes.Buffer

	if err := adapter.Export(context.Background(), "p.json", &file, "rows.csv"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if file.String() != "ID,Danger\n" {
		t.Errorf("unexpected export: %q", file.String())
	}
	if !strings.Contains(out.String(), "✓ Exported 1 row(s) to rows.csv") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestAssessmentAdapter_Summary(t *testing.T) {
	adapter, mock, out := newTestAdapter()
	mock.summarizeFn = func(ctx context.Context, path string) (*primary.Summary, error) {
		return &primary.Summary{
			Title: "Presse", Markers: 3, SideMarkers: 1, Rows: 3, UnlinkedRows: 1,
			Before: primary.RiskStats{Computable: 2, Mean: 12, Max: 20, Bands: map[string]int{"low": 1, "high": 1, "unknown": 1}},
			After:  primary.RiskStats{Bands: map[string]int{"unknown": 3}},
		}, nil
	}

	if err := adapter.Summary(context.Background(), "p.json"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := out.String()
	for _, want := range []string{"Markers: 3 (1 beside the image)", "Rows:    3 (1 unlinked)", "12.0", "20"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output, got:\n%s", want, got)
		}
	}
}
