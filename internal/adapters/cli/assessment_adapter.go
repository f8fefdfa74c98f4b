// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/riskmap/internal/ports/primary"
)

// AssessmentAdapter is a thin adapter that translates CLI operations to AssessmentService calls.
// It depends only on the AssessmentService interface, enabling easy testing with mocks.
type AssessmentAdapter struct {
	service primary.AssessmentService
	out     io.Writer
}

// NewAssessmentAdapter creates a new AssessmentAdapter with the given service.
func NewAssessmentAdapter(service primary.AssessmentService, out io.Writer) *AssessmentAdapter {
	return &AssessmentAdapter{
		service: service,
		out:     out,
	}
}

// New creates an empty assessment.
func (a *AssessmentAdapter) New(ctx context.Context, path, title string, force bool) error {
	resp, err := a.service.NewDocument(ctx, primary.NewDocumentRequest{Path: path, Title: title, Force: force})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created assessment %s", resp.Path)
	if resp.Assessment.Title != "" {
		fmt.Fprintf(a.out, ": %s", resp.Assessment.Title)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "  Scoring: %s, scale 1-%d, thresholds %g/%g/%g\n",
		resp.Assessment.Mode, resp.Assessment.Scale, resp.Assessment.Low, resp.Assessment.Medium, resp.Assessment.High)
	return nil
}

// Open loads an assessment and returns the path that was opened.
func (a *AssessmentAdapter) Open(ctx context.Context, paths []string) (string, error) {
	resp, err := a.service.OpenDocument(ctx, primary.OpenDocumentRequest{Paths: paths})
	if err != nil {
		return "", err
	}

	for _, note := range resp.Repairs {
		fmt.Fprintf(a.out, "%s repaired %s\n", color.New(color.FgYellow).Sprint("!"), note)
	}
	fmt.Fprintf(a.out, "✓ Opened %s (%d markers, %d rows)\n", resp.Path, len(resp.Assessment.Markers), len(resp.Assessment.Rows))
	return resp.Path, nil
}

// Show displays the whole assessment.
func (a *AssessmentAdapter) Show(ctx context.Context, path string) error {
	doc, err := a.service.GetAssessment(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get assessment: %w", err)
	}

	fmt.Fprintf(a.out, "\nAssessment: %s\n", doc.Path)
	fmt.Fprintf(a.out, "Title:      %s\n", doc.Title)
	fmt.Fprintf(a.out, "Created:    %s\n", doc.CreatedAt)
	fmt.Fprintf(a.out, "Scoring:    %s, scale 1-%d, thresholds %g/%g/%g\n", doc.Mode, doc.Scale, doc.Low, doc.Medium, doc.High)
	if doc.HasImage {
		fmt.Fprintf(a.out, "Image:      %dx%d (displayed %gx%d)\n", doc.NaturalWidth, doc.NaturalHeight, doc.DisplayWidth, doc.DisplayHeight)
	} else {
		fmt.Fprintln(a.out, "Image:      (none)")
	}

	a.printMarkers(doc.Markers)
	a.printRows(doc.Rows)
	return nil
}

// Rename changes the assessment title.
func (a *AssessmentAdapter) Rename(ctx context.Context, path, title string) error {
	if err := a.service.RenameDocument(ctx, primary.RenameDocumentRequest{Path: path, Title: title}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Assessment renamed to %q\n", title)
	return nil
}

// Thresholds changes the given scoring thresholds; nil ones are kept.
func (a *AssessmentAdapter) Thresholds(ctx context.Context, path string, low, medium, high *float64) error {
	resp, err := a.service.UpdateThresholds(ctx, primary.UpdateThresholdsRequest{Path: path, Low: low, Medium: medium, High: high})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Thresholds set to %g/%g/%g\n", resp.Low, resp.Medium, resp.High)
	return nil
}

// Place drops a hazard on the image (x/y given) or beside it.
func (a *AssessmentAdapter) Place(ctx context.Context, path, hazardType string, x, y *float64, pointer bool) error {
	resp, err := a.service.PlaceHazard(ctx, primary.PlaceHazardRequest{
		Path: path, HazardType: hazardType, X: x, Y: y, Pointer: pointer,
	})
	if err != nil {
		return err
	}
	if !resp.Placed {
		fmt.Fprintln(a.out, "Image layout unknown, nothing placed (set an image first)")
		return nil
	}

	where := "beside the image"
	if x != nil {
		where = "on the image"
	}
	fmt.Fprintf(a.out, "✓ Placed %s %s %s (row %s)\n", resp.MarkerID, hazardType, where, resp.RowID)
	return nil
}

// Move re-anchors a marker.
func (a *AssessmentAdapter) Move(ctx context.Context, path, markerID string, x, y float64) error {
	resp, err := a.service.MoveMarker(ctx, primary.MoveMarkerRequest{Path: path, MarkerID: markerID, X: x, Y: y})
	if err != nil {
		return err
	}
	if !resp.Changed {
		fmt.Fprintf(a.out, "Marker %s not found, nothing moved\n", markerID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Marker %s moved\n", markerID)
	return nil
}

// ListMarkers lists the markers of the assessment.
func (a *AssessmentAdapter) ListMarkers(ctx context.Context, path string) error {
	doc, err := a.service.GetAssessment(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to list markers: %w", err)
	}
	a.printMarkers(doc.Markers)
	return nil
}

// LinkedRowCount returns how many rows still point at a marker.
func (a *AssessmentAdapter) LinkedRowCount(ctx context.Context, path, markerID string) (int, error) {
	rows, err := a.service.LinkedRows(ctx, path, markerID)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// DeleteMarker removes a marker, and its rows when cascade is set.
func (a *AssessmentAdapter) DeleteMarker(ctx context.Context, path, markerID string, cascade bool) error {
	resp, err := a.service.DeleteMarker(ctx, primary.DeleteMarkerRequest{Path: path, MarkerID: markerID, Cascade: cascade})
	if err != nil {
		return err
	}
	if !resp.Changed {
		fmt.Fprintf(a.out, "Marker %s not found, nothing deleted\n", markerID)
		return nil
	}

	fmt.Fprintf(a.out, "✓ Deleted marker %s", markerID)
	if cascade {
		fmt.Fprintf(a.out, " and %d row(s)", resp.RowsDeleted)
	}
	fmt.Fprintln(a.out)
	return nil
}

// ListRows lists the evaluated risk rows.
func (a *AssessmentAdapter) ListRows(ctx context.Context, path string) error {
	doc, err := a.service.GetAssessment(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to list rows: %w", err)
	}
	a.printRows(doc.Rows)
	return nil
}

// UpdateRow merges edits into a row.
func (a *AssessmentAdapter) UpdateRow(ctx context.Context, req primary.UpdateRowRequest) error {
	resp, err := a.service.UpdateRow(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Changed {
		fmt.Fprintf(a.out, "Row %s not found, nothing updated\n", req.RowID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Row %s updated\n", req.RowID)
	return nil
}

// DeleteRow removes a row.
func (a *AssessmentAdapter) DeleteRow(ctx context.Context, path, rowID string) error {
	resp, err := a.service.DeleteRow(ctx, primary.DeleteRowRequest{Path: path, RowID: rowID})
	if err != nil {
		return err
	}
	if !resp.Changed {
		fmt.Fprintf(a.out, "Row %s not found, nothing deleted\n", rowID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Deleted row %s\n", rowID)
	return nil
}

// SetImage ingests the machine image.
func (a *AssessmentAdapter) SetImage(ctx context.Context, path, file, url string) error {
	resp, err := a.service.ImportImage(ctx, primary.ImportImageRequest{Path: path, File: file, URL: url})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Image set: %s %dx%d (displayed %gx%d)\n",
		resp.Format, resp.NaturalWidth, resp.NaturalHeight, resp.DisplayWidth, resp.DisplayHeight)
	return nil
}

// Export writes the rows as delimited text to w. Confirmation goes to the
// adapter output unless w is that output.
func (a *AssessmentAdapter) Export(ctx context.Context, path string, w io.Writer, dest string) error {
	resp, err := a.service.ExportTabular(ctx, primary.ExportTabularRequest{Path: path, Out: w})
	if err != nil {
		return err
	}
	if dest != "" {
		fmt.Fprintf(a.out, "✓ Exported %d row(s) to %s\n", resp.Rows, dest)
	}
	return nil
}

// Summary prints band counts and risk statistics.
func (a *AssessmentAdapter) Summary(ctx context.Context, path string) error {
	s, err := a.service.Summarize(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to summarize: %w", err)
	}

	fmt.Fprintf(a.out, "\n%s\n", s.Title)
	fmt.Fprintf(a.out, "Markers: %d (%d beside the image)\n", s.Markers, s.SideMarkers)
	fmt.Fprintf(a.out, "Rows:    %d (%d unlinked)\n", s.Rows, s.UnlinkedRows)
	fmt.Fprintf(a.out, "\n%-8s %5s %5s %5s %8s %6s %6s\n", "", "LOW", "MOD", "HIGH", "UNKNOWN", "MEAN", "MAX")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────")
	a.printStats("before", s.Before)
	a.printStats("after", s.After)
	fmt.Fprintln(a.out)
	return nil
}

func (a *AssessmentAdapter) printStats(label string, st primary.RiskStats) {
	mean, max := "-", "-"
	if st.Computable > 0 {
		mean = fmt.Sprintf("%.1f", st.Mean)
		max = fmt.Sprintf("%g", st.Max)
	}
	fmt.Fprintf(a.out, "%-8s %5d %5d %5d %8d %6s %6s\n",
		label, st.Bands["low"], st.Bands["moderate"], st.Bands["high"], st.Bands["unknown"], mean, max)
}

func (a *AssessmentAdapter) printMarkers(markers []*primary.Marker) {
	if len(markers) == 0 {
		fmt.Fprintln(a.out, "\nNo markers")
		return
	}

	fmt.Fprintf(a.out, "\n%-8s %-14s %-5s %s\n", "ID", "POSITION", "ROWS", "HAZARD")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, m := range markers {
		pos := "side"
		if m.OnImage {
			pos = fmt.Sprintf("%.3f,%.3f", m.X, m.Y)
		}
		fmt.Fprintf(a.out, "%-8s %-14s %-5d %s\n", m.ID, pos, m.LinkedRows, m.HazardType)
	}
}

func (a *AssessmentAdapter) printRows(rows []*primary.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "\nNo rows")
		return
	}

	fmt.Fprintf(a.out, "\n%-8s %-8s %-3s %-3s %-4s %-3s %-3s %-4s %s\n", "ID", "MARKER", "S", "P", "R", "Sr", "Pr", "Rr", "HAZARD")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, r := range rows {
		marker := r.MarkerID
		if marker == "" {
			marker = "-"
		} else if !r.Linked {
			marker = color.New(color.FgHiBlack).Sprint(marker)
		}
		fmt.Fprintf(a.out, "%-8s %-8s %-3s %-3s %s %-3s %-3s %s %s\n",
			r.ID, marker,
			dash(r.SeverityBefore), dash(r.ProbabilityBefore), riskCell(r.RiskBefore, r.BandBefore),
			dash(r.SeverityAfter), dash(r.ProbabilityAfter), riskCell(r.RiskAfter, r.BandAfter),
			r.HazardType)
		if r.Scenario != "" {
			fmt.Fprintf(a.out, "         scenario: %s\n", r.Scenario)
		}
		if r.Measures != "" {
			fmt.Fprintf(a.out, "         measures: %s\n", r.Measures)
		}
	}
	fmt.Fprintln(a.out)
}

// riskCell pads before coloring so escape codes do not break alignment.
func riskCell(risk, band string) string {
	cell := fmt.Sprintf("%-4s", dash(risk))
	return bandColor(band).Sprint(cell)
}

func bandColor(band string) *color.Color {
	switch band {
	case "low":
		return color.New(color.FgGreen)
	case "moderate":
		return color.New(color.FgYellow)
	case "high":
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgHiBlack)
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
