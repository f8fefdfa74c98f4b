package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/example/riskmap/internal/core/scoring"
	"github.com/example/riskmap/internal/document"
)

// TabularHeader is the fixed column list of the flat export.
var TabularHeader = []string{
	"ID", "Danger", "Scénario", "S", "P", "R", "Mesures", "Sr", "Pr", "Rr", "Commentaires",
}

// RiskFunc derives a risk value from two factors.
type RiskFunc func(a, b scoring.Score) scoring.Risk

// ExportTabular writes a header line and one line per row. Text fields are
// quoted with doubled-quote escaping; numeric fields are bare and a risk that
// cannot be computed is an empty field.
func ExportTabular(w io.Writer, rows []document.RiskRow, risk RiskFunc) error {
	if risk == nil {
		risk = scoring.ComputeRisk
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(TabularHeader, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range rows {
		fields := []string{
			quote(r.ID),
			quote(r.HazardType),
			quote(r.Scenario),
			scoreField(r.SeverityBefore),
			scoreField(r.ProbabilityBefore),
			risk(r.SeverityBefore, r.ProbabilityBefore).String(),
			quote(r.Measures),
			scoreField(r.SeverityAfter),
			scoreField(r.ProbabilityAfter),
			risk(r.SeverityAfter, r.ProbabilityAfter).String(),
			quote(r.Comments),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// scoreField emits a numeric score bare. Text typed into a score cell is
// quoted so the column count stays fixed.
func scoreField(s scoring.Score) string {
	if s.IsEmpty() {
		return ""
	}
	if _, ok := s.Value(); ok {
		return strings.TrimSpace(string(s))
	}
	return quote(string(s))
}
