// Package scoring contains the pure risk computation for hazard rows.
// Derived values are never stored; they are recomputed on every read.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode identifies the scoring method configured for a document.
type Mode string

// Scoring modes. Both use the same product formula.
const (
	ModeSP  Mode = "SP"  // Severity x Probability
	ModeEOA Mode = "EOA" // Exposure / Occurrence / Avoidance
)

// Default settings for fresh documents.
const (
	DefaultScale           = 5
	DefaultLowThreshold    = 5
	DefaultMediumThreshold = 12
	DefaultHighThreshold   = 25
)

// Thresholds partition derived risk values into severity bands.
// High is informational only.
type Thresholds struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Settings is the scoring configuration of a document.
type Settings struct {
	Mode       Mode       `json:"mode"`
	Scale      int        `json:"scale"`
	Thresholds Thresholds `json:"thresholds"`
}

// DefaultSettings returns the settings used when nothing is carried forward.
func DefaultSettings() Settings {
	return Settings{
		Mode:  ModeSP,
		Scale: DefaultScale,
		Thresholds: Thresholds{
			Low:    DefaultLowThreshold,
			Medium: DefaultMediumThreshold,
			High:   DefaultHighThreshold,
		},
	}
}

// Score is an ordinal factor as entered by the user. The empty string means
// "not yet assessed". Non-numeric text is kept as typed.
type Score string

// ScoreOf returns the canonical Score for an integer value.
func ScoreOf(v int) Score {
	return Score(strconv.Itoa(v))
}

// IsEmpty reports whether the score has not been assessed.
func (s Score) IsEmpty() bool {
	return strings.TrimSpace(string(s)) == ""
}

// Value returns the numeric value of the score, if any.
func (s Score) Value() (float64, bool) {
	text := strings.TrimSpace(string(s))
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// InScale reports whether the score is an integer in [1, scale].
func (s Score) InScale(scale int) bool {
	v, ok := s.Value()
	if !ok {
		return false
	}
	return v == math.Trunc(v) && v >= 1 && v <= float64(scale)
}

// MarshalJSON emits canonical numbers as JSON numbers and anything else as a string.
func (s Score) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if v, ok := s.Value(); ok && formatNumber(v) == string(s) {
		return []byte(string(s)), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts a number, a string or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Score(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("score must be a number or a string: %w", err)
	}
	v, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid score %s: %w", text, err)
	}
	*s = Score(formatNumber(v))
	return nil
}

// Risk is a derived risk value. The zero Risk is not computable.
type Risk struct {
	value      float64
	computable bool
}

// RiskOf wraps a known risk value.
func RiskOf(v float64) Risk {
	return Risk{value: v, computable: true}
}

// Value returns the product and whether it could be computed.
func (r Risk) Value() (float64, bool) {
	return r.value, r.computable
}

// Computable reports whether both factors were present and numeric.
func (r Risk) Computable() bool {
	return r.computable
}

// String renders the value, or an empty string when not computable.
func (r Risk) String() string {
	if !r.computable {
		return ""
	}
	return formatNumber(r.value)
}

// ComputeRisk multiplies two factors. Any empty or non-numeric operand makes
// the result not computable.
func ComputeRisk(a, b Score) Risk {
	va, ok := a.Value()
	if !ok {
		return Risk{}
	}
	vb, ok := b.Value()
	if !ok {
		return Risk{}
	}
	return RiskOf(va * vb)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
