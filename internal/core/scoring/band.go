package scoring

import (
	"fmt"
	"math"
)

// Band is the severity classification of a derived risk value.
type Band int

// Severity bands, ordered from lowest to highest. Unknown sorts first.
const (
	BandUnknown Band = iota
	BandLow
	BandModerate
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandModerate:
		return "moderate"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Classify places a risk value into a band.
// Rules:
// - not computable -> unknown
// - value <= Low -> low
// - value <= Medium -> moderate
// - otherwise -> high
func Classify(r Risk, t Thresholds) Band {
	v, ok := r.Value()
	if !ok {
		return BandUnknown
	}
	if v <= t.Low {
		return BandLow
	}
	if v <= t.Medium {
		return BandModerate
	}
	return BandHigh
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanUseThresholds evaluates user-supplied thresholds before they reach the store.
// Rules:
// - Every threshold must be a finite number
// - Low must not exceed Medium
// - Medium must not exceed High
func CanUseThresholds(t Thresholds) GuardResult {
	for _, th := range []struct {
		name  string
		value float64
	}{{"low", t.Low}, {"medium", t.Medium}, {"high", t.High}} {
		if math.IsNaN(th.value) || math.IsInf(th.value, 0) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("%s threshold must be a finite number, got %g", th.name, th.value),
			}
		}
	}
	if t.Low > t.Medium {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("low threshold %g is above medium threshold %g", t.Low, t.Medium),
		}
	}
	if t.Medium > t.High {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("medium threshold %g is above high threshold %g", t.Medium, t.High),
		}
	}
	return GuardResult{Allowed: true}
}
