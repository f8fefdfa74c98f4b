package hazard

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

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

// NormalizeName trims surrounding whitespace and composes the name to NFC so
// that "É" typed as one rune or as E + combining accent dedupes the same way.
// Case is preserved.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// AddHazardContext provides context for hazard library guards.
type AddHazardContext struct {
	Name     string // already normalized
	Existing []string
}

// CanAddHazard evaluates whether a name can join the library.
// Rules:
// - Name must not be blank
// - Name must not already be present (exact, case-sensitive match)
func CanAddHazard(ctx AddHazardContext) GuardResult {
	if ctx.Name == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "hazard name cannot be empty",
		}
	}

	for _, existing := range ctx.Existing {
		if existing == ctx.Name {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("hazard %q already in library", ctx.Name),
			}
		}
	}

	return GuardResult{Allowed: true}
}

// DefaultLibrary is the seed list of mechanical hazards (EN ISO 12100, Annex B).
var DefaultLibrary = []string{
	"Écrasement",
	"Cisaillement",
	"Coupure ou sectionnement",
	"Happement",
	"Enroulement",
	"Entraînement ou emprisonnement",
	"Choc",
	"Perforation ou piqûre",
	"Frottement ou abrasion",
	"Injection de fluide sous pression",
	"Électrique",
	"Thermique",
	"Bruit",
	"Vibrations",
	"Rayonnements",
	"Matériaux et substances",
	"Ergonomie",
	"Glissade, trébuchement, chute",
}
