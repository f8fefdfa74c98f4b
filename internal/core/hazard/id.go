// Package hazard contains the pure business rules for hazard markers, risk
// rows and the hazard name library.
// This is part of the Functional Core - no I/O, only pure functions.
package hazard

import "fmt"

// ID prefixes for generated identifiers.
const (
	MarkerPrefix = "HZ"
	RowPrefix    = "ROW"
)

// GenerateID generates an ID from the current max number.
// The format is PREFIX-XXX where XXX is a zero-padded 3-digit number.
func GenerateID(prefix string, currentMax int) string {
	return fmt.Sprintf("%s-%03d", prefix, currentMax+1)
}

// ParseIDNumber extracts the numeric portion from an ID with the given prefix.
// Returns -1 if the ID format is invalid.
func ParseIDNumber(prefix, id string) int {
	var num int
	var rest string
	n, _ := fmt.Sscanf(id, prefix+"-%d%s", &num, &rest)
	if n != 1 || num < 0 {
		return -1
	}
	return num
}

// NextID returns the next free ID for the prefix, given the IDs already in use.
// IDs that do not follow the pattern are ignored for numbering but are never reused.
func NextID(prefix string, existing []string) string {
	taken := make(map[string]bool, len(existing))
	highest := 0
	for _, id := range existing {
		taken[id] = true
		if n := ParseIDNumber(prefix, id); n > highest {
			highest = n
		}
	}

	id := GenerateID(prefix, highest)
	for taken[id] {
		highest++
		id = GenerateID(prefix, highest)
	}
	return id
}
