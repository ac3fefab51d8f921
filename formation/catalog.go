package formation

import (
	"fmt"
	"strconv"
	"strings"
)

// Template is a named arrangement of outfield players across the defense,
// midfield and attack lines
type Template struct {
	Name   string
	Counts [3]int
	// Style is a short description of the shape's intent
	Style string
}

// catalog of recognised three line formations, keyed by count string
var catalog = map[string]Template{
	"4-4-2": {Name: "4-4-2", Counts: [3]int{4, 4, 2}, Style: "balanced"},
	"4-3-3": {Name: "4-3-3", Counts: [3]int{4, 3, 3}, Style: "attacking"},
	"4-5-1": {Name: "4-5-1", Counts: [3]int{4, 5, 1}, Style: "midfield heavy"},
	"4-2-4": {Name: "4-2-4", Counts: [3]int{4, 2, 4}, Style: "all out attack"},
	"3-5-2": {Name: "3-5-2", Counts: [3]int{3, 5, 2}, Style: "wing backs"},
	"3-4-3": {Name: "3-4-3", Counts: [3]int{3, 4, 3}, Style: "attacking"},
	"5-3-2": {Name: "5-3-2", Counts: [3]int{5, 3, 2}, Style: "defensive"},
	"5-4-1": {Name: "5-4-1", Counts: [3]int{5, 4, 1}, Style: "low block"},
	"4-1-5": {Name: "4-1-5", Counts: [3]int{4, 1, 5}, Style: "front five"},
	"3-6-1": {Name: "3-6-1", Counts: [3]int{3, 6, 1}, Style: "midfield heavy"},
}

// CountsLabel formats player counts per line as a dash separated string
func CountsLabel(counts []int) string {

	parts := make([]string, len(counts))

	for i, c := range counts {
		parts[i] = strconv.Itoa(c)
	}

	return strings.Join(parts, "-")
}

// Lookup returns the catalogued template matching the line counts
func Lookup(counts [3]int) (Template, bool) {
	t, ok := catalog[CountsLabel(counts[:])]
	return t, ok
}

// ParseLabel parses a dash separated formation label such as "4-4-2"
func ParseLabel(label string) ([3]int, error) {

	var counts [3]int
	parts := strings.Split(label, "-")

	if len(parts) != 3 {
		return counts, fmt.Errorf("formation label %q does not have three lines", label)
	}

	for i, p := range parts {
		n, err := strconv.Atoi(p)

		if err != nil || n < 0 {
			return counts, fmt.Errorf("formation label %q has invalid line count %q", label, p)
		}

		counts[i] = n
	}

	return counts, nil
}

// Style returns the catalogued style of a formation label.  Labels with
// three line counts outside the catalogue are "unclassified", anything
// else such as NotAvailable returns an empty string.
func Style(label string) string {

	counts, err := ParseLabel(label)

	if err != nil {
		return ""
	}

	if t, ok := Lookup(counts); ok {
		return t.Style
	}

	return "unclassified"
}
