package formation

import (
	"errors"
	"testing"

	"github.com/swdee/go-tactical/pitch"
)

var positions442 = []pitch.Point{
	// defenders
	{X: 20, Y: 10}, {X: 20, Y: 25}, {X: 20, Y: 43}, {X: 20, Y: 58},
	// midfielders
	{X: 48, Y: 12}, {X: 48, Y: 28}, {X: 48, Y: 40}, {X: 48, Y: 56},
	// forwards
	{X: 80, Y: 25}, {X: 80, Y: 43},
}

var positions433 = []pitch.Point{
	{X: 20, Y: 10}, {X: 20, Y: 25}, {X: 20, Y: 43}, {X: 20, Y: 58},
	{X: 48, Y: 20}, {X: 48, Y: 34}, {X: 48, Y: 48},
	{X: 80, Y: 15}, {X: 80, Y: 34}, {X: 80, Y: 53},
}

// mirror returns the positions reflected about the halfway line
func mirror(pts []pitch.Point) []pitch.Point {
	out := make([]pitch.Point, len(pts))
	for i, p := range pts {
		out[i] = p.MirrorX()
	}
	return out
}

func equalCounts(a []int, b ...int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDetectKnownFormations(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	tests := []struct {
		name      string
		positions []pitch.Point
		direction pitch.Direction
		label     string
		counts    []int
	}{
		{"442 right", positions442, pitch.AttackRight, "4-4-2", []int{4, 4, 2}},
		{"433 right", positions433, pitch.AttackRight, "4-3-3", []int{4, 3, 3}},
		{"442 left", mirror(positions442), pitch.AttackLeft, "4-4-2", []int{4, 4, 2}},
		{"433 left", mirror(positions433), pitch.AttackLeft, "4-3-3", []int{4, 3, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := det.Detect(tc.positions, tc.direction)

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if f.Label != tc.label {
				t.Errorf("expected formation %s, got %s", tc.label, f.Label)
			}

			if !f.Known {
				t.Errorf("expected %s to be a known formation", f.Label)
			}

			if !equalCounts(f.PlayersPerLine, tc.counts...) {
				t.Errorf("expected players per line %v, got %v", tc.counts, f.PlayersPerLine)
			}
		})
	}
}

func TestDetectLinesKeepOriginalCoordinates(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	f, err := det.Detect(mirror(positions442), pitch.AttackLeft)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// attacking left the defenders sit near X=85
	for _, p := range f.Lines.Defense {
		if p.X != 85 {
			t.Errorf("expected defender at x=85, got %v", p)
		}
	}

	for _, p := range f.Lines.Attack {
		if p.X != 25 {
			t.Errorf("expected forward at x=25, got %v", p)
		}
	}
}

func TestDetectPartitionsAllPlayers(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	// players scattered with no clear lines
	scattered := []pitch.Point{
		{X: 5, Y: 30}, {X: 11, Y: 3}, {X: 17, Y: 61}, {X: 26, Y: 40}, {X: 33, Y: 8}, {X: 39, Y: 22},
		{X: 52, Y: 50}, {X: 57, Y: 33}, {X: 66, Y: 14}, {X: 71, Y: 66}, {X: 88, Y: 35},
	}

	for n := MinPlayers; n <= len(scattered); n++ {
		f, err := det.Detect(scattered[:n], pitch.AttackRight)

		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}

		total := len(f.Lines.Defense) + len(f.Lines.Midfield) + len(f.Lines.Attack)

		if total != n {
			t.Errorf("n=%d: lines hold %d players", n, total)
		}

		for i, c := range f.PlayersPerLine {
			if c < 1 {
				t.Errorf("n=%d: line %d is empty", n, i)
			}
		}

		if f.Confidence < 0 || f.Confidence > 1 {
			t.Errorf("n=%d: confidence %f out of range", n, f.Confidence)
		}
	}
}

func TestConfidencePartialVisibility(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	full, err := det.Detect(positions442, pitch.AttackRight)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	partial, err := det.Detect(positions442[:6], pitch.AttackRight)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if full.Confidence <= partial.Confidence {
		t.Errorf("expected full confidence %f to exceed partial %f",
			full.Confidence, partial.Confidence)
	}

	// partial view still yields three lines
	if len(partial.PlayersPerLine) != 3 {
		t.Errorf("expected three lines, got %v", partial.PlayersPerLine)
	}
}

func TestConfidenceTightness(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	loose := make([]pitch.Point, len(positions442))
	copy(loose, positions442)

	// stagger each line by a few meters
	for i := range loose {
		if i%2 == 0 {
			loose[i].X += 4
		}
	}

	tight, err := det.Detect(positions442, pitch.AttackRight)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	staggered, err := det.Detect(loose, pitch.AttackRight)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tight.Confidence <= staggered.Confidence {
		t.Errorf("expected tight confidence %f to exceed staggered %f",
			tight.Confidence, staggered.Confidence)
	}
}

func TestDetectUnknownShapeFallsBack(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	pts := []pitch.Point{{X: 10, Y: 20}, {X: 40, Y: 10}, {X: 40, Y: 30}, {X: 40, Y: 50}, {X: 70, Y: 30}}

	f, err := det.Detect(pts, pitch.AttackRight)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Label != "1-3-1" || f.Known {
		t.Errorf("expected unknown 1-3-1, got %s known=%v", f.Label, f.Known)
	}
}

func TestInsufficientPlayers(t *testing.T) {

	det := NewDetector(DetectorDefaultParams())

	for n := 0; n < MinPlayers; n++ {
		_, err := det.Detect(positions442[:n], pitch.AttackRight)

		if !errors.Is(err, ErrInsufficientPlayers) {
			t.Errorf("n=%d: expected ErrInsufficientPlayers, got %v", n, err)
		}
	}
}

func TestTally(t *testing.T) {

	tally := NewTally()

	if got := tally.MostCommon(); got != NotAvailable {
		t.Errorf("expected %s for empty tally, got %s", NotAvailable, got)
	}

	for _, l := range []string{"4-3-3", "4-4-2", NotAvailable, "4-4-2", "4-3-3", ""} {
		tally.Add(l)
	}

	// tie resolves to first seen
	if got := tally.MostCommon(); got != "4-3-3" {
		t.Errorf("expected 4-3-3, got %s", got)
	}

	tally.Add("4-4-2")

	s := tally.Summary()

	if s.MostCommon != "4-4-2" || s.FramesDetected != 5 || s.Counts["4-4-2"] != 3 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestStyle(t *testing.T) {

	tests := map[string]string{
		"4-4-2":      "balanced",
		"5-4-1":      "low block",
		"1-3-1":      "unclassified",
		NotAvailable: "",
		"":           "",
	}

	for label, want := range tests {
		if got := Style(label); got != want {
			t.Errorf("Style(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestParseLabel(t *testing.T) {

	counts, err := ParseLabel("3-5-2")

	if err != nil || counts != [3]int{3, 5, 2} {
		t.Errorf("expected [3 5 2], got %v err %v", counts, err)
	}

	for _, bad := range []string{"4-2-3-1", "4-x-2", "", NotAvailable} {
		if _, err := ParseLabel(bad); err == nil {
			t.Errorf("expected error parsing %q", bad)
		}
	}
}
