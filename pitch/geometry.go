package pitch

import "math"

// Dimensions of the canonical pitch in meters.  The origin is the top left
// corner when viewed with team 1 attacking to the right, X runs along the
// touchline and Y along the goal line.
const (
	Length = 105.0
	Width  = 68.0

	PenaltyBoxLength    = 16.5
	PenaltyBoxWidth     = 40.32
	GoalBoxLength       = 5.5
	GoalBoxWidth        = 18.32
	CentreCircleRadius  = 9.15
	PenaltySpotDistance = 11.0
)

// Point is a position on the pitch plane.  Depending on context it is
// expressed in meters (pitch space) or pixels (image space).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the euclidean distance between two points
func (p Point) Dist(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// InBounds reports whether the point lies on the pitch surface
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X <= Length && p.Y >= 0 && p.Y <= Width
}

// Within reports whether the point lies on the pitch grown by margin
// meters on every side
func (p Point) Within(margin float64) bool {
	return p.X >= -margin && p.X <= Length+margin &&
		p.Y >= -margin && p.Y <= Width+margin
}

// MirrorX reflects the point about the halfway line
func (p Point) MirrorX() Point {
	return Point{X: Length - p.X, Y: p.Y}
}

// MirrorY reflects the point about the long axis of the pitch
func (p Point) MirrorY() Point {
	return Point{X: p.X, Y: Width - p.Y}
}
