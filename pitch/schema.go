package pitch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvableKeypoint is returned when a keypoint id lies outside the
	// domain of the active schema.  It indicates the keypoint model and the
	// configured schema do not match.
	ErrUnresolvableKeypoint = errors.New("keypoint id not in schema")
	// ErrUnknownSchema is returned when no schema exists for a point count
	ErrUnknownSchema = errors.New("unknown keypoint schema")
)

// Schema maps keypoint ids produced by a pitch keypoint model to their
// position on the pitch in meters.  A Schema is immutable.
type Schema struct {
	name   string
	points []Point
}

// Name of the schema variant
func (s *Schema) Name() string {
	return s.name
}

// Len returns the number of keypoints in the schema
func (s *Schema) Len() int {
	return len(s.points)
}

// Contains reports whether id is a valid keypoint id for the schema
func (s *Schema) Contains(id int) bool {
	return id >= 0 && id < len(s.points)
}

// Point returns the pitch position of keypoint id
func (s *Schema) Point(id int) (Point, bool) {
	if !s.Contains(id) {
		return Point{}, false
	}
	return s.points[id], true
}

// Points returns a copy of all schema points ordered by id
func (s *Schema) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Resolve returns the pitch positions for the given keypoint ids in the
// same order as ids
func (s *Schema) Resolve(ids []int) ([]Point, error) {

	out := make([]Point, 0, len(ids))

	for _, id := range ids {
		p, ok := s.Point(id)

		if !ok {
			return nil, fmt.Errorf("%w: id %d outside %s schema (0-%d)",
				ErrUnresolvableKeypoint, id, s.name, len(s.points)-1)
		}

		out = append(out, p)
	}

	return out, nil
}

// SchemaFor returns the schema variant with the given number of keypoints
func SchemaFor(numPoints int) (*Schema, error) {
	switch numPoints {
	case 32:
		return Schema32, nil
	case 29:
		return Schema29, nil
	}

	return nil, fmt.Errorf("%w: %d points", ErrUnknownSchema, numPoints)
}

// SchemaByName returns the schema for a configuration name, either the
// point count ("32", "29") or the model family ("roboflow", "soccana")
func SchemaByName(name string) (*Schema, error) {
	switch name {
	case "32", "roboflow", Schema32.name:
		return Schema32, nil
	case "29", "soccana", Schema29.name:
		return Schema29, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
}

var (
	cx = Length / 2
	cy = Width / 2

	// Schema32 is the 32 point layout used by the roboflow style pitch
	// keypoint model.  Ids run down each vertical pitch line from the left
	// goal line to the right goal line, followed by the two centre circle
	// intersections with the horizontal centre line.
	Schema32 = &Schema{
		name: "roboflow32",
		points: []Point{
			// left goal line
			{0, 0},                      // 0
			{0, penaltyBoxTop},          // 1
			{0, goalBoxTop},             // 2
			{0, goalBoxBot},             // 3
			{0, penaltyBoxBot},          // 4
			{0, Width},                  // 5
			{GoalBoxLength, goalBoxTop}, // 6
			{GoalBoxLength, goalBoxBot}, // 7
			{PenaltySpotDistance, cy},   // 8
			{PenaltyBoxLength, penaltyBoxTop},
			{PenaltyBoxLength, goalBoxTop},
			{PenaltyBoxLength, goalBoxBot},
			{PenaltyBoxLength, penaltyBoxBot}, // 12
			// halfway line
			{cx, 0},
			{cx, cy - CentreCircleRadius},
			{cx, cy + CentreCircleRadius},
			{cx, Width}, // 16
			// right half
			{Length - PenaltyBoxLength, penaltyBoxTop},
			{Length - PenaltyBoxLength, goalBoxTop},
			{Length - PenaltyBoxLength, goalBoxBot},
			{Length - PenaltyBoxLength, penaltyBoxBot},
			{Length - PenaltySpotDistance, cy},
			{Length - GoalBoxLength, goalBoxTop},
			{Length - GoalBoxLength, goalBoxBot}, // 23
			// right goal line
			{Length, 0},
			{Length, penaltyBoxTop},
			{Length, goalBoxTop},
			{Length, goalBoxBot},
			{Length, penaltyBoxBot},
			{Length, Width}, // 29
			// centre circle on the horizontal centre line
			{cx - CentreCircleRadius, cy},
			{cx + CentreCircleRadius, cy},
		},
	}

	// Schema29 is the 29 point layout used by the soccana keypoint model.
	// Ids are grouped by pitch zone: corners (0, 9, 16, 25), left penalty
	// box (1-4), left goal box (5-8), centre (10-15, 26-28), right penalty
	// box (17-20) and right goal box (21-24).
	Schema29 = &Schema{
		name: "soccana29",
		points: []Point{
			{0, 0}, // 0
			// left penalty box
			{0, penaltyBoxTop},
			{PenaltyBoxLength, penaltyBoxTop},
			{PenaltyBoxLength, penaltyBoxBot},
			{0, penaltyBoxBot},
			// left goal box
			{0, goalBoxTop},
			{GoalBoxLength, goalBoxTop},
			{GoalBoxLength, goalBoxBot},
			{0, goalBoxBot},
			{0, Width}, // 9
			// halfway line and centre circle
			{cx, 0},
			{cx, cy - CentreCircleRadius},
			{cx, cy},
			{cx, cy + CentreCircleRadius},
			{cx, Width},
			{cx - CentreCircleRadius, cy}, // 15
			{Length, 0},                   // 16
			// right penalty box
			{Length, penaltyBoxTop},
			{Length - PenaltyBoxLength, penaltyBoxTop},
			{Length - PenaltyBoxLength, penaltyBoxBot},
			{Length, penaltyBoxBot},
			// right goal box
			{Length, goalBoxTop},
			{Length - GoalBoxLength, goalBoxTop},
			{Length - GoalBoxLength, goalBoxBot},
			{Length, goalBoxBot},
			{Length, Width}, // 25
			{cx + CentreCircleRadius, cy},
			// penalty spots
			{PenaltySpotDistance, cy},
			{Length - PenaltySpotDistance, cy},
		},
	}
)
