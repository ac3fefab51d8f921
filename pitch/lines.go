package pitch

import "math"

// Segment is a straight pitch marking
type Segment struct {
	From Point
	To   Point
}

// Arc is a circular pitch marking.  Angles are in degrees measured
// clockwise in image orientation (Y down) from the positive X axis.
type Arc struct {
	Centre     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

var (
	penaltyBoxTop = (Width - PenaltyBoxWidth) / 2
	penaltyBoxBot = (Width + PenaltyBoxWidth) / 2
	goalBoxTop    = (Width - GoalBoxWidth) / 2
	goalBoxBot    = (Width + GoalBoxWidth) / 2

	// penaltyArcAngle is the half angle of the part of the penalty spot
	// circle which lies outside the penalty box
	penaltyArcAngle = math.Acos((PenaltyBoxLength-PenaltySpotDistance)/CentreCircleRadius) * 180 / math.Pi
)

// Segments returns the straight pitch markings
func Segments() []Segment {
	return []Segment{
		// boundary
		{Pt(0, 0), Pt(Length, 0)},
		{Pt(0, Width), Pt(Length, Width)},
		{Pt(0, 0), Pt(0, Width)},
		{Pt(Length, 0), Pt(Length, Width)},
		// halfway line
		{Pt(Length/2, 0), Pt(Length/2, Width)},
		// left penalty box
		{Pt(0, penaltyBoxTop), Pt(PenaltyBoxLength, penaltyBoxTop)},
		{Pt(PenaltyBoxLength, penaltyBoxTop), Pt(PenaltyBoxLength, penaltyBoxBot)},
		{Pt(0, penaltyBoxBot), Pt(PenaltyBoxLength, penaltyBoxBot)},
		// left goal box
		{Pt(0, goalBoxTop), Pt(GoalBoxLength, goalBoxTop)},
		{Pt(GoalBoxLength, goalBoxTop), Pt(GoalBoxLength, goalBoxBot)},
		{Pt(0, goalBoxBot), Pt(GoalBoxLength, goalBoxBot)},
		// right penalty box
		{Pt(Length, penaltyBoxTop), Pt(Length-PenaltyBoxLength, penaltyBoxTop)},
		{Pt(Length-PenaltyBoxLength, penaltyBoxTop), Pt(Length-PenaltyBoxLength, penaltyBoxBot)},
		{Pt(Length, penaltyBoxBot), Pt(Length-PenaltyBoxLength, penaltyBoxBot)},
		// right goal box
		{Pt(Length, goalBoxTop), Pt(Length-GoalBoxLength, goalBoxTop)},
		{Pt(Length-GoalBoxLength, goalBoxTop), Pt(Length-GoalBoxLength, goalBoxBot)},
		{Pt(Length, goalBoxBot), Pt(Length-GoalBoxLength, goalBoxBot)},
	}
}

// Arcs returns the curved pitch markings: centre circle and both penalty
// arcs
func Arcs() []Arc {
	return []Arc{
		{Centre: Pt(Length/2, Width/2), Radius: CentreCircleRadius, StartAngle: 0, EndAngle: 360},
		{Centre: Pt(PenaltySpotDistance, Width/2), Radius: CentreCircleRadius,
			StartAngle: -penaltyArcAngle, EndAngle: penaltyArcAngle},
		{Centre: Pt(Length-PenaltySpotDistance, Width/2), Radius: CentreCircleRadius,
			StartAngle: 180 - penaltyArcAngle, EndAngle: 180 + penaltyArcAngle},
	}
}

// Spots returns the centre spot and both penalty spots
func Spots() []Point {
	return []Point{
		Pt(Length/2, Width/2),
		Pt(PenaltySpotDistance, Width/2),
		Pt(Length-PenaltySpotDistance, Width/2),
	}
}
