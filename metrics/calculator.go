package metrics

import (
	"math"

	"github.com/swdee/go-tactical/pitch"
	"gonum.org/v1/gonum/floats"
)

// MinPlayers is the number of positions below which a snapshot is empty
const MinPlayers = 3

// Metric names used as keys in statistics and exports
const (
	Compactness    = "compactness"
	PressureHeight = "pressure_height"
	OffensiveWidth = "offensive_width"
	DefensiveDepth = "defensive_depth"
	StretchIndex   = "stretch_index"
	CentroidX      = "centroid_x"
	CentroidY      = "centroid_y"
	NumPlayers     = "num_players"
)

// Names lists every metric in export column order
var Names = []string{
	Compactness,
	PressureHeight,
	OffensiveWidth,
	DefensiveDepth,
	StretchIndex,
	CentroidX,
	CentroidY,
	NumPlayers,
}

// Snapshot holds the spatial metrics of one team in one frame
type Snapshot struct {
	// Compactness is the convex hull area in square meters
	Compactness float64 `json:"compactness"`
	// PressureHeight is the mean distance of players from their own goal
	// line
	PressureHeight float64 `json:"pressure_height"`
	// OffensiveWidth is the lateral spread of the team
	OffensiveWidth float64 `json:"offensive_width"`
	// DefensiveDepth is the distance between the deepest and most advanced
	// player
	DefensiveDepth float64 `json:"defensive_depth"`
	// StretchIndex is the mean distance of players from the centroid
	StretchIndex float64     `json:"stretch_index"`
	Centroid     pitch.Point `json:"centroid"`
	NumPlayers   int         `json:"num_players"`
	// Valid is false when too few players were visible to compute metrics,
	// in which case only NumPlayers is set
	Valid bool `json:"valid"`
}

// Value returns the named metric
func (s Snapshot) Value(name string) (float64, bool) {

	switch name {
	case Compactness:
		return s.Compactness, true
	case PressureHeight:
		return s.PressureHeight, true
	case OffensiveWidth:
		return s.OffensiveWidth, true
	case DefensiveDepth:
		return s.DefensiveDepth, true
	case StretchIndex:
		return s.StretchIndex, true
	case CentroidX:
		return s.Centroid.X, true
	case CentroidY:
		return s.Centroid.Y, true
	case NumPlayers:
		return float64(s.NumPlayers), true
	}

	return 0, false
}

// Calculate computes the metrics snapshot for one team's positions in pitch
// meters.  Direction is the way the team attacks and sets the goal line
// pressure height is measured from.  With fewer than MinPlayers positions
// an invalid snapshot carrying only the player count is returned.
func Calculate(positions []pitch.Point, direction pitch.Direction) Snapshot {

	s := Snapshot{NumPlayers: len(positions)}

	if len(positions) < MinPlayers {
		return s
	}

	n := float64(len(positions))
	forward := make([]float64, len(positions))
	lateral := make([]float64, len(positions))

	for i, p := range positions {
		forward[i] = direction.Forward(p)
		lateral[i] = p.Y
		s.Centroid.X += p.X
		s.Centroid.Y += p.Y
	}

	s.Centroid.X /= n
	s.Centroid.Y /= n

	var dist float64

	for _, p := range positions {
		dist += p.Dist(s.Centroid)
	}

	s.Compactness = PolygonArea(ConvexHull(positions))
	s.PressureHeight = floats.Sum(forward) / n
	s.OffensiveWidth = floats.Max(lateral) - floats.Min(lateral)
	s.DefensiveDepth = floats.Max(forward) - floats.Min(forward)
	s.StretchIndex = dist / n
	s.Valid = !math.IsNaN(s.PressureHeight)

	return s
}
