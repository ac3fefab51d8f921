package formation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/swdee/go-tactical/pitch"
)

// ErrInsufficientPlayers is returned when fewer than MinPlayers positions
// are passed to Detect
var ErrInsufficientPlayers = errors.New("insufficient players for formation detection")

const (
	// MinPlayers is the minimum number of positions needed to form three lines
	MinPlayers = 3

	// NotAvailable is the label used when no formation could be detected
	NotAvailable = "N/A"

	// costEpsilon is the tolerance when comparing split costs, splits
	// within it are considered equally tight
	costEpsilon = 1e-9
)

// Lines holds the players assigned to each line in their original pitch
// coordinates
type Lines struct {
	Defense  []pitch.Point `json:"defense"`
	Midfield []pitch.Point `json:"midfield"`
	Attack   []pitch.Point `json:"attack"`
}

// Formation is the result of classifying one team's shape in one frame
type Formation struct {
	// Label is the catalogued name or the raw counts string
	Label string `json:"formation"`
	// Known is true when Label matched a catalogued template
	Known      bool    `json:"known"`
	Confidence float64 `json:"confidence"`
	// PlayersPerLine is the count of players in defense, midfield and
	// attack
	PlayersPerLine []int `json:"players_per_line"`
	Lines          Lines `json:"lines"`
}

// DetectorParams configures the formation detector
type DetectorParams struct {
	// ExpectedPlayers is the number of outfield players a fully visible
	// team has
	ExpectedPlayers int
	// TightnessScale is the spread in meters of a line at which the
	// tightness factor of the confidence score halves
	TightnessScale float64
}

// DetectorDefaultParams returns default parameters for ten outfield players
func DetectorDefaultParams() DetectorParams {
	return DetectorParams{
		ExpectedPlayers: 10,
		TightnessScale:  5,
	}
}

// Detector classifies player positions into formations.  It holds no state
// between calls and is safe for concurrent use.
type Detector struct {
	params DetectorParams
}

// NewDetector returns a formation detector
func NewDetector(params DetectorParams) *Detector {

	if params.ExpectedPlayers <= 0 {
		params.ExpectedPlayers = DetectorDefaultParams().ExpectedPlayers
	}

	if params.TightnessScale <= 0 {
		params.TightnessScale = DetectorDefaultParams().TightnessScale
	}

	return &Detector{params: params}
}

// ranked is a player position with its forward coordinate
type ranked struct {
	pos     pitch.Point
	forward float64
}

// Detect partitions the positions into defense, midfield and attack lines
// and names the resulting shape.  Positions are in pitch meters and
// direction gives the way the team attacks.
func (d *Detector) Detect(positions []pitch.Point, direction pitch.Direction) (Formation, error) {

	if len(positions) < MinPlayers {
		return Formation{}, fmt.Errorf("%w: got %d positions, need %d",
			ErrInsufficientPlayers, len(positions), MinPlayers)
	}

	players := make([]ranked, len(positions))

	for i, p := range positions {
		players[i] = ranked{pos: p, forward: direction.Forward(p)}
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].forward < players[j].forward
	})

	coords := make([]float64, len(players))

	for i, p := range players {
		coords[i] = p.forward
	}

	s := bestSplit(coords)
	counts := [3]int{s.i, s.j - s.i, len(coords) - s.j}

	f := Formation{
		Label:          CountsLabel(counts[:]),
		Confidence:     d.confidence(len(coords), s.cost),
		PlayersPerLine: counts[:],
		Lines: Lines{
			Defense:  positionsOf(players[:s.i]),
			Midfield: positionsOf(players[s.i:s.j]),
			Attack:   positionsOf(players[s.j:]),
		},
	}

	if t, ok := Lookup(counts); ok {
		f.Label = t.Name
		f.Known = true
	}

	return f, nil
}

// confidence combines how much of the team is visible with how tightly the
// players sit on their lines.  Both factors lie in (0,1] so the product
// does too.
func (d *Detector) confidence(n int, sse float64) float64 {

	visibility := math.Min(float64(n), float64(d.params.ExpectedPlayers)) /
		float64(d.params.ExpectedPlayers)

	rms := math.Sqrt(sse / float64(n))
	tightness := 1 / (1 + rms/d.params.TightnessScale)

	return visibility * tightness
}

// split marks the line boundaries in the sorted coordinates, defense is
// [0,i), midfield [i,j) and attack [j,n)
type split struct {
	i, j int
	cost float64
	gap  float64
	skew int
}

// bestSplit finds the contiguous three way partition of sorted coordinates
// that minimises the summed squared deviation of each line from its mean.
// On sorted one dimensional data the optimal k-means clusters are always
// contiguous, so searching every pair of boundaries is exact.  Ties are
// broken by preferring boundaries on the widest gaps and then the most even
// line sizes.
func bestSplit(coords []float64) split {

	n := len(coords)

	// prefix sums of values and squares
	sum := make([]float64, n+1)
	sq := make([]float64, n+1)

	for k, v := range coords {
		sum[k+1] = sum[k] + v
		sq[k+1] = sq[k] + v*v
	}

	sse := func(a, b int) float64 {
		cnt := float64(b - a)
		s := sum[b] - sum[a]
		// clamp rounding noise below zero
		return math.Max(sq[b]-sq[a]-s*s/cnt, 0)
	}

	best := split{cost: math.Inf(1)}

	for i := 1; i <= n-2; i++ {
		for j := i + 1; j <= n-1; j++ {
			c := split{
				i:    i,
				j:    j,
				cost: sse(0, i) + sse(i, j) + sse(j, n),
				gap:  (coords[i] - coords[i-1]) + (coords[j] - coords[j-1]),
				skew: skew(i, j-i, n-j),
			}

			if c.better(best) {
				best = c
			}
		}
	}

	return best
}

// better reports whether split s should be preferred over o
func (s split) better(o split) bool {

	if s.cost < o.cost-costEpsilon {
		return true
	}

	if s.cost > o.cost+costEpsilon {
		return false
	}

	if s.gap != o.gap {
		return s.gap > o.gap
	}

	return s.skew < o.skew
}

// skew measures how uneven three line sizes are
func skew(a, b, c int) int {
	return max(a, b, c) - min(a, b, c)
}

func positionsOf(players []ranked) []pitch.Point {

	out := make([]pitch.Point, len(players))

	for i, p := range players {
		out[i] = p.pos
	}

	return out
}
