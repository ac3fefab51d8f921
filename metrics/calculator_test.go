package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swdee/go-tactical/pitch"
)

var positions = []pitch.Point{
	{X: 30, Y: 20}, {X: 30, Y: 35}, {X: 30, Y: 50},
	{X: 50, Y: 15}, {X: 50, Y: 30}, {X: 50, Y: 45}, {X: 50, Y: 55},
	{X: 70, Y: 25}, {X: 70, Y: 43},
}

func shift(pts []pitch.Point, dx float64) []pitch.Point {
	out := make([]pitch.Point, len(pts))
	for i, p := range pts {
		out[i] = pitch.Point{X: p.X + dx, Y: p.Y}
	}
	return out
}

func TestCalculate(t *testing.T) {

	s := Calculate(positions, pitch.AttackRight)

	assert.True(t, s.Valid)
	assert.Equal(t, 9, s.NumPlayers)
	assert.InDelta(t, 430.0/9, s.PressureHeight, 1e-9)
	assert.InDelta(t, 40.0, s.OffensiveWidth, 1e-9)
	assert.InDelta(t, 40.0, s.DefensiveDepth, 1e-9)
	assert.InDelta(t, 430.0/9, s.Centroid.X, 1e-9)
	assert.InDelta(t, 318.0/9, s.Centroid.Y, 1e-9)
	assert.Greater(t, s.Compactness, 0.0)
	assert.Greater(t, s.StretchIndex, 0.0)
}

func TestCalculateSquare(t *testing.T) {

	square := []pitch.Point{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 20}, {X: 15, Y: 15}}

	s := Calculate(square, pitch.AttackRight)

	assert.InDelta(t, 100.0, s.Compactness, 1e-9)
	assert.InDelta(t, 15.0, s.Centroid.X, 1e-9)
	assert.InDelta(t, 15.0, s.Centroid.Y, 1e-9)
	// four corners at 5*sqrt(2) and the centre at 0
	assert.InDelta(t, 4*7.0710678118654755/5, s.StretchIndex, 1e-9)
}

func TestPressureHeightMonotonic(t *testing.T) {

	team := []pitch.Point{{X: 15, Y: 10}, {X: 18, Y: 30}, {X: 20, Y: 50}, {X: 25, Y: 20}, {X: 22, Y: 60}}

	deep := Calculate(team, pitch.AttackRight)
	advanced := Calculate(shift(team, 60), pitch.AttackRight)

	assert.Greater(t, advanced.PressureHeight, deep.PressureHeight)

	// attacking left the same positions mean the reverse
	deepLeft := Calculate(team, pitch.AttackLeft)
	advancedLeft := Calculate(shift(team, 60), pitch.AttackLeft)

	assert.Less(t, advancedLeft.PressureHeight, deepLeft.PressureHeight)
}

func TestCalculateDegenerate(t *testing.T) {

	tests := []struct {
		name string
		pts  []pitch.Point
	}{
		{"none", nil},
		{"one", []pitch.Point{{X: 10, Y: 10}}},
		{"two", []pitch.Point{{X: 10, Y: 10}, {X: 30, Y: 40}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Calculate(tc.pts, pitch.AttackRight)

			assert.False(t, s.Valid)
			assert.Equal(t, len(tc.pts), s.NumPlayers)
			assert.Zero(t, s.Compactness)
			assert.Zero(t, s.PressureHeight)
		})
	}
}

func TestCollinearHasZeroArea(t *testing.T) {

	line := []pitch.Point{{X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}, {X: 40, Y: 40}}

	s := Calculate(line, pitch.AttackRight)

	assert.True(t, s.Valid)
	assert.Zero(t, s.Compactness)
	assert.InDelta(t, 30.0, s.OffensiveWidth, 1e-9)
}

func TestConvexHull(t *testing.T) {

	pts := []pitch.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 2, Y: 2}, {X: 1, Y: 3}, {X: 2, Y: 0}, {X: 4, Y: 4}}

	hull := ConvexHull(pts)

	assert.Len(t, hull, 4)
	assert.InDelta(t, 16.0, PolygonArea(hull), 1e-9)
	assert.NotContains(t, hull, pitch.Point{X: 2, Y: 2})
}

func TestSnapshotValue(t *testing.T) {

	s := Snapshot{PressureHeight: 42, Centroid: pitch.Point{X: 1, Y: 2}, NumPlayers: 7}

	for _, name := range Names {
		_, ok := s.Value(name)
		assert.True(t, ok, name)
	}

	v, _ := s.Value(PressureHeight)
	assert.Equal(t, 42.0, v)

	v, _ = s.Value(CentroidY)
	assert.Equal(t, 2.0, v)

	_, ok := s.Value("possession")
	assert.False(t, ok)
}
