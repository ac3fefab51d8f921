package metrics

import (
	"math"
	"sort"

	"github.com/swdee/go-tactical/pitch"
)

// ConvexHull returns the convex hull of the points in counter clockwise
// order using Andrew's monotone chain.  Collinear points on the hull edges
// are dropped.  Fewer than three distinct points are returned as is.
func ConvexHull(points []pitch.Point) []pitch.Point {

	pts := make([]pitch.Point, len(points))
	copy(pts, points)

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// remove duplicates
	uniq := pts[:0]

	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}

	pts = uniq

	if len(pts) < 3 {
		return pts
	}

	hull := make([]pitch.Point, 0, 2*len(pts))

	// lower hull
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// upper hull
	lower := len(hull) + 1

	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// last point repeats the first
	return hull[:len(hull)-1]
}

// PolygonArea returns the unsigned area of a simple polygon with the
// shoelace formula
func PolygonArea(poly []pitch.Point) float64 {

	if len(poly) < 3 {
		return 0
	}

	var area float64

	for i := range poly {
		j := (i + 1) % len(poly)
		area += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}

	return math.Abs(area) / 2
}

// cross returns the z component of (b-a) x (c-a)
func cross(a, b, c pitch.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
