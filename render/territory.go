package render

import (
	"image"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/pitch"
	"gocv.io/x/gocv"
)

// Territory returns the radar pixel polygons of a team's territory, the
// convex hull of its players grown outward by margin meters with rounded
// corners.  Fewer than three players yields no polygon.
func (r *Radar) Territory(positions []pitch.Point, margin float64) [][]image.Point {

	if len(positions) < metrics.MinPlayers {
		return nil
	}

	hull := metrics.ConvexHull(positions)

	if metrics.PolygonArea(hull) == 0 {
		return nil
	}

	// convert the hull to a Clipper Path
	var path clipper.Path

	for _, p := range hull {
		px := r.ToPixel(p)
		path = append(path, &clipper.IntPoint{X: clipper.CInt(px.X), Y: clipper.CInt(px.Y)})
	}

	if margin <= 0 {
		poly := make([]image.Point, len(path))
		for i, pt := range path {
			poly[i] = image.Pt(int(pt.X), int(pt.Y))
		}
		return [][]image.Point{poly}
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtRound, clipper.EtClosedPolygon)

	solution := co.Execute(margin * r.params.Scale)

	var polys [][]image.Point

	for _, sol := range solution {
		poly := make([]image.Point, 0, len(sol))

		for _, pt := range sol {
			poly = append(poly, image.Point{X: int(pt.X), Y: int(pt.Y)})
		}

		if len(poly) >= 3 {
			polys = append(polys, poly)
		}
	}

	return polys
}

// drawTerritory shades the team territory with alpha blending
func (r *Radar) drawTerritory(img *gocv.Mat, team TeamLayer) {

	polys := r.Territory(team.Positions, r.params.TerritoryMargin)

	if len(polys) == 0 {
		return
	}

	pv := gocv.NewPointsVectorFromPoints(polys)
	defer pv.Close()

	overlay := img.Clone()
	defer overlay.Close()

	gocv.FillPoly(&overlay, pv, team.Color)

	alpha := clamp01(r.params.TerritoryAlpha)
	gocv.AddWeighted(overlay, alpha, *img, 1-alpha, 0, img)

	gocv.Polylines(img, pv, true, team.Color, 1)
}
