package render

import (
	"image/color"
	"sort"

	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as the team marker.  If set to false then a per track
	// color is used, or LineColor when PerTrack is also false
	LineSame      bool
	PerTrack      bool
	LineColor     color.RGBA
	LineThickness int
	// MinPoints is the shortest history drawn as a trail
	MinPoints int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      true,
		PerTrack:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		MinPoints:     2,
	}
}

// drawTrails draws the recent movement of each tracked player
func (r *Radar) drawTrails(img *gocv.Mat, team TeamLayer) {

	style := r.params.Trail

	// sort ids so overlapping trails draw in a stable order
	ids := make([]int, 0, len(team.Trails))

	for id := range team.Trails {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	for _, id := range ids {
		points := team.Trails[id]

		if len(points) < max(style.MinPoints, 2) {
			continue
		}

		lineClr := style.LineColor

		switch {
		case style.LineSame:
			lineClr = team.Color
		case style.PerTrack:
			lineClr = TrackColor(id)
		}

		for i := 1; i < len(points); i++ {
			gocv.Line(img, r.ToPixel(points[i-1]), r.ToPixel(points[i]),
				lineClr, style.LineThickness)
		}
	}
}
