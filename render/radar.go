package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/swdee/go-tactical/formation"
	"github.com/swdee/go-tactical/metrics"
	"github.com/swdee/go-tactical/pitch"
	"gocv.io/x/gocv"
)

// RadarParams defines the appearance of the radar view
type RadarParams struct {
	// Scale is the number of pixels per meter
	Scale float64
	// Padding in pixels around the pitch
	Padding       int
	PitchColor    color.RGBA
	LineColor     color.RGBA
	LineThickness int
	MarkerRadius  int
	// Font used for formation labels and the metrics overlay
	Font Font
	// ShowMetrics draws each team's metric snapshot in the padding
	ShowMetrics bool
	// ShowTerritory shades the area enclosed by each team's outfield players
	ShowTerritory bool
	// TerritoryMargin grows the territory polygon by this many meters
	TerritoryMargin float64
	// TerritoryAlpha is the opacity of territory shading
	TerritoryAlpha float64
	Trail          TrailStyle
}

// RadarDefaultParams returns default radar settings
func RadarDefaultParams() RadarParams {
	return RadarParams{
		Scale:           8,
		Padding:         50,
		PitchColor:      PitchGreen,
		LineColor:       LineColor,
		LineThickness:   2,
		MarkerRadius:    8,
		Font:            DefaultFont(),
		ShowMetrics:     true,
		ShowTerritory:   true,
		TerritoryMargin: 2,
		TerritoryAlpha:  0.25,
		Trail:           DefaultTrailStyle(),
	}
}

// TeamLayer is one team's content on the radar
type TeamLayer struct {
	Name      string
	Color     color.RGBA
	Positions []pitch.Point
	// Formation label, empty to omit and formation.NotAvailable when the
	// team could not be classified
	Formation  string
	Confidence float64
	// Metrics is drawn when valid and the overlay is enabled
	Metrics metrics.Snapshot
	// Trails of recent positions keyed by track id
	Trails map[int][]pitch.Point
}

// RadarInput is the content of one radar frame
type RadarInput struct {
	Frame int
	Teams []TeamLayer
}

// Radar renders top down views of the pitch
type Radar struct {
	params RadarParams
	width  int
	height int
}

// NewRadar returns a radar renderer.  The canvas size is the pitch
// dimensions times Scale plus Padding on each side.
func NewRadar(params RadarParams) *Radar {

	if params.Scale <= 0 {
		params.Scale = RadarDefaultParams().Scale
	}

	if params.Padding < 0 {
		params.Padding = 0
	}

	return &Radar{
		params: params,
		width:  int(math.Round(pitch.Length*params.Scale)) + 2*params.Padding,
		height: int(math.Round(pitch.Width*params.Scale)) + 2*params.Padding,
	}
}

// Size returns the radar canvas dimensions
func (r *Radar) Size() image.Point {
	return image.Pt(r.width, r.height)
}

// ToPixel converts a pitch position in meters to a canvas pixel
func (r *Radar) ToPixel(p pitch.Point) image.Point {
	return image.Pt(
		int(math.Round(p.X*r.params.Scale))+r.params.Padding,
		int(math.Round(p.Y*r.params.Scale))+r.params.Padding,
	)
}

// scaled converts a length in meters to pixels
func (r *Radar) scaled(m float64) int {
	return int(math.Round(m * r.params.Scale))
}

// Draw renders the radar for one frame.  The caller owns the returned Mat
// and must Close it.
func (r *Radar) Draw(in RadarInput) gocv.Mat {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(
		float64(r.params.PitchColor.B), float64(r.params.PitchColor.G),
		float64(r.params.PitchColor.R), 0), r.height, r.width, gocv.MatTypeCV8UC3)

	r.drawPitch(&img)

	if r.params.ShowTerritory {
		for _, team := range in.Teams {
			r.drawTerritory(&img, team)
		}
	}

	for _, team := range in.Teams {
		r.drawTrails(&img, team)
	}

	for _, team := range in.Teams {
		r.drawPlayers(&img, team)
	}

	r.drawLabels(&img, in)

	return img
}

// drawPitch draws the pitch markings
func (r *Radar) drawPitch(img *gocv.Mat) {

	for _, s := range pitch.Segments() {
		gocv.Line(img, r.ToPixel(s.From), r.ToPixel(s.To), r.params.LineColor,
			r.params.LineThickness)
	}

	for _, a := range pitch.Arcs() {
		radius := r.scaled(a.Radius)
		gocv.Ellipse(img, r.ToPixel(a.Centre), image.Pt(radius, radius), 0,
			a.StartAngle, a.EndAngle, r.params.LineColor, r.params.LineThickness)
	}

	for _, p := range pitch.Spots() {
		gocv.Circle(img, r.ToPixel(p), max(r.params.LineThickness*2, 2),
			r.params.LineColor, -1)
	}
}

// drawPlayers draws a filled marker with a dark outline per player
func (r *Radar) drawPlayers(img *gocv.Mat, team TeamLayer) {

	for _, p := range team.Positions {
		c := r.ToPixel(p)
		gocv.Circle(img, c, r.params.MarkerRadius, team.Color, -1)
		gocv.Circle(img, c, r.params.MarkerRadius, Black, 2)
	}
}

// drawLabels draws formation labels above the pitch and the optional
// metrics overlay below it
func (r *Radar) drawLabels(img *gocv.Mat, in RadarInput) {

	font := r.params.Font
	top := r.params.Padding - 4
	bottom := r.height - 4

	for i, team := range in.Teams {
		anchorX := r.params.Padding
		font.Alignment = Left

		if i%2 == 1 {
			anchorX = r.width - r.params.Padding
			font.Alignment = Right
		}

		if text := formationText(team); text != "" {
			Label(img, text, image.Pt(anchorX, top), team.Color, font)
		}

		if r.params.ShowMetrics && team.Metrics.Valid {
			text := fmt.Sprintf("H %.1fm  W %.1fm  A %.0fm2",
				team.Metrics.PressureHeight, team.Metrics.OffensiveWidth,
				team.Metrics.Compactness)
			Label(img, text, image.Pt(anchorX, bottom), Black, font)
		}
	}
}

// formationText returns the label drawn above the pitch for a team.  A team
// without a detected formation is shown as N/A without a confidence.
func formationText(team TeamLayer) string {

	switch team.Formation {
	case "":
		return ""
	case formation.NotAvailable:
		return fmt.Sprintf("%s %s", team.Name, formation.NotAvailable)
	}

	return fmt.Sprintf("%s %s (%.0f%%)", team.Name, team.Formation,
		team.Confidence*100)
}
