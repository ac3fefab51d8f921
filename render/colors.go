package render

import "image/color"

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}

	// PitchGreen is the radar grass color
	PitchGreen = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	// LineColor is the color of pitch markings
	LineColor = color.RGBA{R: 235, G: 235, B: 235, A: 255}

	// Team1Color and Team2Color are the default team marker colors
	Team1Color = color.RGBA{R: 0, G: 191, B: 255, A: 255}  // #00BFFF
	Team2Color = color.RGBA{R: 255, G: 20, B: 147, A: 255} // #FF1493

	// trailColors is a list of colors used to paint per track trails
	trailColors = []color.RGBA{
		{R: 255, G: 56, B: 56, A: 255},   // #FF3838
		{R: 255, G: 112, B: 31, A: 255},  // #FF701F
		{R: 255, G: 178, B: 29, A: 255},  // #FFB21D
		{R: 207, G: 210, B: 49, A: 255},  // #CFD231
		{R: 72, G: 249, B: 10, A: 255},   // #48F90A
		{R: 0, G: 212, B: 187, A: 255},   // #00D4BB
		{R: 0, G: 194, B: 255, A: 255},   // #00C2FF
		{R: 100, G: 115, B: 255, A: 255}, // #6473FF
		{R: 132, G: 56, B: 255, A: 255},  // #8438FF
		{R: 255, G: 149, B: 200, A: 255}, // #FF95C8
		{R: 255, G: 55, B: 199, A: 255},  // #FF37C7
		{R: 61, G: 219, B: 134, A: 255},  // #3DDB86
	}
)

// TrackColor returns a stable color for a track id
func TrackColor(id int) color.RGBA {

	if id < 0 {
		id = -id
	}

	return trailColors[id%len(trailColors)]
}
