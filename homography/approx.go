package homography

import "github.com/swdee/go-tactical/pitch"

// DefaultMinSpread is the fraction of the frame width the keypoints must
// span, horizontally or vertically, for a homography to be considered
// reliable
const DefaultMinSpread = 0.3

// Viable reports whether the image points are spread widely enough across
// a frame of the given width to constrain a homography.  Four keypoints
// bunched in one corner of the frame produce wildly unstable projections
// elsewhere on the pitch.
func Viable(image []pitch.Point, frameWidth int, minSpread float64) bool {

	if len(image) < MinCorrespondences {
		return false
	}

	minX, maxX := image[0].X, image[0].X
	minY, maxY := image[0].Y, image[0].Y

	for _, p := range image[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	spread := float64(frameWidth) * minSpread

	return maxX-minX > spread || maxY-minY > spread
}

// FullField returns a transformer which assumes the frame shows the entire
// pitch, mapping the image corners onto the pitch corners.  It is a coarse
// fallback for footage where keypoints can not be detected.
func FullField(width, height int) (*Transformer, error) {

	w, h := float64(width), float64(height)

	source := []pitch.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	target := []pitch.Point{
		{X: 0, Y: 0},
		{X: pitch.Length, Y: 0},
		{X: pitch.Length, Y: pitch.Width},
		{X: 0, Y: pitch.Width},
	}

	return New(source, target)
}

// FootPoint returns the ground contact point of a player bounding box given
// as x1, y1, x2, y2: the horizontal midpoint of the bottom edge
func FootPoint(box [4]float64) pitch.Point {
	return pitch.Point{
		X: (box[0] + box[2]) / 2,
		Y: box[3],
	}
}
