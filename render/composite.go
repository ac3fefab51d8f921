package render

import (
	"fmt"
	"image"
	"math"
	"strings"

	"gocv.io/x/gocv"
)

// Placement selects where the radar is composited on the frame
type Placement string

const (
	// PlaceBottom centres the radar horizontally, Margin above the bottom
	PlaceBottom Placement = "bottom"
	// PlaceCenter centres the radar on the frame
	PlaceCenter Placement = "center"
	// PlaceTopRight puts the radar Margin in from the top right corner
	PlaceTopRight Placement = "top-right"
	// PlaceCustom puts the radar's top left corner at Offset
	PlaceCustom Placement = "custom"
)

// ParsePlacement converts a configuration string into a Placement
func ParsePlacement(s string) (Placement, error) {

	switch p := Placement(strings.ToLower(strings.TrimSpace(s))); p {
	case PlaceBottom, PlaceCenter, PlaceTopRight, PlaceCustom:
		return p, nil
	}

	return "", fmt.Errorf("invalid radar placement %q", s)
}

// OverlayParams defines how the radar is composited on a frame
type OverlayParams struct {
	Placement Placement
	// WidthFraction is the radar width as a fraction of the frame width,
	// the height follows the radar aspect ratio
	WidthFraction float64
	// Alpha is the radar opacity, 1 fully replaces the frame pixels
	Alpha float64
	// Margin in pixels from the frame edge for edge placements
	Margin int
	// Offset is the top left corner used by PlaceCustom
	Offset image.Point
}

// OverlayDefaultParams returns default compositing settings
func OverlayDefaultParams() OverlayParams {
	return OverlayParams{
		Placement:     PlaceBottom,
		WidthFraction: 0.35,
		Alpha:         0.65,
		Margin:        20,
	}
}

// OverlayRect returns the destination rectangle of a radar of radarSize
// composited on a frame of frameSize
func OverlayRect(frameSize, radarSize image.Point, params OverlayParams) image.Rectangle {

	if radarSize.X <= 0 || radarSize.Y <= 0 {
		return image.Rectangle{}
	}

	w := int(math.Round(float64(frameSize.X) * params.WidthFraction))
	h := int(math.Round(float64(w) * float64(radarSize.Y) / float64(radarSize.X)))

	var origin image.Point

	switch params.Placement {
	case PlaceCenter:
		origin = image.Pt((frameSize.X-w)/2, (frameSize.Y-h)/2)
	case PlaceTopRight:
		origin = image.Pt(frameSize.X-w-params.Margin, params.Margin)
	case PlaceCustom:
		origin = params.Offset
	case PlaceBottom:
		fallthrough
	default:
		origin = image.Pt((frameSize.X-w)/2, frameSize.Y-h-params.Margin)
	}

	return image.Rect(origin.X, origin.Y, origin.X+w, origin.Y+h)
}

// Overlay alpha blends the radar onto dst.  When the destination rectangle
// is empty or does not fit entirely inside dst nothing is drawn and false
// is returned.
func Overlay(dst *gocv.Mat, radar gocv.Mat, params OverlayParams) bool {

	if dst.Empty() || radar.Empty() {
		return false
	}

	frameRect := image.Rect(0, 0, dst.Cols(), dst.Rows())
	rect := OverlayRect(frameRect.Max, image.Pt(radar.Cols(), radar.Rows()), params)

	if rect.Empty() || !rect.In(frameRect) {
		return false
	}

	resized := gocv.NewMat()
	defer resized.Close()

	gocv.Resize(radar, &resized, rect.Size(), 0, 0, gocv.InterpolationArea)

	roi := dst.Region(rect)
	defer roi.Close()

	alpha := clamp01(params.Alpha)
	gocv.AddWeighted(resized, alpha, roi, 1-alpha, 0, &roi)

	return true
}

// clamp01 limits v to [0,1]
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
