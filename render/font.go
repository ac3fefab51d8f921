package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of the text relative to its anchor point
	Alignment Alignment
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   4,
		RightPad:  4,
		TopPad:    4,
		BottomPad: 6,
		Alignment: Left,
	}
}

// Label draws text on a filled background box.  The anchor is the bottom
// edge of the box, horizontally placed according to the font alignment.
func Label(img *gocv.Mat, text string, anchor image.Point, bg color.RGBA, font Font) {

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	var left int

	switch font.Alignment {
	case Center:
		left = anchor.X - textSize.X/2
	case Right:
		left = anchor.X - textSize.X - font.RightPad
	case Left:
		fallthrough
	default:
		left = anchor.X + font.LeftPad
	}

	box := image.Rect(left-font.LeftPad, anchor.Y-textSize.Y-font.TopPad-font.BottomPad,
		left+textSize.X+font.RightPad, anchor.Y)

	gocv.Rectangle(img, box, bg, -1)

	gocv.PutTextWithParams(img, text, image.Pt(left, anchor.Y-font.BottomPad),
		font.Face, font.Scale, font.Color, font.Thickness, font.LineType, false)
}
