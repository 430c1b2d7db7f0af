package composite

import (
	"image"
	"image/color"
	"io"
)

// FontWeight selects one of the two faces the compositor draws with.
type FontWeight int

const (
	FontRegular FontWeight = iota
	FontBold
)

func (w FontWeight) String() string {
	if w == FontBold {
		return "bold"
	}
	return "regular"
}

// Rect is an axis-aligned rectangle in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Shadow describes a soft drop shadow cast beneath a filled shape.
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Measurer is the text-measurement half of a Canvas. Layout code only
// depends on this, so it can be driven by a deterministic fake.
type Measurer interface {
	// SetFont selects the face used by subsequent MeasureText and FillText calls.
	SetFont(weight FontWeight, size float64) error

	// MeasureText returns the advance width of text in the current font.
	MeasureText(text string) float64
}

// Canvas is the raster surface a pin is drawn onto.
type Canvas interface {
	Measurer

	// FillRect fills r with c. A non-nil shadow is rendered beneath it.
	FillRect(r Rect, c color.Color, shadow *Shadow)

	// DrawImage draws img stretched to exactly cover r, ignoring its aspect ratio.
	DrawImage(img image.Image, r Rect)

	// FillText draws text centered horizontally on x and vertically on y.
	FillText(text string, x, y float64, c color.Color)

	// StrokeLine strokes a straight line with butt caps.
	StrokeLine(x1, y1, x2, y2, width float64, c color.Color)

	// Encode writes the canvas in its output format and returns that format's MIME type.
	Encode(w io.Writer) (string, error)
}

// CanvasFactory acquires a blank canvas of the given pixel size.
type CanvasFactory func(width, height int) (Canvas, error)
