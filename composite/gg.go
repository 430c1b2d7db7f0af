package composite

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// JPEGQuality is the fixed encoder quality of rendered pins.
const JPEGQuality = 95

type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &fontSet{regular: regular, bold: bold}, nil
})

type faceKey struct {
	weight FontWeight
	size   float64
}

// ggCanvas draws with fogleman/gg and freetype-rendered Go fonts.
type ggCanvas struct {
	dc    *gg.Context
	fonts *fontSet
	faces map[faceKey]font.Face
}

var _ Canvas = (*ggCanvas)(nil)

// NewGGCanvas is the default CanvasFactory.
func NewGGCanvas(width, height int) (Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &ggCanvas{
		dc:    gg.NewContext(width, height),
		fonts: fonts,
		faces: make(map[faceKey]font.Face),
	}, nil
}

func (c *ggCanvas) SetFont(weight FontWeight, size float64) error {
	if size <= 0 {
		return fmt.Errorf("invalid font size %v", size)
	}
	key := faceKey{weight: weight, size: size}
	face, ok := c.faces[key]
	if !ok {
		f := c.fonts.regular
		if weight == FontBold {
			f = c.fonts.bold
		}
		face = truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingNone})
		c.faces[key] = face
	}
	c.dc.SetFontFace(face)
	return nil
}

func (c *ggCanvas) MeasureText(text string) float64 {
	w, _ := c.dc.MeasureString(text)
	return w
}

func (c *ggCanvas) FillRect(r Rect, fill color.Color, shadow *Shadow) {
	if shadow != nil {
		c.drawShadow(r, shadow)
	}
	c.dc.SetColor(fill)
	c.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	c.dc.Fill()
}

// drawShadow blurs a copy of r on a scratch layer padded by three standard
// deviations, then composites it at the shadow offset.
func (c *ggCanvas) drawShadow(r Rect, s *Shadow) {
	sigma := s.Blur / 2
	margin := int(math.Ceil(3 * sigma))
	w := int(math.Round(r.W))
	h := int(math.Round(r.H))
	if w <= 0 || h <= 0 {
		return
	}

	layer := image.NewNRGBA(image.Rect(0, 0, w+2*margin, h+2*margin))
	draw.Draw(layer, image.Rect(margin, margin, margin+w, margin+h), image.NewUniform(s.Color), image.Point{}, draw.Src)

	var shadow image.Image = layer
	if sigma > 0 {
		shadow = imaging.Blur(layer, sigma)
	}

	x := int(math.Round(r.X+s.OffsetX)) - margin
	y := int(math.Round(r.Y+s.OffsetY)) - margin
	c.dc.DrawImage(shadow, x, y)
}

func (c *ggCanvas) DrawImage(img image.Image, r Rect) {
	w := int(math.Round(r.W))
	h := int(math.Round(r.H))
	if w <= 0 || h <= 0 {
		return
	}
	scaled := imaging.Resize(img, w, h, imaging.Lanczos)
	c.dc.DrawImage(scaled, int(math.Round(r.X)), int(math.Round(r.Y)))
}

func (c *ggCanvas) FillText(text string, x, y float64, fill color.Color) {
	c.dc.SetColor(fill)
	c.dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

func (c *ggCanvas) StrokeLine(x1, y1, x2, y2, width float64, stroke color.Color) {
	c.dc.SetColor(stroke)
	c.dc.SetLineWidth(width)
	c.dc.SetLineCap(gg.LineCapButt)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *ggCanvas) Encode(w io.Writer) (string, error) {
	if err := imaging.Encode(w, c.dc.Image(), imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", err
	}
	return "image/jpeg", nil
}
