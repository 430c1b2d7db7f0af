// Package composite renders a pin: two photographs stacked into a 1:2
// canvas with a shadowed caption band across the midline carrying the
// keyword, an accent divider and the website caption.
package composite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mhpenta/pinflow/datauri"
)

var (
	// ErrDecode is returned when a source photograph cannot be decoded.
	ErrDecode = errors.New("image decode failed")

	// ErrSurface is returned when no canvas could be acquired.
	ErrSurface = errors.New("render surface unavailable")
)

// BandShadow is the drop shadow cast by the caption band.
var BandShadow = Shadow{
	Color:   color.NRGBA{A: 0x80},
	Blur:    60,
	OffsetY: 15,
}

// Request holds everything needed to render one pin.
type Request struct {
	// Top and Bottom are base64 image payloads. A data URI header is tolerated.
	Top    string
	Bottom string

	Keyword string
	Website string
	Theme   Theme
}

// Image is an encoded render.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURI returns the image as a self-describing data URI.
func (i *Image) DataURI() string {
	return datauri.Encode(i.MIMEType, i.Data)
}

// Compositor renders pins onto canvases from its factory.
type Compositor struct {
	newCanvas CanvasFactory
	logger    *slog.Logger
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithCanvasFactory replaces the default gg-backed canvas.
func WithCanvasFactory(f CanvasFactory) Option {
	return func(c *Compositor) {
		c.newCanvas = f
	}
}

// WithLogger sets a structured logger for the compositor.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compositor) {
		c.logger = logger
	}
}

// New creates a Compositor.
func New(opts ...Option) *Compositor {
	c := &Compositor{
		newCanvas: NewGGCanvas,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders req. Either both photographs decode and a complete image
// is returned, or an error is returned and nothing is drawn.
func (c *Compositor) Compose(ctx context.Context, req Request) (*Image, error) {
	start := time.Now()

	palette, err := req.Theme.Palette()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("starting composite",
		"keyword", req.Keyword,
		"top_length", len(req.Top),
		"bottom_length", len(req.Bottom),
	)

	top, bottom, err := decodePair(ctx, req.Top, req.Bottom)
	if err != nil {
		c.logger.Error("composite decode failed",
			"keyword", req.Keyword,
			"error", err.Error(),
		)
		return nil, err
	}

	cv, err := c.newCanvas(CanvasWidth, CanvasHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurface, err)
	}

	const (
		width = float64(CanvasWidth)
		half  = float64(CanvasHeight) / 2
	)

	cv.FillRect(Rect{W: width, H: CanvasHeight}, color.White, nil)
	cv.DrawImage(top, Rect{W: width, H: half})
	cv.DrawImage(bottom, Rect{Y: half, W: width, H: half})

	layout, err := Fit(cv, strings.ToUpper(req.Keyword), width*TextWidthRatio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurface, err)
	}

	shadow := BandShadow
	cv.FillRect(layout.Band(), palette.Band, &shadow)

	if err := cv.SetFont(FontBold, layout.FontSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurface, err)
	}
	for i, line := range layout.Lines {
		cv.FillText(line, width/2, layout.LineY(i), palette.Text)
	}

	dividerY := layout.DividerY()
	cv.StrokeLine(width/2-DividerLength/2, dividerY, width/2+DividerLength/2, dividerY, DividerWidth, palette.Accent)

	if err := cv.SetFont(FontRegular, CaptionFontSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurface, err)
	}
	cv.FillText(Caption(req.Website), width/2, layout.CaptionY(), palette.URL)

	var buf bytes.Buffer
	mimeType, err := cv.Encode(&buf)
	if err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}

	c.logger.Info("composite completed",
		"keyword", req.Keyword,
		"font_size", layout.FontSize,
		"lines", len(layout.Lines),
		"size", humanize.Bytes(uint64(buf.Len())),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Image{Data: buf.Bytes(), MIMEType: mimeType}, nil
}
