package composite

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidTheme is returned when a theme color is not a CSS hex color.
var ErrInvalidTheme = errors.New("invalid color theme")

// Theme is the four-color palette of a pin, as CSS hex strings.
type Theme struct {
	Band   string `json:"band" yaml:"band"`
	Text   string `json:"text" yaml:"text"`
	Accent string `json:"accent" yaml:"accent"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Palette is a Theme resolved to drawable colors.
type Palette struct {
	Band   color.Color
	Text   color.Color
	Accent color.Color
	URL    color.Color
}

// Validate reports whether every set color parses.
func (t Theme) Validate() error {
	_, err := t.Palette()
	return err
}

// Palette parses the theme. An empty URL color falls back to Text.
func (t Theme) Palette() (Palette, error) {
	var p Palette
	var err error

	if p.Band, err = parseHex("band", t.Band); err != nil {
		return Palette{}, err
	}
	if p.Text, err = parseHex("text", t.Text); err != nil {
		return Palette{}, err
	}
	if p.Accent, err = parseHex("accent", t.Accent); err != nil {
		return Palette{}, err
	}

	if t.URL == "" {
		p.URL = p.Text
		return p, nil
	}
	if p.URL, err = parseHex("url", t.URL); err != nil {
		return Palette{}, err
	}
	return p, nil
}

func parseHex(field, hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s color %q", ErrInvalidTheme, field, hex)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
