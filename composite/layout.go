package composite

import "strings"

// Pin geometry. The 1:2 ratio is a hard contract with everything that
// consumes a pin.
const (
	CanvasWidth  = 1000
	CanvasHeight = 2 * CanvasWidth
)

// Keyword font fitting.
const (
	BaseFontSize     = 90.0
	FontSizeStep     = 5.0
	MinFontSize      = 40.0
	MaxLines         = 3
	LineHeightFactor = 1.2
	TextWidthRatio   = 0.80
)

// Caption band.
const (
	BandPadding     = 50.0
	CaptionArea     = 60.0
	DividerLength   = 100.0
	DividerWidth    = 5.0
	DividerGap      = 10.0
	CaptionFontSize = 26.0
	CaptionNudge    = 5.0

	PlaceholderCaption = "WWW.YOURWEBSITE.COM"
)

// Layout is the text layout of one render: chosen font size, wrapped lines
// and the band geometry derived from them.
type Layout struct {
	FontSize   float64
	Lines      []string
	LineHeight float64
	BandY      float64
	BandHeight float64
}

// NewLayout derives the band geometry for lines set at fontSize. The band
// is centered on the canvas midline, so it grows in both directions.
func NewLayout(fontSize float64, lines []string) Layout {
	lineHeight := fontSize * LineHeightFactor
	block := float64(len(lines)) * lineHeight
	height := block + 2*BandPadding + CaptionArea

	return Layout{
		FontSize:   fontSize,
		Lines:      lines,
		LineHeight: lineHeight,
		BandY:      CanvasHeight/2 - height/2,
		BandHeight: height,
	}
}

// TextBlockHeight is the vertical space taken by the keyword lines.
func (l Layout) TextBlockHeight() float64 {
	return float64(len(l.Lines)) * l.LineHeight
}

// LineY returns the vertical center of line i.
func (l Layout) LineY(i int) float64 {
	center := l.BandY + BandPadding + l.TextBlockHeight()/2
	first := center - float64(len(l.Lines)-1)*l.LineHeight/2
	return first + float64(i)*l.LineHeight
}

// DividerY returns the vertical position of the accent divider.
func (l Layout) DividerY() float64 {
	return l.BandY + l.BandHeight - CaptionArea - DividerGap
}

// CaptionY returns the vertical center of the caption line.
func (l Layout) CaptionY() float64 {
	return l.BandY + l.BandHeight - CaptionArea/2 + CaptionNudge
}

// Band returns the band rectangle spanning the full canvas width.
func (l Layout) Band() Rect {
	return Rect{X: 0, Y: l.BandY, W: CanvasWidth, H: l.BandHeight}
}

// Wrap breaks text into lines no wider than maxWidth using a single greedy
// pass over space-separated words. A word joins the current line only while
// the joined width stays strictly below maxWidth; the last line is always
// emitted, so the result is never empty. A single word wider than maxWidth
// gets a line of its own and overflows.
func Wrap(m Measurer, text string, maxWidth float64) []string {
	words := strings.Split(text, " ")
	lines := make([]string, 0, len(words))
	current := words[0]

	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.MeasureText(candidate) < maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}

	return append(lines, current)
}

// Fit picks the keyword font size. It starts at BaseFontSize and shrinks by
// FontSizeStep while the wrap needs more than MaxLines lines, stopping at
// MinFontSize even if the text still does not fit.
func Fit(m Measurer, text string, maxWidth float64) (Layout, error) {
	size := BaseFontSize
	if err := m.SetFont(FontBold, size); err != nil {
		return Layout{}, err
	}
	lines := Wrap(m, text, maxWidth)

	for len(lines) > MaxLines && size > MinFontSize {
		size -= FontSizeStep
		if err := m.SetFont(FontBold, size); err != nil {
			return Layout{}, err
		}
		lines = Wrap(m, text, maxWidth)
	}

	return NewLayout(size, lines), nil
}

// Caption returns the band caption for a website label.
func Caption(website string) string {
	if website == "" {
		return PlaceholderCaption
	}
	return strings.ToUpper(website)
}
