package pinflow

import (
	"math"
	"slices"
	"time"

	"github.com/mhpenta/pinflow/datauri"
)

// Model names an image model as registered with a Manager.
type Model string

func (m Model) String() string { return string(m) }

// AspectRatio of a generated image. AspectRatioAuto leaves it to the model.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio2x3  AspectRatio = "2:3"
	AspectRatio3x4  AspectRatio = "3:4"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatioAuto AspectRatio = ""
)

func (a AspectRatio) String() string { return string(a) }

// GenerateConfig controls a single model call.
type GenerateConfig struct {
	// Model is a registered model name. Empty selects the Manager's default.
	Model       Model
	AspectRatio AspectRatio
	Temperature *float32

	// WaitOnRateLimit blocks until the model's limiter has room, for at most
	// MaxWaitDuration (zero waits indefinitely). Otherwise a RateLimitError
	// is returned at once.
	WaitOnRateLimit bool
	MaxWaitDuration time.Duration
}

// DefaultConfig is the config of pin photographs: square images from the
// default model, waiting up to two minutes for rate-limit room.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		AspectRatio:     AspectRatio1x1,
		WaitOnRateLimit: true,
		MaxWaitDuration: 2 * time.Minute,
	}
}

// WithModel returns a copy of c using model. A nil c starts from DefaultConfig.
func (c *GenerateConfig) WithModel(model Model) *GenerateConfig {
	out := DefaultConfig()
	if c != nil {
		*out = *c
	}
	out.Model = model
	return out
}

// InputImage is an image sent to the model for editing.
type InputImage struct {
	Data     []byte
	MIMEType string
}

// ParseInputImage reads an InputImage from a data URI.
func ParseInputImage(uri string) (InputImage, error) {
	mimeType, data, err := datauri.Parse(uri)
	if err != nil {
		return InputImage{}, err
	}
	return InputImage{Data: data, MIMEType: mimeType}, nil
}

// GeneratedImage is one image part of a model response.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// DataURI encodes the image, labelling it fallback when the model sent no
// MIME type.
func (g *GeneratedImage) DataURI(fallback string) string {
	mimeType := g.MIMEType
	if mimeType == "" {
		mimeType = fallback
	}
	return datauri.Encode(mimeType, g.Data)
}

// GenerateResult is a model response.
type GenerateResult struct {
	Images []GeneratedImage
	Text   string
	Usage  *Usage
}

// Usage is the token accounting the model reported.
type Usage struct {
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

// FirstImage returns the first non-empty image. Text-only responses yield
// ErrNoImageInResult.
func (r *GenerateResult) FirstImage() (*GeneratedImage, error) {
	if r != nil {
		for i := range r.Images {
			if len(r.Images[i].Data) > 0 {
				return &r.Images[i], nil
			}
		}
	}
	return nil, ErrNoImageInResult
}

// RateLimits are a model's per-minute quotas. Zero disables a limit.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
}

// ModelInfo describes a model a provider serves.
type ModelInfo struct {
	Name         string // e.g. "nano-banana-1"
	Provider     Provider
	APIModelName string // e.g. "gemini-2.5-flash-image"

	// Editing reports whether the model accepts an input image.
	Editing bool

	AspectRatios []AspectRatio
	Limits       RateLimits
}

// SupportsAspectRatio reports whether ar may be requested. AspectRatioAuto
// always may.
func (i ModelInfo) SupportsAspectRatio(ar AspectRatio) bool {
	return ar == AspectRatioAuto || slices.Contains(i.AspectRatios, ar)
}

// promptTokenOverhead is added to every estimate for the request framing.
const promptTokenOverhead = 100

// EstimateTokens approximates the token cost of a prompt at four runes per
// token plus a 20% margin.
func EstimateTokens(prompt string) int {
	if prompt == "" {
		return promptTokenOverhead
	}
	n := float64(len([]rune(prompt))) / 4 * 1.2
	return int(math.Ceil(n)) + promptTokenOverhead
}
