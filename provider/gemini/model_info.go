package gemini

import "github.com/mhpenta/pinflow"

// API model names.
const (
	APIModelNanoBanana1 = "gemini-2.5-flash-image"
	APIModelNanoBanana2 = "gemini-3-pro-image-preview"
)

var aspectRatios = []pinflow.AspectRatio{
	pinflow.AspectRatio1x1,
	pinflow.AspectRatio2x3,
	pinflow.AspectRatio3x4,
	pinflow.AspectRatio9x16,
}

// NanoBanana1Info is Gemini 2.5 Flash Image, the model pin photographs and
// edits use by default. Limits are the Tier 1 quotas.
var NanoBanana1Info = pinflow.ModelInfo{
	Name:         string(pinflow.ModelNanoBanana1),
	Provider:     pinflow.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana1,
	Editing:      true,
	AspectRatios: aspectRatios,
	Limits:       pinflow.RateLimits{TokensPerMinute: 4_000_000, RequestsPerMinute: 500},
}

// NanoBanana2Info is Gemini 3 Pro Image.
var NanoBanana2Info = pinflow.ModelInfo{
	Name:         string(pinflow.ModelNanoBanana2),
	Provider:     pinflow.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana2,
	Editing:      true,
	AspectRatios: aspectRatios,
	Limits:       pinflow.RateLimits{TokensPerMinute: 4_000_000, RequestsPerMinute: 360},
}
