// Package gemini generates and edits pin photographs with Google's Gemini
// image models through the Gemini API backend of google.golang.org/genai.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/mhpenta/pinflow"
)

// ErrEmptyResponse is returned when the model sends no candidates.
var ErrEmptyResponse = errors.New("empty response from model")

// quotaRetryAfter is reported for 429s; the API does not send Retry-After
// reliably.
const quotaRetryAfter = 60 * time.Second

// Generator is a pinflow.ImageGenerator backed by the Gemini API.
type Generator struct {
	client *genai.Client
}

var _ pinflow.ImageGenerator = (*Generator)(nil)

// Config configures the Gemini client.
type Config struct {
	// APIKey authenticates requests. When empty the SDK reads GOOGLE_API_KEY
	// or GEMINI_API_KEY.
	APIKey string

	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Generator.
func New(ctx context.Context, config *Config) (*Generator, error) {
	if config == nil {
		config = &Config{}
	}

	cc := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		APIKey:     config.APIKey,
		HTTPClient: config.HTTPClient,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Generator{client: client}, nil
}

// NewWithAPIKey creates a Generator for apiKey.
func NewWithAPIKey(ctx context.Context, apiKey string) (*Generator, error) {
	return New(ctx, &Config{APIKey: apiKey})
}

// Generate sends prompt as a single text part.
func (g *Generator) Generate(ctx context.Context, prompt string, config *pinflow.GenerateConfig) (*pinflow.GenerateResult, error) {
	if err := pinflow.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	return g.send(ctx, "generation", config, &genai.Part{Text: prompt})
}

// Edit sends image inline followed by the instruction.
func (g *Generator) Edit(ctx context.Context, image pinflow.InputImage, instruction string, config *pinflow.GenerateConfig) (*pinflow.GenerateResult, error) {
	if err := pinflow.ValidatePrompt(instruction); err != nil {
		return nil, err
	}
	if err := pinflow.ValidateInputImage(image); err != nil {
		return nil, err
	}
	return g.send(ctx, "edit", config,
		&genai.Part{InlineData: &genai.Blob{Data: image.Data, MIMEType: image.MIMEType}},
		&genai.Part{Text: instruction},
	)
}

func (g *Generator) send(ctx context.Context, op string, config *pinflow.GenerateConfig, parts ...*genai.Part) (*pinflow.GenerateResult, error) {
	if config == nil {
		config = pinflow.DefaultConfig()
	}
	model := g.resolveModel(config)

	contents := []*genai.Content{{Parts: parts}}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, buildGenerateContentConfig(config))
	if err != nil {
		if rlErr := checkRateLimitError(err, model); rlErr != nil {
			return nil, rlErr
		}
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	return parseResult(resp)
}

// Models lists the served models. The first is the default.
func (g *Generator) Models() []pinflow.ModelInfo {
	return []pinflow.ModelInfo{NanoBanana1Info, NanoBanana2Info}
}

// Close is a no-op; genai clients hold no resources.
func (g *Generator) Close() error {
	return nil
}

// resolveModel returns the API model name of config, the default model
// when config names none.
func (g *Generator) resolveModel(config *pinflow.GenerateConfig) string {
	if config != nil && config.Model != "" {
		return config.Model.String()
	}
	return APIModelNanoBanana1
}

func buildGenerateContentConfig(config *pinflow.GenerateConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if config.AspectRatio != pinflow.AspectRatioAuto {
		out.ImageConfig = &genai.ImageConfig{AspectRatio: config.AspectRatio.String()}
	}
	if config.Temperature != nil {
		out.Temperature = genai.Ptr(*config.Temperature)
	}
	return out
}

// parseResult collects the inline images and text of every candidate.
// Thought parts are skipped.
func parseResult(resp *genai.GenerateContentResponse) (*pinflow.GenerateResult, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	result := &pinflow.GenerateResult{}
	var text strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			switch {
			case part.Thought:
			case part.InlineData != nil && len(part.InlineData.Data) > 0:
				result.Images = append(result.Images, pinflow.GeneratedImage{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				})
			case part.Text != "":
				text.WriteString(part.Text)
			}
		}
	}
	result.Text = text.String()

	if u := resp.UsageMetadata; u != nil {
		result.Usage = &pinflow.Usage{
			PromptTokens: int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return result, nil
}

// checkRateLimitError wraps a 429 or RESOURCE_EXHAUSTED API error in a
// RateLimitError. Any other error yields nil.
func checkRateLimitError(err error, model string) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	if apiErr.Code != http.StatusTooManyRequests && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return nil
	}
	return &pinflow.RateLimitError{
		RetryAfter: quotaRetryAfter,
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
