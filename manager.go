package pinflow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhpenta/pinflow/ratelimiter"
)

const (
	ModelNanoBanana1 Model = "nano-banana-1" // Gemini 2.5 Flash Image
	ModelNanoBanana2 Model = "nano-banana-2" // Gemini 3 Pro Image

	// ModelDefault is the model pin photographs come from unless configured.
	ModelDefault = ModelNanoBanana1
)

// Provider names the backend serving a model.
type Provider string

const ProviderGeminiAPI Provider = "gemini"

// Manager drives pin production: it routes generation requests to the
// registered provider under per-model rate limits, composites the results,
// keeps pins in its PinStore and publishes them through its Uploader.
type Manager struct {
	mu sync.RWMutex

	models       map[Model]registration
	order        []Model
	providers    map[Provider]ImageGenerator
	limiters     map[Model]ratelimiter.Limiter
	defaultModel Model

	logger *slog.Logger

	// genConfig is used for the photographs of each pin.
	genConfig *GenerateConfig

	compositor  Compositor
	pins        PinStore
	uploader    Uploader
	credentials CredentialStore

	now   func() time.Time
	newID func() string
}

type registration struct {
	info ModelInfo
	gen  ImageGenerator
}

var _ ImageGenerator = (*Manager)(nil)

// New creates a Manager with no models and in-memory pin storage.
func New() *Manager {
	return &Manager{
		models:       make(map[Model]registration),
		providers:    make(map[Provider]ImageGenerator),
		limiters:     make(map[Model]ratelimiter.Limiter),
		defaultModel: ModelDefault,
		logger:       slog.Default(),
		genConfig:    DefaultConfig(),
		pins:         NewMemoryPinStore(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// RegisterModel routes info.Name to gen. A token-bucket limiter is created
// from info.Limits unless both limits are zero; SetRateLimiter overrides it.
func (m *Manager) RegisterModel(gen ImageGenerator, info ModelInfo) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	model := Model(info.Name)
	if _, ok := m.models[model]; !ok {
		m.order = append(m.order, model)
	}
	m.models[model] = registration{info: info, gen: gen}
	m.providers[info.Provider] = gen

	if info.Limits.TokensPerMinute > 0 || info.Limits.RequestsPerMinute > 0 {
		m.limiters[model] = ratelimiter.New(info.Limits.TokensPerMinute, info.Limits.RequestsPerMinute)
	}
	return m
}

// SetRateLimiter replaces the limiter of model.
func (m *Manager) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.limiters[model] = limiter
	return m
}

// SetDefaultModel sets the model used when a config names none.
func (m *Manager) SetDefaultModel(model Model) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultModel = model
	return m
}

// Pins returns the pin store.
func (m *Manager) Pins() PinStore {
	return m.pins
}

// Generate creates images from a text prompt. A nil config uses the pin
// photograph config.
func (m *Manager) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	return m.call(ctx, "generation", prompt, config,
		func(gen ImageGenerator, cfg *GenerateConfig) (*GenerateResult, error) {
			return gen.Generate(ctx, prompt, cfg)
		},
		"prompt_length", len(prompt),
	)
}

// Edit applies instruction to image.
func (m *Manager) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	return m.call(ctx, "edit", instruction, config,
		func(gen ImageGenerator, cfg *GenerateConfig) (*GenerateResult, error) {
			return gen.Edit(ctx, image, instruction, cfg)
		},
		"instruction_length", len(instruction),
		"image_size", len(image.Data),
	)
}

// GenerateBase64 produces one photograph for prompt and returns it as a
// headerless base64 payload. The prompt goes through PhotoPrompt first.
func (m *Manager) GenerateBase64(ctx context.Context, prompt string) (string, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return "", err
	}

	result, err := m.Generate(ctx, PhotoPrompt(prompt), m.genConfig)
	if err != nil {
		return "", err
	}
	img, err := result.FirstImage()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(img.Data), nil
}

// EditDataURI applies instruction to the image in uri and returns the
// edited image as a data URI, labelled image/png when the model sends no
// MIME type. The model picks the output aspect ratio.
func (m *Manager) EditDataURI(ctx context.Context, uri, instruction string) (string, error) {
	if err := ValidatePrompt(instruction); err != nil {
		return "", err
	}

	image, err := ParseInputImage(uri)
	if err != nil {
		return "", fmt.Errorf("invalid image data format: %w", err)
	}

	cfg := *m.genConfig
	cfg.AspectRatio = AspectRatioAuto

	result, err := m.Edit(ctx, image, instruction, &cfg)
	if err != nil {
		return "", err
	}
	img, err := result.FirstImage()
	if err != nil {
		return "", err
	}
	return img.DataURI("image/png"), nil
}

// Models returns the registered models in registration order.
func (m *Manager) Models() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ModelInfo, 0, len(m.order))
	for _, model := range m.order {
		out = append(out, m.models[model].info)
	}
	return out
}

// Close closes every provider. Later calls are no-ops.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for provider, gen := range m.providers {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", provider, err))
		}
	}
	clear(m.providers)
	clear(m.models)
	m.order = nil

	return errors.Join(errs...)
}

// route is a resolved model call.
type route struct {
	model   Model
	gen     ImageGenerator
	limiter ratelimiter.Limiter
	editing bool

	// config carries the provider's model name.
	config *GenerateConfig
}

func (m *Manager) call(ctx context.Context, op, text string, config *GenerateConfig,
	do func(ImageGenerator, *GenerateConfig) (*GenerateResult, error), attrs ...any) (*GenerateResult, error) {
	if config == nil {
		config = m.genConfig
	}

	start := time.Now()
	r, err := m.route(config)
	if err != nil {
		m.logger.Error(op+" failed", "model", config.Model.String(), "error", err)
		return nil, err
	}
	if op == "edit" && !r.editing {
		err := fmt.Errorf("%w: %s", ErrEditNotSupported, r.model)
		m.logger.Error(op+" failed", "model", r.model.String(), "error", err)
		return nil, err
	}
	m.logger.Debug("starting "+op, append([]any{"model", r.model.String()}, attrs...)...)

	if err := r.acquire(ctx, EstimateTokens(text)); err != nil {
		m.logger.Warn("rate limit hit", "model", r.model.String(), "op", op, "error", err)
		return nil, err
	}

	result, err := do(r.gen, r.config)
	elapsed := time.Since(start)
	if err != nil {
		m.logger.Error(op+" failed",
			"model", r.model.String(),
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	done := []any{
		"model", r.model.String(),
		"duration_ms", elapsed.Milliseconds(),
		"image_count", len(result.Images),
	}
	if u := result.Usage; u != nil {
		done = append(done, "prompt_tokens", u.PromptTokens, "output_tokens", u.OutputTokens, "total_tokens", u.TotalTokens)
	}
	m.logger.Info(op+" completed", done...)
	return result, nil
}

// route resolves config to a provider. An aspect ratio the model does not
// support is dropped with a warning.
func (m *Manager) route(config *GenerateConfig) (*route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.models) == 0 {
		return nil, ErrProviderNotConfigured
	}

	model := config.Model
	if model == "" {
		model = m.defaultModel
	}
	reg, ok := m.models[model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotRegistered, model)
	}

	cfg := *config
	cfg.Model = Model(reg.info.APIModelName)
	if !reg.info.SupportsAspectRatio(cfg.AspectRatio) {
		m.logger.Warn("aspect ratio not supported, using model default",
			"model", model.String(),
			"aspect_ratio", cfg.AspectRatio.String(),
		)
		cfg.AspectRatio = AspectRatioAuto
	}

	return &route{model: model, gen: reg.gen, limiter: m.limiters[model], editing: reg.info.Editing, config: &cfg}, nil
}

// acquire takes tokens from the route's limiter, waiting when the config
// allows it.
func (r *route) acquire(ctx context.Context, tokens int) error {
	if r.limiter == nil {
		return nil
	}

	if !r.config.WaitOnRateLimit {
		if r.limiter.TryConsume(tokens) {
			return nil
		}
		return &RateLimitError{
			RetryAfter: r.limiter.TimeUntilAvailable(tokens),
			LimitType:  "tokens",
			Model:      r.model.String(),
		}
	}

	err := r.limiter.WaitAndConsume(ctx, tokens, r.config.MaxWaitDuration)
	if errors.Is(err, ratelimiter.ErrWaitExceeded) {
		return &RateLimitError{
			RetryAfter: r.limiter.TimeUntilAvailable(tokens),
			LimitType:  "tokens",
			Model:      r.model.String(),
			Err:        err,
		}
	}
	return err
}
