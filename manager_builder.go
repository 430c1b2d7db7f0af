package pinflow

import (
	"log/slog"
	"time"

	"github.com/mhpenta/pinflow/composite"
	"github.com/mhpenta/pinflow/ratelimiter"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithDefaultModel sets the model used when a config names none.
func WithDefaultModel(model Model) ManagerOption {
	return func(m *Manager) {
		m.defaultModel = model
	}
}

// WithGenerateConfig sets the config used for pin photographs.
func WithGenerateConfig(cfg *GenerateConfig) ManagerOption {
	return func(m *Manager) {
		if cfg != nil {
			m.genConfig = cfg
		}
	}
}

// WithPinStore replaces the in-memory pin store.
func WithPinStore(store PinStore) ManagerOption {
	return func(m *Manager) {
		m.pins = store
	}
}

// WithCredentialStore persists repository credentials on Connect.
func WithCredentialStore(store CredentialStore) ManagerOption {
	return func(m *Manager) {
		m.credentials = store
	}
}

// WithUploader sets the repository uploader.
func WithUploader(u Uploader) ManagerOption {
	return func(m *Manager) {
		m.uploader = u
	}
}

// WithCompositor replaces the default gg-backed compositor.
func WithCompositor(c Compositor) ManagerOption {
	return func(m *Manager) {
		m.compositor = c
	}
}

// WithRateLimiter overrides the limiter of one model.
func WithRateLimiter(model Model, limiter ratelimiter.Limiter) ManagerOption {
	return func(m *Manager) {
		m.limiters[model] = limiter
	}
}

// WithClock sets the time source for pin creation times.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator sets the pin ID source.
func WithIDGenerator(newID func() string) ManagerOption {
	return func(m *Manager) {
		m.newID = newID
	}
}

// NewManager creates a Manager serving the models of gen. A nil gen is
// allowed for managers that only list, edit or publish stored pins;
// generation then fails with ErrProviderNotConfigured.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := pinflow.NewManager(gen,
//	    pinflow.WithLogger(slog.Default()),
//	    pinflow.WithUploader(githubstore.New()),
//	)
func NewManager(gen ImageGenerator, opts ...ManagerOption) *Manager {
	m := New()

	if gen != nil {
		models := gen.Models()
		for _, info := range models {
			m.RegisterModel(gen, info)
		}
		if len(models) > 0 {
			m.defaultModel = Model(models[0].Name)
		}
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.compositor == nil {
		m.compositor = composite.New(composite.WithLogger(m.logger))
	}

	return m
}
