package pinflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhpenta/pinflow/composite"
)

// KeywordError records why one keyword of a batch or upload pass failed.
type KeywordError struct {
	Keyword string
	Step    Step
	Err     error
}

func (e *KeywordError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s (%s): %v", e.Keyword, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Keyword, e.Err)
}

func (e *KeywordError) Unwrap() error {
	return e.Err
}

// BatchReport summarises a GenerateBatch run.
type BatchReport struct {
	// Pins holds the pins produced, in keyword order.
	Pins   []*Pin
	Failed []*KeywordError

	Duration time.Duration
}

// progress drives the State machine and reports every change.
type progress struct {
	state   State
	onState func(State)
	logger  *slog.Logger
}

func (p *progress) to(step Step) {
	next, err := p.state.Advance(step)
	if err != nil {
		p.logger.Error("progress transition rejected", "error", err.Error())
		return
	}
	p.state = next
	if p.onState != nil {
		p.onState(next)
	}
}

func (p *progress) fail(err error) {
	p.state.Err = err
	p.to(StepError)
}

// GenerateBatch produces one pin per keyword of cfg, strictly in order.
// Each pin is added to the front of the pin store as soon as it is done.
// A failing keyword is logged, reported in BatchReport.Failed and skipped;
// the batch carries on with the next keyword. Cancelling ctx stops the batch
// before the next keyword and returns the partial report with ctx's error.
func (m *Manager) GenerateBatch(ctx context.Context, cfg PinConfig, onState func(State)) (*BatchReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	total := len(cfg.Keywords)
	report := &BatchReport{}
	p := &progress{state: State{Step: StepIdle}, onState: onState, logger: m.logger}

	m.logger.Info("starting batch", "keywords", total)

	var stopErr error
	for i, keyword := range cfg.Keywords {
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}

		p.state.Keyword = keyword
		p.state.Current = i + 1
		p.state.Total = total

		pin, err := m.generatePin(ctx, cfg, keyword, p)
		if err != nil {
			kerr := &KeywordError{Keyword: keyword, Step: p.state.Step, Err: err}
			m.logger.Error("pin generation failed",
				"keyword", keyword,
				"step", string(kerr.Step),
				"error", err.Error(),
			)
			report.Failed = append(report.Failed, kerr)
			p.fail(err)
			continue
		}
		report.Pins = append(report.Pins, pin)
	}

	p.to(StepComplete)
	report.Duration = time.Since(start)

	m.logger.Info("batch completed",
		"generated", len(report.Pins),
		"failed", len(report.Failed),
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, stopErr
}

// generatePin runs the image1, image2 and compositing steps for keyword.
func (m *Manager) generatePin(ctx context.Context, cfg PinConfig, keyword string, p *progress) (*Pin, error) {
	p.to(StepImage1)
	image1, err := m.GenerateBase64(ctx, ExpandPrompt(cfg.PromptTop, keyword))
	if err != nil {
		return nil, fmt.Errorf("top image: %w", err)
	}

	p.to(StepImage2)
	image2, err := m.GenerateBase64(ctx, ExpandPrompt(cfg.PromptBottom, keyword))
	if err != nil {
		return nil, fmt.Errorf("bottom image: %w", err)
	}

	p.to(StepCompositing)
	img, err := m.compositor.Compose(ctx, composite.Request{
		Top:     image1,
		Bottom:  image2,
		Keyword: keyword,
		Website: cfg.Website,
		Theme:   cfg.Colors,
	})
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}

	pin := &Pin{
		ID:         m.newID(),
		Keyword:    keyword,
		Website:    cfg.Website,
		Image1:     image1,
		Image2:     image2,
		FinalImage: img.DataURI(),
		CreatedAt:  m.now(),
	}
	if err := m.pins.Add(ctx, pin); err != nil {
		return nil, fmt.Errorf("store pin: %w", err)
	}
	return pin, nil
}

// Clear removes every stored pin.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.pins.Clear(ctx); err != nil {
		return err
	}
	m.logger.Info("pins cleared")
	return nil
}
