package pinflow

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"slices"
	"strings"
	"testing"

	"github.com/mhpenta/pinflow/composite"
	"github.com/mhpenta/pinflow/datauri"
)

func TestGenerateBatch(t *testing.T) {
	var prompts []string
	mockGen := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			prompts = append(prompts, prompt)
			return imageResult([]byte(prompt[:3])), nil
		},
	}
	var requests []composite.Request
	comp := &MockCompositor{}
	comp.ComposeFunc = func(ctx context.Context, req composite.Request) (*composite.Image, error) {
		requests = append(requests, req)
		return &composite.Image{Data: []byte("pin:" + req.Keyword), MIMEType: "image/jpeg"}, nil
	}
	manager := newTestManager(mockGen, WithCompositor(comp))

	cfg := NewPinConfig([]string{"alpha", "beta", "gamma"}, "www.example.com")
	cfg.PromptTop = "top {keyword}"
	cfg.PromptBottom = "bottom {KEYWORD}"

	var steps []string
	report, err := manager.GenerateBatch(context.Background(), cfg, func(s State) {
		steps = append(steps, string(s.Step)+":"+s.Keyword)
	})
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}

	if len(report.Pins) != 3 || len(report.Failed) != 0 {
		t.Fatalf("report: %d pins, %d failed", len(report.Pins), len(report.Failed))
	}

	wantPrompts := []string{
		"top alpha" + PhotoSuffix, "bottom alpha" + PhotoSuffix,
		"top beta" + PhotoSuffix, "bottom beta" + PhotoSuffix,
		"top gamma" + PhotoSuffix, "bottom gamma" + PhotoSuffix,
	}
	if !slices.Equal(prompts, wantPrompts) {
		t.Errorf("prompts = %q", prompts)
	}

	wantSteps := []string{
		"image1:alpha", "image2:alpha", "compositing:alpha",
		"image1:beta", "image2:beta", "compositing:beta",
		"image1:gamma", "image2:gamma", "compositing:gamma",
		"complete:",
	}
	if !slices.Equal(steps, wantSteps) {
		t.Errorf("steps = %v", steps)
	}

	req := requests[0]
	if req.Top != b64([]byte("top")) || req.Bottom != b64([]byte("bot")) {
		t.Errorf("compositor got top=%q bottom=%q", req.Top, req.Bottom)
	}
	if req.Website != "www.example.com" || req.Theme != cfg.Colors {
		t.Errorf("compositor request = %+v", req)
	}

	live, err := manager.Pins().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var liveOrder []string
	for _, p := range live {
		liveOrder = append(liveOrder, p.Keyword)
	}
	if !slices.Equal(liveOrder, []string{"gamma", "beta", "alpha"}) {
		t.Errorf("live order = %v, want newest first", liveOrder)
	}

	first := live[2]
	if first.ID != "pin-1" || first.FinalImage != datauri.Encode("image/jpeg", []byte("pin:alpha")) {
		t.Errorf("first pin = %+v", first)
	}
	if first.Uploaded() {
		t.Error("fresh pin has an upload link")
	}

	var csv bytes.Buffer
	if err := manager.ExportCSV(context.Background(), &csv); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	want := "Focus Keyword,Image Link\n\"alpha\",\"\"\n\"beta\",\"\"\n\"gamma\",\"\""
	if csv.String() != want {
		t.Errorf("csv = %q, want %q", csv.String(), want)
	}
}

func TestGenerateBatchContinuesAfterFailure(t *testing.T) {
	boom := errors.New("model overloaded")
	mockGen := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			if strings.HasPrefix(prompt, "bottom beta") {
				return nil, boom
			}
			return imageResult([]byte("img")), nil
		},
	}
	comp := &MockCompositor{ComposeFunc: func(ctx context.Context, req composite.Request) (*composite.Image, error) {
		if req.Keyword == "gamma" {
			return nil, composite.ErrDecode
		}
		return &composite.Image{Data: []byte("ok"), MIMEType: "image/jpeg"}, nil
	}}
	manager := newTestManager(mockGen, WithCompositor(comp))

	cfg := NewPinConfig([]string{"alpha", "beta", "gamma", "delta"}, "")
	cfg.PromptTop = "top {keyword}"
	cfg.PromptBottom = "bottom {keyword}"

	var steps []Step
	var lastErr error
	report, err := manager.GenerateBatch(context.Background(), cfg, func(s State) {
		steps = append(steps, s.Step)
		if s.Step == StepError {
			lastErr = s.Err
		}
	})
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}

	var made []string
	for _, p := range report.Pins {
		made = append(made, p.Keyword)
	}
	if !slices.Equal(made, []string{"alpha", "delta"}) {
		t.Errorf("pins = %v", made)
	}

	if len(report.Failed) != 2 {
		t.Fatalf("failed = %v", report.Failed)
	}
	if f := report.Failed[0]; f.Keyword != "beta" || f.Step != StepImage2 || !errors.Is(f, boom) {
		t.Errorf("first failure = %+v", f)
	}
	if f := report.Failed[1]; f.Keyword != "gamma" || f.Step != StepCompositing || !errors.Is(f, composite.ErrDecode) {
		t.Errorf("second failure = %+v", f)
	}
	if !errors.Is(lastErr, composite.ErrDecode) {
		t.Errorf("error state carried %v", lastErr)
	}
	if steps[len(steps)-1] != StepComplete {
		t.Errorf("batch ended in %s", steps[len(steps)-1])
	}
	if n := slices.Index(steps, StepError); n < 0 || steps[n+1] != StepImage1 {
		t.Errorf("error was not followed by the next keyword: %v", steps)
	}

	live, _ := manager.Pins().List(context.Background())
	if len(live) != 2 {
		t.Errorf("stored %d pins, want 2", len(live))
	}
}

func TestGenerateBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	mockGen := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			calls++
			return imageResult([]byte("img")), nil
		},
	}
	comp := &MockCompositor{ComposeFunc: func(ctx context.Context, req composite.Request) (*composite.Image, error) {
		cancel()
		return &composite.Image{Data: []byte("ok"), MIMEType: "image/jpeg"}, nil
	}}
	manager := newTestManager(mockGen, WithCompositor(comp))

	report, err := manager.GenerateBatch(ctx, NewPinConfig([]string{"alpha", "beta"}, ""), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(report.Pins) != 1 || calls != 2 {
		t.Errorf("pins = %d, generate calls = %d", len(report.Pins), calls)
	}
}

func TestGenerateBatchCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	mockGen := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			calls++
			return imageResult([]byte("img")), nil
		},
	}
	manager := newTestManager(mockGen)

	var steps []Step
	report, err := manager.GenerateBatch(ctx, NewPinConfig([]string{"alpha"}, ""), func(s State) {
		steps = append(steps, s.Step)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 || len(report.Pins) != 0 {
		t.Errorf("generate calls = %d, pins = %d, want none", calls, len(report.Pins))
	}
	if len(steps) == 0 || steps[len(steps)-1] != StepComplete {
		t.Errorf("reported steps %v, want to end in %s", steps, StepComplete)
	}
}

func TestGenerateBatchRejectsInvalidConfig(t *testing.T) {
	manager := newTestManager(&MockImageGenerator{})
	called := false
	_, err := manager.GenerateBatch(context.Background(), NewPinConfig(nil, ""), func(State) { called = true })
	if !errors.Is(err, ErrNoKeywords) {
		t.Errorf("expected ErrNoKeywords, got %v", err)
	}
	if called {
		t.Error("progress reported for a rejected batch")
	}
}

func TestGenerateBatchRendersPins(t *testing.T) {
	if testing.Short() {
		t.Skip("renders full-size pins")
	}

	top := tinyPNG(t, color.RGBA{R: 220, G: 180, B: 140, A: 255})
	bottom := tinyPNG(t, color.RGBA{R: 60, G: 90, B: 70, A: 255})
	mockGen := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			if strings.Contains(prompt, "top down") {
				return imageResult(top), nil
			}
			return imageResult(bottom), nil
		},
	}
	manager := newTestManager(mockGen)

	report, err := manager.GenerateBatch(context.Background(), NewPinConfig([]string{"warm minimalist bedroom"}, "www.example.com"), nil)
	if err != nil || len(report.Pins) != 1 {
		t.Fatalf("GenerateBatch() = %+v, %v", report, err)
	}

	mimeType, data, err := datauri.Parse(report.Pins[0].FinalImage)
	if err != nil {
		t.Fatalf("final image is not a data uri: %v", err)
	}
	if mimeType != "image/jpeg" || len(data) == 0 {
		t.Errorf("final image %s, %d bytes", mimeType, len(data))
	}
}
