package pinflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mhpenta/pinflow/composite"
)

// MockImageGenerator is a mock implementation of ImageGenerator.
type MockImageGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error)
	EditFunc     func(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error)
	ModelsFunc   func() []ModelInfo
	CloseFunc    func() error
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, image, instruction, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{testModel}
}

func (m *MockImageGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var testModel = ModelInfo{
	Name:         "test-model",
	Provider:     "test-provider",
	APIModelName: "test-model-api",
	Editing:      true,
	AspectRatios: []AspectRatio{AspectRatio1x1},
}

// MockUploader is a mock implementation of Uploader.
type MockUploader struct {
	VerifyFunc func(ctx context.Context, creds RepoCredentials) (bool, error)
	UploadFunc func(ctx context.Context, dataURI, filename string, creds RepoCredentials) (string, error)

	mu        sync.Mutex
	Filenames []string
}

func (m *MockUploader) Verify(ctx context.Context, creds RepoCredentials) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, creds)
	}
	return true, nil
}

func (m *MockUploader) Upload(ctx context.Context, dataURI, filename string, creds RepoCredentials) (string, error) {
	m.mu.Lock()
	m.Filenames = append(m.Filenames, filename)
	m.mu.Unlock()

	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, dataURI, filename, creds)
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/main/pins/%s", creds.Username, creds.Repo, filename), nil
}

// MockCompositor is a mock implementation of Compositor.
type MockCompositor struct {
	ComposeFunc func(ctx context.Context, req composite.Request) (*composite.Image, error)
}

func (m *MockCompositor) Compose(ctx context.Context, req composite.Request) (*composite.Image, error) {
	if m.ComposeFunc != nil {
		return m.ComposeFunc(ctx, req)
	}
	return &composite.Image{Data: []byte("pin:" + req.Keyword), MIMEType: "image/jpeg"}, nil
}

var testCreds = RepoCredentials{Username: "alice", Repo: "pins-cdn", Token: "ghp_test"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var (
		mu sync.Mutex
		t  = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// sequentialIDs returns pin-1, pin-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("pin-%d", n)
	}
}

func tinyPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func imageResult(data []byte) *GenerateResult {
	return &GenerateResult{Images: []GeneratedImage{{Data: data, MIMEType: "image/png"}}}
}

func newTestManager(gen ImageGenerator, opts ...ManagerOption) *Manager {
	base := []ManagerOption{
		WithLogger(discardLogger()),
		WithClock(stepClock()),
		WithIDGenerator(sequentialIDs()),
	}
	return NewManager(gen, append(base, opts...)...)
}

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
