package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/composite"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PINFLOW_CONFIG", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("PINFLOW_DB", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PromptTop != pinflow.DefaultPromptTop || cfg.Model != string(pinflow.ModelDefault) {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.APIKey != "google-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	theme, _ := cfg.Theme()
	if theme != pinflow.Presets()[0].Theme {
		t.Errorf("Theme() = %+v", theme)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pins.yaml")
	yaml := `
website: www.example.com
preset: warm boho
prompt_top: "flat lay of {keyword}"
database: /tmp/custom.db
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("PINFLOW_DB", "/tmp/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Website != "www.example.com" || cfg.PromptTop != "flat lay of {keyword}" {
		t.Errorf("file values not read: %+v", cfg)
	}
	if cfg.PromptBottom != pinflow.DefaultPromptBottom {
		t.Errorf("unset prompt lost its default: %q", cfg.PromptBottom)
	}
	if cfg.Database != "/tmp/env.db" || cfg.APIKey != "gemini-key" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	pc, err := cfg.PinConfig([]string{"cozy loft"})
	if err != nil {
		t.Fatalf("PinConfig() error = %v", err)
	}
	if pc.Colors.Band != "#fdf6e3" || pc.Website != "www.example.com" {
		t.Errorf("PinConfig() = %+v", pc)
	}
	if err := pc.Validate(); err != nil {
		t.Errorf("built config invalid: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("preset: neon\n"), 0o644)
	if _, err := Load(bad); !errors.Is(err, composite.ErrInvalidTheme) {
		t.Errorf("unknown preset error = %v", err)
	}

	broken := filepath.Join(dir, "broken.yaml")
	os.WriteFile(broken, []byte("website: [unterminated\n"), 0o644)
	if _, err := Load(broken); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestCustomColorsOverridePreset(t *testing.T) {
	cfg := Default()
	cfg.Colors = &composite.Theme{Band: "#000", Text: "#fff", Accent: "#f00"}
	theme, err := cfg.Theme()
	if err != nil || theme.Band != "#000" {
		t.Errorf("Theme() = %+v, %v", theme, err)
	}

	cfg.Colors.Text = "white"
	if _, err := cfg.Theme(); !errors.Is(err, composite.ErrInvalidTheme) {
		t.Errorf("invalid custom color error = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pinflow.yaml")
	cfg := Default()
	cfg.Website = "www.example.com"
	cfg.APIKey = "secret"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) == "" || strings.Contains(string(data), "secret") {
		t.Errorf("saved config = %q", data)
	}

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("PINFLOW_DB", "")
	got, err := Load(path)
	if err != nil || got.Website != "www.example.com" {
		t.Errorf("Load() = %+v, %v", got, err)
	}
}
