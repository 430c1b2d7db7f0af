// Package config loads pinflow settings from a YAML file and the
// environment.
//
// Environment variables:
//   - GEMINI_API_KEY or GOOGLE_API_KEY: Gemini API key
//   - PINFLOW_DB: database path (default: <user config dir>/pinflow/pinflow.db)
//   - PINFLOW_CONFIG: config file path (default: pinflow.yaml)
//
// A .env file in the working directory is read first; variables already set
// in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/composite"
)

const (
	// DefaultFile is the config file read when no path is given.
	DefaultFile = "pinflow.yaml"

	// DefaultDirPerms is the permission mode for created directories.
	DefaultDirPerms = 0o755

	// DefaultFilePerms is the permission mode for written files.
	DefaultFilePerms = 0o644
)

// Config is the CLI configuration.
type Config struct {
	Website string `yaml:"website"`

	// Preset names a built-in theme. Colors, when set, override it.
	Preset string           `yaml:"preset"`
	Colors *composite.Theme `yaml:"colors,omitempty"`

	PromptTop    string `yaml:"prompt_top"`
	PromptBottom string `yaml:"prompt_bottom"`

	Model    string `yaml:"model"`
	Database string `yaml:"database"`

	// APIKey is only read from the environment.
	APIKey string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Preset:       pinflow.Presets()[0].Name,
		PromptTop:    pinflow.DefaultPromptTop,
		PromptBottom: pinflow.DefaultPromptBottom,
		Model:        string(pinflow.ModelDefault),
		Database:     DefaultDatabasePath(),
	}
}

// DefaultDatabasePath is pinflow.db under the user config directory, or in
// the working directory when there is none.
func DefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pinflow.db"
	}
	return filepath.Join(dir, "pinflow", "pinflow.db")
}

// LoadEnv reads .env from the working directory if present.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads path over the defaults and applies environment overrides.
// A missing file at the default path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("PINFLOW_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	if _, err := cfg.Theme(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("PINFLOW_DB"); v != "" {
		c.Database = v
	}
}

// Theme resolves the configured colors.
func (c *Config) Theme() (composite.Theme, error) {
	if c.Colors != nil {
		if err := c.Colors.Validate(); err != nil {
			return composite.Theme{}, err
		}
		return *c.Colors, nil
	}

	name := c.Preset
	if name == "" {
		return pinflow.Presets()[0].Theme, nil
	}
	p, ok := pinflow.PresetByName(name)
	if !ok {
		return composite.Theme{}, fmt.Errorf("%w: unknown preset %q", composite.ErrInvalidTheme, name)
	}
	return p.Theme, nil
}

// PinConfig builds the batch input for keywords.
func (c *Config) PinConfig(keywords []string) (pinflow.PinConfig, error) {
	theme, err := c.Theme()
	if err != nil {
		return pinflow.PinConfig{}, err
	}
	return pinflow.PinConfig{
		Keywords:     keywords,
		Website:      c.Website,
		Colors:       theme,
		PromptTop:    c.PromptTop,
		PromptBottom: c.PromptBottom,
	}, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DefaultDirPerms); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, DefaultFilePerms)
}
