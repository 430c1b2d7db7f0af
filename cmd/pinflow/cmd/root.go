package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhpenta/pinflow"
	"github.com/mhpenta/pinflow/config"
	"github.com/mhpenta/pinflow/provider/gemini"
	"github.com/mhpenta/pinflow/storage/githubstore"
	"github.com/mhpenta/pinflow/storage/sqlite"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

// RegisterFlags adds the global flags to root.
func RegisterFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default pinflow.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

// Setup loads .env and the config file and installs the logger.
func Setup(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.LoadEnv(); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// app is a Manager over the local database.
type app struct {
	*pinflow.Manager
	store *sqlite.Store
}

func (a *app) Close() error {
	return errors.Join(a.Manager.Close(), a.store.Close())
}

// openApp opens the database and builds a Manager. The Gemini client is
// only created when withGenerator is set.
func openApp(ctx context.Context, withGenerator bool) (*app, error) {
	store, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	var gen pinflow.ImageGenerator
	if withGenerator {
		if cfg.APIKey == "" {
			store.Close()
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		g, err := gemini.NewWithAPIKey(ctx, cfg.APIKey)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		gen = g
	}

	model := pinflow.Model(cfg.Model)
	manager := pinflow.NewManager(gen,
		pinflow.WithLogger(logger),
		pinflow.WithDefaultModel(model),
		pinflow.WithGenerateConfig(pinflow.DefaultConfig().WithModel(model)),
		pinflow.WithPinStore(store.Pins()),
		pinflow.WithCredentialStore(store.Credentials()),
		pinflow.WithUploader(githubstore.New(githubstore.WithLogger(logger))),
	)

	return &app{Manager: manager, store: store}, nil
}
