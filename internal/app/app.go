package app

import (
	"context"
	"log/slog"

	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/launcher"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

// App holds the loaded configuration and builds services from it.
// This is the main application container shared by every command.
type App struct {
	// Config is the configuration loaded at startup, before flag overrides
	Config *config.Config

	logger    *slog.Logger
	newLabels func(*config.Config) labelservice.Service
	opener    launcher.Opener
}

// New creates a new App for the given configuration
func New(cfg *config.Config, opts ...Option) *App {
	ac := &appConfig{
		logger:    slog.Default(),
		newLabels: labelservice.NewService,
		opener:    launcher.Open,
	}
	for _, opt := range opts {
		opt(ac)
	}

	if cfg == nil {
		cfg = config.Default()
	}

	return &App{
		Config:    cfg,
		logger:    ac.logger,
		newLabels: ac.newLabels,
		opener:    ac.opener,
	}
}

// Labels returns the label service bound to cfg, which is usually a copy
// of Config with command-line overrides applied
func (a *App) Labels(cfg *config.Config) labelservice.Service {
	if cfg == nil {
		cfg = a.Config
	}
	return a.newLabels(cfg)
}

// Open shows a generated file in the desktop viewer
func (a *App) Open(ctx context.Context, path string) error {
	return a.opener(ctx, path)
}

// Logger returns the application logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close performs cleanup of application resources.
// Nothing is held open yet.
func (a *App) Close() error {
	return nil
}
