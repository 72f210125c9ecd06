package app

import (
	"log/slog"

	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/launcher"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger    *slog.Logger
	newLabels func(*config.Config) labelservice.Service
	opener    launcher.Opener
}

// WithLabelService replaces the label service constructor, e.g. with a fake in tests
func WithLabelService(fn func(*config.Config) labelservice.Service) Option {
	return func(cfg *appConfig) {
		cfg.newLabels = fn
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithOpener replaces how generated files are opened
func WithOpener(fn launcher.Opener) Option {
	return func(cfg *appConfig) {
		cfg.opener = fn
	}
}
