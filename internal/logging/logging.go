package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Options controls where logs go
type Options struct {
	// Path overrides the default ~/.etiquetas/logs/etiquetas.log
	Path string
	// Verbose also writes info-level records to stderr
	Verbose bool
	// Stderr is the verbose sink; nil means os.Stderr
	Stderr io.Writer
}

// DefaultPath returns ~/.etiquetas/logs/etiquetas.log
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".etiquetas", "logs", "etiquetas.log"), nil
}

// Init initializes the logging system, writing logs to ~/.etiquetas/logs/etiquetas.log
// Uses text format for human readability. Closing the returned Closer
// restores the loggers that were active before Init.
func Init(opts Options) (io.Closer, error) {
	logPath := opts.Path
	if logPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		logPath = p
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}

	// Open log file in append mode
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	out := &sink{
		file:       file,
		prevLogger: slog.Default(),
		prevOutput: log.Writer(),
		prevFlags:  log.Flags(),
	}

	// Create text handler (human readable)
	var handler slog.Handler = slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	if opts.Verbose {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		handler = teeHandler{
			handler,
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		}
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output (used by excelize) to the same file
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags) // Include timestamp

	return out, nil
}

// sink is the open log file and what Init replaced
type sink struct {
	file       *os.File
	prevLogger *slog.Logger
	prevOutput io.Writer
	prevFlags  int
}

// Close points slog and log back at their previous outputs, then closes the file
func (s *sink) Close() error {
	Logger = s.prevLogger
	slog.SetDefault(s.prevLogger)
	log.SetOutput(s.prevOutput)
	log.SetFlags(s.prevFlags)
	return s.file.Close()
}

// Discard installs a logger that drops everything. Used by tests and --quiet runs
// that never called Init.
func Discard() {
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(Logger)
}

// teeHandler fans every record out to several handlers
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
