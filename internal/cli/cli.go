package cli

import (
	"io"
	"os"

	"github.com/thenoetrevino/etiquetas/internal/app"
	"github.com/thenoetrevino/etiquetas/internal/config"
)

// CLI represents the CLI application context
type CLI struct {
	App        *app.App // Application container with services
	ConfigPath string   // file the config was loaded from, may not exist

	Out io.Writer
	Err io.Writer
	In  io.Reader
}

// NewCLI wraps a loaded configuration for the commands
func NewCLI(cfg *config.Config, configPath string, opts ...app.Option) *CLI {
	return &CLI{
		App:        app.New(cfg, opts...),
		ConfigPath: configPath,
		Out:        os.Stdout,
		Err:        os.Stderr,
		In:         os.Stdin,
	}
}

// Config returns a copy of the loaded configuration that a command may
// override with its flags
func (c *CLI) Config() *config.Config {
	cfg := *c.App.Config
	return &cfg
}

// Formatter returns an output formatter writing to the CLI's streams
func (c *CLI) Formatter(jsonOutput, quiet bool) *OutputFormatter {
	return &OutputFormatter{JSON: jsonOutput, Quiet: quiet, Out: c.Out, Err: c.Err}
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	return c.App.Close()
}
