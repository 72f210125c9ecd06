package configure

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/cli/handler"
	"github.com/thenoetrevino/etiquetas/internal/cli/styles"
	"github.com/thenoetrevino/etiquetas/internal/config"
)

// AnnotationTolerant marks commands that still run when the config file
// cannot be loaded, using the defaults instead
const AnnotationTolerant = "etiquetas/tolerant-config"

// ConfigCmd returns the config parent command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		Annotations: map[string]string{
			AnnotationTolerant: "true",
		},
	}

	cmd.AddCommand(InitCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(PathCmd())

	return cmd
}

// InitCmd returns the config init subcommand
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write the default settings to the config file so they can be edited.

Examples:
  etiquetas config init
  etiquetas --config ./tienda.yaml config init --force
`,
		Args: cobra.NoArgs,
		RunE: handler.SimpleCommand(handler.HandlerFunc(runInit)),
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (path only)")

	return cmd
}

// ShowCmd returns the config show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  handler.SimpleCommand(handler.HandlerFunc(runShow)),
	}

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (YAML only)")

	return cmd
}

// PathCmd returns the config path subcommand
func PathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print where the config file is read from",
		Args:  cobra.NoArgs,
		RunE:  handler.SimpleCommand(handler.HandlerFunc(runPath)),
	}

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (path only)")

	return cmd
}

func configPath(c *cli.CLI) (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	return config.Path()
}

func runInit(ctx context.Context, args *handler.Arguments) (any, error) {
	path, err := configPath(args.CLI)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil && !args.GetBool("force") {
		return nil, fmt.Errorf("%w: %s already exists (use --force to overwrite)", cli.ErrUsage, path)
	}

	written, err := config.Default().Save(path)
	if err != nil {
		return nil, err
	}
	return &PathOutput{Path: written, Exists: true, Created: true}, nil
}

func runShow(ctx context.Context, args *handler.Arguments) (any, error) {
	data, err := args.CLI.App.Config.Marshal()
	if err != nil {
		return nil, err
	}
	path, _ := configPath(args.CLI)
	return &ShowOutput{Path: path, YAML: string(data), Config: args.CLI.App.Config}, nil
}

func runPath(ctx context.Context, args *handler.Arguments) (any, error) {
	path, err := configPath(args.CLI)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return &PathOutput{Path: path, Exists: statErr == nil}, nil
}

// PathOutput is what init and path print
type PathOutput struct {
	Path    string `json:"path"`
	Exists  bool   `json:"exists"`
	Created bool   `json:"created,omitempty"`
}

// QuietString returns the path
func (o *PathOutput) QuietString() string { return o.Path }

// Present renders the path and whether the file exists
func (o *PathOutput) Present() string {
	switch {
	case o.Created:
		return styles.SuccessStyle.Render("✓ Config written") + "\n" + styles.RenderField("Path", o.Path)
	case o.Exists:
		return styles.RenderField("Path", o.Path)
	default:
		return styles.RenderField("Path", o.Path) + "\n" +
			styles.SubtitleStyle.Render("not created yet, defaults are in use (run 'etiquetas config init')")
	}
}

// ShowOutput is what show prints
type ShowOutput struct {
	Path   string         `json:"path"`
	YAML   string         `json:"-"`
	Config *config.Config `json:"config"`
}

// QuietString returns the YAML document
func (o *ShowOutput) QuietString() string { return strings.TrimRight(o.YAML, "\n") }

// Present renders the YAML under a header
func (o *ShowOutput) Present() string {
	return styles.TitleStyle.Render("# "+o.Path) + "\n" + strings.TrimRight(o.YAML, "\n")
}
