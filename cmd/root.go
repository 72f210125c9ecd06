package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/cli/add"
	barcodecmd "github.com/thenoetrevino/etiquetas/internal/cli/barcode"
	"github.com/thenoetrevino/etiquetas/internal/cli/configure"
	"github.com/thenoetrevino/etiquetas/internal/cli/generate"
	"github.com/thenoetrevino/etiquetas/internal/cli/inspect"
	"github.com/thenoetrevino/etiquetas/internal/cli/styles"
	"github.com/thenoetrevino/etiquetas/internal/cli/wizard"
	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/logging"
)

// NewRootCmd builds the etiquetas command tree
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		logPath    string
		verbose    bool
		s          session
	)

	rootCmd := &cobra.Command{
		Use:   "etiquetas",
		Short: "Etiquetas - price tags from a product spreadsheet",
		Long: `Etiquetas turns a product spreadsheet into a PDF of price tags with
a barcode per SKU, sized for label rolls or one tag per page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closer, err := logging.Init(logging.Options{
				Path:    logPath,
				Verbose: verbose,
				Stderr:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return &cli.CommandError{Code: cli.ExitError, Err: fmt.Errorf("logging: %w", err)}
			}
			s.logs = closer

			cfg, path, err := loadConfig(configPath)
			if err != nil {
				if !tolerant(cmd) {
					failure := cli.Fail(&cli.OutputFormatter{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}, err)
					_ = s.close()
					return failure
				}
				slog.Warn("config ignored", "path", path, "error", err)
				cfg = config.Default()
			}
			styles.Init(cfg.Theme)

			s.cli = cli.NewCLI(cfg, path)
			s.cli.Out = cmd.OutOrStdout()
			s.cli.Err = cmd.ErrOrStderr()
			s.cli.In = cmd.InOrStdin()
			cmd.SetContext(cli.WithCLI(cmd.Context(), s.cli))

			slog.Debug("command started", "command", cmd.CommandPath(), "config", path)
			return nil
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &cli.CommandError{Code: cli.ExitUsage, Err: err}
	})

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $ETIQUETAS_CONFIG or ~/.config/etiquetas/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Log file (default ~/.etiquetas/logs/etiquetas.log)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also print progress logs to stderr")

	rootCmd.AddCommand(generate.GenerateCmd())
	rootCmd.AddCommand(generate.PreviewCmd())
	rootCmd.AddCommand(inspect.InspectCmd())
	rootCmd.AddCommand(add.AddCmd())
	rootCmd.AddCommand(barcodecmd.BarcodeCmd())
	rootCmd.AddCommand(configure.ConfigCmd())
	rootCmd.AddCommand(wizard.WizardCmd())

	// cobra skips post-run hooks when RunE fails, so every command closes
	// the session itself
	closeAfterRun(rootCmd, &s)

	return rootCmd
}

// session is what PersistentPreRunE opens for one invocation
type session struct {
	logs io.Closer
	cli  *cli.CLI
}

// close releases the session. Calling it again is a no-op.
func (s *session) close() error {
	var errs []error
	if s.cli != nil {
		errs = append(errs, s.cli.Close())
		s.cli = nil
	}
	if s.logs != nil {
		errs = append(errs, s.logs.Close())
		s.logs = nil
	}
	return errors.Join(errs...)
}

// closeAfterRun wraps the RunE of cmd and its subcommands so the session is
// closed whether or not the command succeeds
func closeAfterRun(cmd *cobra.Command, s *session) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := s.close(); cerr != nil && err == nil {
					err = &cli.CommandError{Code: cli.ExitError, Err: fmt.Errorf("closing: %w", cerr)}
				}
			}()
			return run(c, args)
		}
	}
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, s)
	}
}

// loadConfig reads the --config file when given, else the default location
func loadConfig(explicit string) (*config.Config, string, error) {
	if explicit != "" {
		cfg, err := config.LoadFile(explicit)
		return cfg, explicit, err
	}

	path, err := config.Path()
	if err != nil {
		return config.Default(), "", nil
	}
	cfg, err := config.LoadFile(path)
	return cfg, path, err
}

// tolerant reports whether cmd or one of its parents runs without a valid config
func tolerant(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[configure.AnnotationTolerant] == "true" {
			return true
		}
	}
	return false
}

// Execute runs the root command. Errors not yet shown to the user are
// printed to stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
	}
	return err
}
