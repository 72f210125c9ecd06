package wizard

import (
	"context"
	"errors"
	"fmt"

	"charm.land/huh/v2"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/cli/generate"
)

// ErrCancelled is returned when the user declines or aborts the form
var ErrCancelled = errors.New("wizard cancelled")

// formRunner shows the form, which writes into a
type formRunner func(ctx context.Context, c *cli.CLI, form *huh.Form, a *Answers) error

func runInteractive(ctx context.Context, c *cli.CLI, form *huh.Form, _ *Answers) error {
	return form.
		WithTheme(Theme(c.App.Config.Theme)).
		WithInput(c.In).
		WithOutput(c.Err).
		RunWithContext(ctx)
}

// WizardCmd returns the wizard command
func WizardCmd() *cobra.Command {
	return newWizardCmd(runInteractive)
}

func newWizardCmd(run formRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Pick a spreadsheet and options interactively",
		Long: `Ask for the spreadsheet, layout and preview options, then run generate.

Examples:
  etiquetas wizard
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, run)
		},
	}
	return cmd
}

func runWizard(cmd *cobra.Command, run formRunner) error {
	ctx := cmd.Context()
	c, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return cli.Fail(&cli.OutputFormatter{}, err)
	}

	answers := &Answers{Mode: c.App.Config.Page.Mode, UseStock: true, Confirm: true}
	if err := run(ctx, c, NewForm(answers), answers); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			err = ErrCancelled
		}
		return cli.Fail(c.Formatter(false, false), err)
	}
	if !answers.Confirm {
		fmt.Fprintln(c.Err, "Nothing generated.")
		return nil
	}

	gen := generate.GenerateCmd()
	gen.SetArgs(answers.Args())
	gen.SetOut(cmd.OutOrStdout())
	gen.SetErr(cmd.ErrOrStderr())
	gen.SilenceUsage = true
	gen.SilenceErrors = true
	return gen.ExecuteContext(ctx)
}
