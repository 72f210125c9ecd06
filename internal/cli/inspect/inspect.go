package inspect

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/cli/handler"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

// InspectCmd returns the inspect command
func InspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <spreadsheet>",
		Short: "Show what would be printed",
		Long: `List the products of a spreadsheet with their tag counts and barcodes
without writing anything.

Barcodes that do not exist in the sheet yet are marked with *.

Examples:
  etiquetas inspect productos.xlsx
  etiquetas inspect productos.xlsx --no-stock --qty JS-26=4

  # Total tag count for scripts
  etiquetas inspect productos.xlsx --quiet
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(handler.HandlerFunc(runInspect), func(cmd *cobra.Command) error {
			_, err := handler.NewFlagParser(cmd).ParseQuantities("qty")
			return err
		}),
	}

	cmd.Flags().Bool("no-stock", false, "Count one tag per product instead of one per unit in stock")
	cmd.Flags().StringArray("qty", nil, "Tag count for a SKU, as SKU=N (repeatable)")
	handler.AddSeedFlag(cmd)

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (total tag count only)")

	return cmd
}

func runInspect(ctx context.Context, args *handler.Arguments) (any, error) {
	cfg := args.CLI.Config()
	if err := handler.ApplyOverrides(cfg, args); err != nil {
		return nil, err
	}

	quantities, err := cli.ParseQuantities(args.GetStringSlice("qty", nil))
	if err != nil {
		return nil, err
	}

	in, err := args.CLI.App.Labels(cfg).Inspect(ctx, labelservice.InspectRequest{
		Input:      args.Args[0],
		UseStock:   !args.GetBool("no-stock"),
		Quantities: quantities,
	})
	if err != nil {
		return nil, err
	}
	return &Output{Inspection: in}, nil
}

// Output is what inspect prints
type Output struct {
	*labelservice.Inspection
}

// QuietString returns the total number of tags
func (o *Output) QuietString() string {
	return strconv.Itoa(o.Tags)
}

// Present renders the product table
func (o *Output) Present() string {
	return renderMarkdown(markdown(o.Inspection))
}
