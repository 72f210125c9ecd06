package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/cli/handler"
	"github.com/thenoetrevino/etiquetas/internal/cli/styles"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <spreadsheet>",
		Short: "Generate price tags from a spreadsheet",
		Long: `Generate a PDF of price tags, one per unit in stock.

Examples:
  # Tiled pages, one tag per unit in stock
  etiquetas generate productos.xlsx

  # One tag per page, no stock replication, four tags for one SKU
  etiquetas generate productos.xlsx --mode single --no-stock --qty JS-26=4

  # Save generated barcodes back into a copy of the sheet
  etiquetas generate productos.xlsx --write-back --sheet-output con_codigos.xlsx

  # Open the PDF when done
  etiquetas generate productos.xlsx --open

  # Quiet mode for bash capture
  PDF=$(etiquetas generate productos.xlsx --quiet)
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(handler.HandlerFunc(runGenerate), parseFlags),
	}

	addFlags(cmd)
	cmd.Flags().Bool("preview", false, "Render a single tag for the first product")

	return cmd
}

// PreviewCmd returns the preview command, a shortcut for generate --preview
func PreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <spreadsheet>",
		Short: "Render one tag for the first product",
		Long: `Render a single tag for the first product to check the layout.

The PDF is written next to the normal output with a _preview suffix.

Examples:
  etiquetas preview productos.xlsx
  etiquetas preview productos.xlsx --tag-width 35mm --font go
  etiquetas preview productos.xlsx --open
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(handler.HandlerFunc(runPreview), parseFlags),
	}

	addFlags(cmd)

	return cmd
}

func addFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "PDF path (defaults to the configured output)")
	cmd.Flags().Bool("no-stock", false, "Print one tag per product instead of one per unit in stock")
	cmd.Flags().StringArray("qty", nil, "Tag count for a SKU, as SKU=N (repeatable)")
	cmd.Flags().Bool("write-back", false, "Write newly generated barcodes into the spreadsheet")
	cmd.Flags().String("sheet-output", "", "Where --write-back saves the spreadsheet (defaults to the input)")
	cmd.Flags().Bool("open", false, "Open the PDF in the default viewer when done")
	handler.AddLayoutFlags(cmd)

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (PDF path only)")
}

func parseFlags(cmd *cobra.Command) error {
	p := handler.NewFlagParser(cmd)
	if _, err := p.ParseQuantities("qty"); err != nil {
		return err
	}
	sheetOut, err := p.ParseStringOptional("sheet-output")
	if err != nil {
		return err
	}
	writeBack, err := p.ParseBool("write-back")
	if err != nil {
		return err
	}
	if sheetOut != "" && !writeBack {
		return fmt.Errorf("--sheet-output requires --write-back")
	}
	return nil
}

func runGenerate(ctx context.Context, args *handler.Arguments) (any, error) {
	return run(ctx, args, args.GetBool("preview"))
}

func runPreview(ctx context.Context, args *handler.Arguments) (any, error) {
	return run(ctx, args, true)
}

func run(ctx context.Context, args *handler.Arguments, preview bool) (any, error) {
	cfg := args.CLI.Config()
	if err := handler.ApplyOverrides(cfg, args); err != nil {
		return nil, err
	}

	quantities, err := cli.ParseQuantities(args.GetStringSlice("qty", nil))
	if err != nil {
		return nil, err
	}

	req := labelservice.GenerateRequest{
		Input:       args.Args[0],
		Output:      args.GetString("output", ""),
		Preview:     preview,
		UseStock:    !args.GetBool("no-stock"),
		Quantities:  quantities,
		WriteBack:   args.GetBool("write-back"),
		SheetOutput: args.GetString("sheet-output", ""),
	}

	svc := args.CLI.App.Labels(cfg)
	var res *labelservice.Result
	if preview {
		res, err = svc.Preview(ctx, req)
	} else {
		res, err = svc.Generate(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	out := &Output{Result: res, Preview: preview}
	if args.GetBool("open") {
		// The PDF exists either way; a missing viewer is only a warning
		if err := args.CLI.App.Open(ctx, res.Output); err != nil {
			slog.Warn("could not open pdf", "path", res.Output, "error", err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not open %s: %v", res.Output, err))
		} else {
			out.Opened = true
		}
	}
	return out, nil
}

// Output is what generate and preview print
type Output struct {
	*labelservice.Result
	Preview bool `json:"preview"`
	Opened  bool `json:"opened"`
}

// QuietString returns the PDF path
func (o *Output) QuietString() string {
	return o.Output
}

// Present renders a summary card
func (o *Output) Present() string {
	title := "✓ Tags generated"
	if o.Preview {
		title = "✓ Preview generated"
	}

	lines := []string{
		styles.SuccessStyle.Render(title),
		"",
		styles.RenderField("PDF", o.Output),
		styles.RenderField("Pages", o.Pages),
		styles.RenderField("Tags", o.Tags),
		styles.RenderField("Products", fmt.Sprintf("%d (%d without tags)", o.Products, o.Skipped)),
		styles.RenderField("New barcodes", o.NewBarcodes),
	}
	if o.SheetOutput != "" {
		lines = append(lines, styles.RenderField("Spreadsheet", o.SheetOutput))
	}
	lines = append(lines, styles.SubtitleStyle.Render("run "+o.RunID))

	out := styles.RenderCard(strings.Join(lines, "\n"))
	if w := styles.RenderWarnings(o.Warnings, 10); w != "" {
		out += "\n" + w
	}
	return out
}
