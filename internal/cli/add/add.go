package add

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli/handler"
	"github.com/thenoetrevino/etiquetas/internal/cli/styles"
	"github.com/thenoetrevino/etiquetas/internal/models"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

// AddCmd returns the add command
func AddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <spreadsheet>",
		Short: "Add a product row to a spreadsheet",
		Long: `Append one product to a spreadsheet, creating the file when it does not exist.

The barcode is derived from the SKU exactly as generate would derive it, and
stored in the barcode column so later runs print the same value.

Examples:
  etiquetas add productos.xlsx --name "Jean Mom" --sku JM-28 --variant "Talla 28" --price 129.90 --stock 4

  # Keep an existing barcode and save to a copy
  etiquetas add productos.xlsx --name Polo --sku PO-S --barcode 7750000000001 -o copia.xlsx

  # Quiet mode prints the barcode only
  CODE=$(etiquetas add productos.csv --name Polo --sku PO-M --quiet)
`,
		Args: cobra.ExactArgs(1),
		RunE: handler.Command(handler.HandlerFunc(runAdd), parseFlags),
	}

	// Required flags
	cmd.Flags().String("name", "", "Product name (required)")
	cmd.Flags().String("sku", "", "Product SKU (required)")

	// Optional flags
	cmd.Flags().String("variant", "", "Variant or size")
	cmd.Flags().String("brand", "", "Brand")
	cmd.Flags().String("fit", "", "Fit")
	cmd.Flags().String("position", "", "Position (e.g. Rise)")
	cmd.Flags().String("size-category", "", "Size category (e.g. Mid)")
	cmd.Flags().String("price", "", "Handtag price as it should be stored")
	cmd.Flags().Int("stock", models.DefaultStock, "Units in stock")
	cmd.Flags().String("barcode", "", "Existing barcode (derived from the SKU when empty)")
	cmd.Flags().StringP("output", "o", "", "Where to save the spreadsheet (defaults to the input)")
	handler.AddSeedFlag(cmd)

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (barcode only)")

	return cmd
}

func parseFlags(cmd *cobra.Command) error {
	p := handler.NewFlagParser(cmd)
	if _, err := p.ParseString("name"); err != nil {
		return err
	}
	if _, err := p.ParseString("sku"); err != nil {
		return err
	}
	stock, err := cmd.Flags().GetInt("stock")
	if err != nil {
		return err
	}
	if stock < 0 {
		return fmt.Errorf("stock cannot be negative, got %d", stock)
	}
	return nil
}

func runAdd(ctx context.Context, args *handler.Arguments) (any, error) {
	cfg := args.CLI.Config()
	if err := handler.ApplyOverrides(cfg, args); err != nil {
		return nil, err
	}

	added, err := args.CLI.App.Labels(cfg).Add(ctx, labelservice.AddRequest{
		Input:  args.Args[0],
		Output: args.GetString("output", ""),
		Product: models.Product{
			Name:         args.GetString("name", ""),
			SKU:          args.GetString("sku", ""),
			Variant:      args.GetString("variant", ""),
			Brand:        args.GetString("brand", ""),
			Fit:          args.GetString("fit", ""),
			Position:     args.GetString("position", ""),
			SizeCategory: args.GetString("size-category", ""),
			Price:        args.GetString("price", ""),
			Stock:        args.GetInt("stock", models.DefaultStock),
			Barcode:      args.GetString("barcode", ""),
		},
	})
	if err != nil {
		return nil, err
	}
	return (*Output)(added), nil
}

// Output is what add prints
type Output labelservice.Added

// QuietString returns the barcode
func (o *Output) QuietString() string {
	return o.Barcode
}

// Present renders the added row
func (o *Output) Present() string {
	title := "✓ Product added"
	if o.Created {
		title = "✓ Spreadsheet created"
	}

	lines := []string{
		styles.SuccessStyle.Render(title),
		"",
		styles.RenderField("Spreadsheet", fmt.Sprintf("%s (row %d)", o.Sheet, o.Row)),
		styles.RenderField("SKU", o.SKU),
		styles.RenderField("Name", o.Name),
	}
	if o.Variant != "" {
		lines = append(lines, styles.RenderField("Variant", o.Variant))
	}
	if o.Price != "" {
		lines = append(lines, styles.RenderField("Price", o.Price))
	}
	lines = append(lines,
		styles.RenderField("Stock", o.Stock),
		styles.RenderField("Barcode", fmt.Sprintf("%s (%s)", o.Barcode, o.BarcodeSource)),
		styles.SubtitleStyle.Render("run "+o.RunID),
	)

	out := styles.RenderCard(strings.Join(lines, "\n"))
	if w := styles.RenderWarnings(o.Warnings, 10); w != "" {
		out += "\n" + w
	}
	return out
}
