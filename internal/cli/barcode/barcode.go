package barcode

import (
	"context"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"
	"github.com/thenoetrevino/etiquetas/internal/cli/handler"
	"github.com/thenoetrevino/etiquetas/internal/cli/styles"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

// BarcodeCmd returns the barcode command
func BarcodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "barcode <sku>...",
		Short: "Show the barcode derived for SKUs",
		Long: `Print the barcode value a SKU gets when its row has no barcode.

Values depend only on the SKU and the seed, so they match what generate prints.

Examples:
  etiquetas barcode JS-26 PB-M
  etiquetas barcode JS-26 --seed 42 --quiet
`,
		Args: cobra.MinimumNArgs(1),
		RunE: handler.SimpleCommand(handler.HandlerFunc(runBarcode)),
	}

	handler.AddSeedFlag(cmd)

	// Agent-friendly flags (REQUIRED on all commands)
	handler.AddOutputFlags(cmd, "Minimal output (one value per line)")

	return cmd
}

func runBarcode(ctx context.Context, args *handler.Arguments) (any, error) {
	cfg := args.CLI.Config()
	if err := handler.ApplyOverrides(cfg, args); err != nil {
		return nil, err
	}

	values, err := args.CLI.App.Labels(cfg).Barcodes(ctx, args.Args)
	if err != nil {
		return nil, err
	}
	return Output(values), nil
}

// Output is what barcode prints
type Output []labelservice.BarcodeValue

// QuietString returns the printed values, one per line
func (o Output) QuietString() string {
	lines := make([]string, len(o))
	for i, v := range o {
		lines[i] = v.Printed
	}
	return strings.Join(lines, "\n")
}

// Present renders a table of SKUs and values
func (o Output) Present() string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.SubtitleStyle).
		Headers("SKU", "VALUE", "PRINTED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.LabelStyle.Padding(0, 1)
			}
			return styles.ValueStyle.Padding(0, 1)
		})

	for _, v := range o {
		t.Row(v.SKU, v.Value, v.Printed)
	}
	return t.String()
}
