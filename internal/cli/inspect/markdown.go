package inspect

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/truncate"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
)

const (
	nameWidth    = 28
	variantWidth = 14
	wrapWidth    = 100
)

// Cache Glamour renderers by width to avoid expensive re-creation
var rendererCache sync.Map // map[int]*glamour.TermRenderer

// getRenderer returns a cached renderer for the given width
func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}

// renderMarkdown renders md for the terminal, or returns it as is when
// glamour fails
func renderMarkdown(md string) string {
	renderer, err := getRenderer(wrapWidth)
	if err == nil {
		rendered, err := renderer.Render(md)
		if err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return md
}

// markdown builds the inspection report
func markdown(in *labelservice.Inspection) string {
	var b strings.Builder

	title := in.Input
	if in.Sheet != "" {
		title += " (" + in.Sheet + ")"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))

	if len(in.Rows) == 0 {
		b.WriteString("_No products found._\n")
	} else {
		b.WriteString("| Row | SKU | Product | Variant | Price | Tags | Barcode |\n")
		b.WriteString("|----:|-----|---------|---------|------:|-----:|---------|\n")
		for _, r := range in.Rows {
			barcode := r.Barcode
			if r.BarcodeSource == labelservice.SourceDerived {
				barcode += " *"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %d | %s |\n",
				r.Row,
				escape(r.SKU),
				escape(shorten(r.Name, nameWidth)),
				escape(shorten(r.Variant, variantWidth)),
				escape(r.Price),
				r.Quantity,
				escape(barcode),
			)
		}
	}

	fmt.Fprintf(&b, "\n**%d** products, **%d** tags, **%d** new barcodes", in.Products, in.Tags, in.NewBarcodes)
	if in.NewBarcodes > 0 {
		b.WriteString(" (marked *)")
	}
	b.WriteString("\n")

	if len(in.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range in.Warnings {
			fmt.Fprintf(&b, "- %s\n", escape(w))
		}
	}
	return b.String()
}

func shorten(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), "…")
}

var mdEscaper = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
