package render

import (
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"
	"github.com/thenoetrevino/etiquetas/internal/barcode"
	"github.com/thenoetrevino/etiquetas/internal/layout"
	"github.com/thenoetrevino/etiquetas/internal/models"
)

const (
	priceBoxLine = 0.25 // mm
	borderLine   = 0.1
)

// document is one PDF being drawn. It also measures text for the layout.
type document struct {
	pdf       *fpdf.Fpdf
	opts      Options
	family    string
	translate func(string) string
	page      int // zero-based index of the current page, -1 before the first
	logoRatio float64
	symbols   map[string]*barcode.Symbol
}

func newDocument(opts Options) (*document, error) {
	pageSize := fpdf.SizeType{Wd: opts.Grid.PageWidth, Ht: opts.Grid.PageHeight}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           pageSize,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("etiquetas", true)
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	d := &document{
		pdf:     pdf,
		opts:    opts,
		page:    -1,
		symbols: make(map[string]*barcode.Symbol),
	}
	d.family, d.translate = loadFonts(pdf, opts.Font)

	if opts.Logo != "" {
		info := pdf.RegisterImageOptions(opts.Logo, fpdf.ImageOptions{ReadDpi: false})
		if pdf.Err() {
			return nil, fmt.Errorf("%w: logo %s: %v", ErrPDF, opts.Logo, pdf.Error())
		}
		if info.Height() > 0 {
			d.logoRatio = info.Width() / info.Height()
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrPDF, pdf.Error())
	}
	return d, nil
}

// StringWidth implements layout.Measurer
func (d *document) StringWidth(text string, style layout.Style, size float64) float64 {
	d.pdf.SetFont(d.family, string(style), size)
	return d.pdf.GetStringWidth(d.translate(text))
}

func (d *document) drawTag(i int, rec *models.LabelRecord) {
	page, x, y := d.opts.Grid.Place(i)
	for d.page < page {
		d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: d.opts.Grid.PageWidth, Ht: d.opts.Grid.PageHeight})
		d.page++
	}

	sym := d.symbol(rec)
	digits := rec.Barcode
	if sym != nil {
		digits = sym.Text
	}

	p := layout.Tag(d, d.opts.Tag, rec, digits)
	if p.Overflow {
		slog.Warn("tag content taller than tag", "sku", rec.SKU, "scale", p.Scale)
	}

	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetFillColor(0, 0, 0)
	d.pdf.SetTextColor(0, 0, 0)

	if d.opts.Border {
		d.pdf.SetDrawColor(160, 160, 160)
		d.pdf.SetLineWidth(borderLine)
		d.pdf.Rect(x, y, d.opts.Grid.TagWidth, d.opts.Grid.TagHeight, "D")
		d.pdf.SetDrawColor(0, 0, 0)
	}

	if p.Logo != nil && d.logoRatio > 0 {
		d.drawLogo(x, y, *p.Logo)
	}

	if p.PriceBox != nil {
		d.pdf.SetLineWidth(priceBoxLine)
		d.pdf.Rect(x+p.PriceBox.X, y+p.PriceBox.Y, p.PriceBox.W, p.PriceBox.H, "D")
	}

	for _, line := range p.Lines {
		if line.Text == "" {
			continue
		}
		d.pdf.SetFont(d.family, string(line.Style), line.Size)
		d.pdf.Text(x+line.X, y+line.Baseline, d.translate(line.Text))
	}

	if sym != nil {
		d.drawBars(x, y, p.Barcode, sym)
	}
}

// symbol encodes the record's barcode once per value. Values the configured
// symbology rejects fall back to code128; values nothing can encode print
// as digits only.
func (d *document) symbol(rec *models.LabelRecord) *barcode.Symbol {
	if rec.Barcode == "" {
		return nil
	}
	if sym, ok := d.symbols[rec.Barcode]; ok {
		return sym
	}

	sym, err := barcode.Encode(rec.Barcode, d.opts.Symbology)
	if err != nil && d.opts.Symbology != models.SymbologyCode128 {
		slog.Warn("barcode falls back to code128", "sku", rec.SKU, "barcode", rec.Barcode, "error", err)
		sym, err = barcode.Encode(rec.Barcode, models.SymbologyCode128)
	}
	if err != nil {
		slog.Warn("barcode cannot be drawn", "sku", rec.SKU, "barcode", rec.Barcode, "error", err)
		sym = nil
	}

	d.symbols[rec.Barcode] = sym
	return sym
}

func (d *document) drawBars(x, y float64, area layout.Box, sym *barcode.Symbol) {
	modules := sym.Width() + 2*d.opts.QuietZone
	if modules == 0 {
		return
	}
	mw := area.W / float64(modules)
	left := x + area.X + float64(d.opts.QuietZone)*mw

	for _, bar := range sym.Bars() {
		d.pdf.Rect(left+float64(bar.Start)*mw, y+area.Y, float64(bar.Width)*mw, area.H, "F")
	}
}

// drawLogo fits the image inside box keeping its aspect ratio, centred
func (d *document) drawLogo(x, y float64, box layout.Box) {
	w := box.W
	h := w / d.logoRatio
	if h > box.H {
		h = box.H
		w = h * d.logoRatio
	}
	d.pdf.ImageOptions(d.opts.Logo,
		x+box.X+(box.W-w)/2, y+box.Y+(box.H-h)/2, w, h,
		false, fpdf.ImageOptions{}, 0, "")
}
