// Package labels turns spreadsheet rows into price-tag PDFs.
package labels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/thenoetrevino/etiquetas/internal/barcode"
	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/layout"
	"github.com/thenoetrevino/etiquetas/internal/models"
	"github.com/thenoetrevino/etiquetas/internal/pricing"
	"github.com/thenoetrevino/etiquetas/internal/render"
	"github.com/thenoetrevino/etiquetas/internal/spreadsheet"
	"github.com/thenoetrevino/etiquetas/internal/user"
)

// Service defines all label generation operations
type Service interface {
	// Write operations
	Generate(ctx context.Context, req GenerateRequest) (*Result, error)
	Preview(ctx context.Context, req GenerateRequest) (*Result, error)
	Add(ctx context.Context, req AddRequest) (*Added, error)

	// Read operations
	Inspect(ctx context.Context, req InspectRequest) (*Inspection, error)
	Barcodes(ctx context.Context, skus []string) ([]BarcodeValue, error)
}

// GenerateRequest encapsulates one PDF run
type GenerateRequest struct {
	Input  string
	Output string // empty = configured output path
	// Preview renders a single tag for the first product
	Preview bool
	// UseStock replicates each product by its stock. When false every
	// product prints once.
	UseStock bool
	// Quantities overrides the tag count per SKU
	Quantities  map[string]int
	WriteBack   bool
	SheetOutput string // empty = overwrite Input
}

// InspectRequest selects the spreadsheet and quantity rules to report on
type InspectRequest struct {
	Input      string
	UseStock   bool
	Quantities map[string]int
}

// Result summarises a generation run
type Result struct {
	RunID       string   `json:"run_id"`
	Input       string   `json:"input"`
	Output      string   `json:"output"`
	Pages       int      `json:"pages"`
	Tags        int      `json:"tags"`
	Products    int      `json:"products"`
	Skipped     int      `json:"skipped"` // products with zero quantity
	NewBarcodes int      `json:"new_barcodes"`
	SheetOutput string   `json:"sheet_output,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Inspection lists what a run would print
type Inspection struct {
	RunID       string       `json:"run_id"`
	Input       string       `json:"input"`
	Sheet       string       `json:"sheet,omitempty"`
	Rows        []ProductRow `json:"rows"`
	Products    int          `json:"products"`
	Tags        int          `json:"tags"`
	NewBarcodes int          `json:"new_barcodes"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// ProductRow is one product as it would be printed
type ProductRow struct {
	Row           int    `json:"row"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Variant       string `json:"variant"`
	Price         string `json:"price"`
	Quantity      int    `json:"quantity"`
	Barcode       string `json:"barcode"`
	BarcodeSource string `json:"barcode_source"` // "sheet" or "derived"
}

// BarcodeValue is the barcode for one SKU
type BarcodeValue struct {
	SKU   string `json:"sku"`
	Value string `json:"value"`
	// Printed is the value under the bars, including any check digit
	Printed string `json:"printed"`
}

// Barcode sources
const (
	SourceSheet   = "sheet"
	SourceDerived = "derived"
)

// service implements Service interface
type service struct {
	cfg *config.Config
}

// NewService creates a new label service
func NewService(cfg *config.Config) Service {
	return &service{cfg: cfg}
}

// planned is a product with its decided quantity and barcode
type planned struct {
	product models.Product
	qty     int
	price   string
	barcode string
	source  string
}

// run is the shared state of one operation
type run struct {
	id       string
	log      *slog.Logger
	sheet    *spreadsheet.Sheet
	items    []planned
	warnings []string
}

// Generate renders one tag per unit of every product and optionally writes
// new barcodes back to the spreadsheet
func (s *service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}

	r, err := s.prepare(ctx, req.Input, req.UseStock, req.Quantities)
	if err != nil {
		return nil, err
	}

	output := req.Output
	if output == "" {
		output = s.cfg.OutputPath(req.Preview)
	}

	records, err := r.records(ctx, req.Preview)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNoPrintableRows, req.Input)
	}

	renderer, err := s.renderer(req.Input)
	if err != nil {
		return nil, err
	}

	r.log.Info("rendering tags", "tags", len(records), "output", output, "preview", req.Preview)
	pages, err := renderer.Write(ctx, output, records)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	res := &Result{
		RunID:    r.id,
		Input:    req.Input,
		Output:   output,
		Pages:    pages,
		Tags:     len(records),
		Products: len(r.items),
		Warnings: r.warnings,
	}
	for _, it := range r.items {
		if it.qty == 0 {
			res.Skipped++
		}
	}

	fresh := r.derivedBarcodes()
	res.NewBarcodes = len(fresh)

	if req.WriteBack && !req.Preview && len(fresh) > 0 {
		dst := req.SheetOutput
		if dst == "" {
			dst = req.Input
		}
		if err := r.sheet.WriteBarcodes(dst, fresh); err != nil {
			return res, fmt.Errorf("failed to write barcodes to %s: %w", dst, err)
		}
		res.SheetOutput = dst
	}

	r.log.Info("generation finished",
		"pages", res.Pages,
		"tags", res.Tags,
		"new_barcodes", res.NewBarcodes,
		"sheet_output", res.SheetOutput)
	return res, nil
}

// Preview renders a single tag for the first product
func (s *service) Preview(ctx context.Context, req GenerateRequest) (*Result, error) {
	req.Preview = true
	req.WriteBack = false
	return s.Generate(ctx, req)
}

// Inspect reports products, quantities and barcodes without writing anything
func (s *service) Inspect(ctx context.Context, req InspectRequest) (*Inspection, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}

	r, err := s.prepare(ctx, req.Input, req.UseStock, req.Quantities)
	if err != nil {
		return nil, err
	}

	in := &Inspection{
		RunID:    r.id,
		Input:    req.Input,
		Sheet:    r.sheet.SheetName,
		Products: len(r.items),
		Warnings: r.warnings,
	}
	for _, it := range r.items {
		in.Rows = append(in.Rows, ProductRow{
			Row:           it.product.Row,
			SKU:           it.product.SKU,
			Name:          it.product.Name,
			Variant:       it.product.Variant,
			Price:         it.price,
			Quantity:      it.qty,
			Barcode:       it.barcode,
			BarcodeSource: it.source,
		})
		in.Tags += it.qty
		if it.source == SourceDerived {
			in.NewBarcodes++
		}
	}
	return in, nil
}

// Barcodes derives values for ad-hoc SKUs
func (s *service) Barcodes(ctx context.Context, skus []string) ([]BarcodeValue, error) {
	if len(skus) == 0 {
		return nil, ErrNoSKUs
	}

	gen, err := barcode.NewGenerator(s.cfg.Barcode.Seed, s.cfg.Barcode.Digits)
	if err != nil {
		return nil, err
	}

	out := make([]BarcodeValue, 0, len(skus))
	for _, sku := range skus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sku = strings.TrimSpace(sku)
		if sku == "" {
			return nil, ErrEmptySKU
		}

		v, err := gen.Value(sku)
		if err != nil {
			return nil, err
		}
		printed := v
		if sym, err := barcode.Encode(v, s.cfg.Barcode.Symbology); err == nil {
			printed = sym.Text
		}
		out = append(out, BarcodeValue{SKU: sku, Value: v, Printed: printed})
	}
	return out, nil
}

// prepare reads the sheet and decides quantity, price and barcode per product
func (s *service) prepare(ctx context.Context, input string, useStock bool, quantities map[string]int) (*run, error) {
	for sku, n := range quantities {
		if n < 0 {
			return nil, fmt.Errorf("%w: %s=%d", ErrNegativeQuantity, sku, n)
		}
	}

	r := &run{id: uuid.NewString()}
	r.log = slog.With("run", r.id)
	r.log.Info("reading spreadsheet", "path", input)

	sheet, err := spreadsheet.Open(input, spreadsheet.Options{
		Sheet:         s.cfg.Spreadsheet.Sheet,
		BarcodeColumn: s.cfg.Spreadsheet.BarcodeColumn,
	})
	if err != nil {
		return nil, err
	}
	r.sheet = sheet
	for _, w := range sheet.Warnings {
		r.warnings = append(r.warnings, w.String())
	}

	gen, err := barcode.NewGenerator(s.cfg.Barcode.Seed, s.cfg.Barcode.Digits)
	if err != nil {
		return nil, err
	}

	// Existing barcodes first, so derived values never collide with them
	for _, p := range sheet.Products {
		if p.Barcode == "" {
			continue
		}
		if err := gen.Reserve(barcodeKey(&p), p.Barcode); err != nil {
			r.warn("row %d: %v", p.Row, err)
		}
	}
	r.log.Debug("sheet barcodes reserved", "count", gen.Assigned())

	prices := pricing.NewFormatter(s.cfg.Price.Currency, s.cfg.Price.Decimals)

	for _, p := range sheet.Products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		it := planned{product: p, qty: quantity(&p, useStock, quantities)}
		if useStock && p.Stock <= 0 {
			r.log.Info("product has no stock, no tags", "row", p.Row, "sku", p.SKU, "stock", p.Stock)
		}

		price, err := prices.Format(p.Price)
		if err != nil && p.Price != "" {
			r.warn("row %d: price %q printed as is", p.Row, p.Price)
		}
		it.price = price

		if p.Barcode != "" {
			it.barcode, it.source = p.Barcode, SourceSheet
		} else {
			v, err := gen.Value(barcodeKey(&p))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", p.Row, err)
			}
			it.barcode, it.source = v, SourceDerived
		}

		r.items = append(r.items, it)
	}

	known := make(map[string]bool, len(sheet.Products))
	for _, p := range sheet.Products {
		known[p.SKU] = true
	}
	for _, sku := range slices.Sorted(maps.Keys(quantities)) {
		if !known[sku] {
			r.warn("quantity for SKU %q ignored: no row has that SKU", sku)
		}
	}
	return r, nil
}

// records expands planned products into one record per tag
func (r *run) records(ctx context.Context, preview bool) ([]models.LabelRecord, error) {
	var out []models.LabelRecord
	for i := range r.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it := &r.items[i]
		rec := models.NewLabelRecord(&it.product, it.price, it.barcode)

		if preview {
			return []models.LabelRecord{rec}, nil
		}
		for n := 0; n < it.qty; n++ {
			out = append(out, rec)
		}
	}
	return out, nil
}

// derivedBarcodes returns newly derived barcodes keyed by sheet row
func (r *run) derivedBarcodes() map[int]string {
	fresh := make(map[int]string)
	for _, it := range r.items {
		if it.source == SourceDerived {
			fresh[it.product.Row] = it.barcode
		}
	}
	return fresh
}

func (r *run) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	r.log.Warn(msg)
}

func (s *service) renderer(input string) (*render.Renderer, error) {
	grid, err := layout.NewGrid(layout.GridSpec{
		Mode:      s.cfg.Page.Mode,
		TagWidth:  s.cfg.Tag.Width.MM(),
		TagHeight: s.cfg.Tag.Height.MM(),
		PageWidth: s.cfg.Page.Width.MM(),
		Columns:   s.cfg.Page.Columns,
		Rows:      s.cfg.Page.Rows,
		Gap:       s.cfg.Page.Gap.MM(),
		Margin:    s.cfg.Page.Margin.MM(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	return render.New(render.Options{
		Font:      s.cfg.Fonts.Family,
		Symbology: s.cfg.Barcode.Symbology,
		QuietZone: s.cfg.Barcode.QuietZone,
		Tag: layout.TagSpec{
			Width:         s.cfg.Tag.Width.MM(),
			Height:        s.cfg.Tag.Height.MM(),
			Padding:       s.cfg.Tag.Padding.MM(),
			MinFontSize:   s.cfg.Fonts.MinSize,
			BarcodeHeight: s.cfg.Barcode.Height.MM(),
			Sizes:         layout.DefaultSizes(),
		},
		Grid:   grid,
		Logo:   s.cfg.Output.Logo,
		Border: s.cfg.Tag.Border,
		Title:  "Etiquetas " + filepath.Base(input),
		Author: user.Author(),
	})
}

// quantity decides how many tags a product gets: an explicit per-SKU
// override, else its stock (never below zero), else one
func quantity(p *models.Product, useStock bool, overrides map[string]int) int {
	if n, ok := overrides[p.SKU]; ok {
		return n
	}
	if useStock {
		return max(p.Stock, 0)
	}
	return 1
}

// barcodeKey is what a product's barcode is derived from. Rows without SKU
// fall back to the product name.
func barcodeKey(p *models.Product) string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.Name
}

// IsDataError reports whether err comes from unusable input data rather
// than from the environment
func IsDataError(err error) bool {
	return errors.Is(err, models.ErrNoPrintableRows) ||
		errors.Is(err, models.ErrEmptySheet) ||
		errors.Is(err, models.ErrUnsupportedFormat) ||
		errors.Is(err, spreadsheet.ErrUnreadable) ||
		errors.Is(err, spreadsheet.ErrSheetNotFound)
}
