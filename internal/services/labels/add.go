package labels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/thenoetrevino/etiquetas/internal/barcode"
	"github.com/thenoetrevino/etiquetas/internal/models"
	"github.com/thenoetrevino/etiquetas/internal/pricing"
	"github.com/thenoetrevino/etiquetas/internal/spreadsheet"
)

// AddRequest describes a product entered by hand
type AddRequest struct {
	Input   string // spreadsheet to append to, created when missing
	Output  string // empty = overwrite Input
	Product models.Product
}

// Added reports the row written by Add
type Added struct {
	RunID         string   `json:"run_id"`
	Sheet         string   `json:"sheet"`
	Created       bool     `json:"created"`
	Row           int      `json:"row"`
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Variant       string   `json:"variant"`
	Price         string   `json:"price"` // as it will print
	Stock         int      `json:"stock"`
	Barcode       string   `json:"barcode"`
	BarcodeSource string   `json:"barcode_source"` // "given" or "derived"
	Warnings      []string `json:"warnings,omitempty"`
}

// SourceGiven marks a barcode typed in with the product
const SourceGiven = "given"

// Add appends one product to a spreadsheet, deriving its barcode from the
// SKU the same way Generate would
func (s *service) Add(ctx context.Context, req AddRequest) (*Added, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}

	p := req.Product
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	p.Barcode = strings.TrimSpace(p.Barcode)
	if p.IsBlank() {
		return nil, ErrEmptyProduct
	}
	if p.Stock < 0 {
		return nil, fmt.Errorf("%w: stock %d", ErrNegativeQuantity, p.Stock)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &run{id: uuid.NewString()}
	r.log = slog.With("run", r.id)

	created := false
	sheet, err := spreadsheet.Open(req.Input, spreadsheet.Options{
		Sheet:         s.cfg.Spreadsheet.Sheet,
		BarcodeColumn: s.cfg.Spreadsheet.BarcodeColumn,
	})
	if errors.Is(err, spreadsheet.ErrNotFound) {
		r.log.Info("creating spreadsheet", "path", req.Input)
		sheet, err = spreadsheet.New(req.Input)
		created = true
	}
	if err != nil {
		return nil, err
	}

	gen, err := barcode.NewGenerator(s.cfg.Barcode.Seed, s.cfg.Barcode.Digits)
	if err != nil {
		return nil, err
	}

	key := barcodeKey(&p)
	for _, existing := range sheet.Products {
		if p.SKU != "" && existing.SKU == p.SKU {
			return nil, fmt.Errorf("%w: %s is on row %d", ErrDuplicateSKU, p.SKU, existing.Row)
		}
		if existing.Barcode == "" {
			continue
		}
		if err := gen.Reserve(barcodeKey(&existing), existing.Barcode); err != nil {
			r.warn("row %d: %v", existing.Row, err)
		}
	}

	source := SourceGiven
	if p.Barcode != "" {
		if err := gen.Reserve(key, p.Barcode); err != nil {
			return nil, err
		}
	} else {
		if p.Barcode, err = gen.Value(key); err != nil {
			return nil, err
		}
		source = SourceDerived
	}

	price, err := pricing.NewFormatter(s.cfg.Price.Currency, s.cfg.Price.Decimals).Format(p.Price)
	if err != nil && p.Price != "" {
		r.warn("price %q will print as is", p.Price)
	}

	dst := req.Output
	if dst == "" {
		dst = req.Input
	}
	row, err := sheet.AppendProduct(dst, p)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", dst, err)
	}

	r.log.Info("product added", "path", dst, "row", row, "sku", p.SKU, "barcode", p.Barcode, "source", source)
	return &Added{
		RunID:         r.id,
		Sheet:         dst,
		Created:       created,
		Row:           row,
		SKU:           p.SKU,
		Name:          p.Name,
		Variant:       p.Variant,
		Price:         price,
		Stock:         p.Stock,
		Barcode:       p.Barcode,
		BarcodeSource: source,
		Warnings:      r.warnings,
	}, nil
}
