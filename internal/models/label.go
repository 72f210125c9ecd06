package models

import "strings"

// LabelRecord is the data printed on one physical tag.
// Records are built per unit in stock and discarded once rendered.
type LabelRecord struct {
	Name         string
	Variant      string
	Brand        string
	Fit          string
	Position     string
	SizeCategory string
	Price        string // already formatted, e.g. "S/ 115.00"
	SKU          string
	Barcode      string
}

// Descriptor joins size category and position the way they share one line
// on the tag ("Mid - Rise"). Missing parts are dropped.
func (l *LabelRecord) Descriptor() string {
	var parts []string
	if Present(l.SizeCategory) {
		parts = append(parts, strings.TrimSpace(l.SizeCategory))
	}
	if Present(l.Position) {
		parts = append(parts, strings.TrimSpace(l.Position))
	}
	return strings.Join(parts, " - ")
}

// NewLabelRecord copies the printable fields of a product.
func NewLabelRecord(p *Product, price, barcode string) LabelRecord {
	return LabelRecord{
		Name:         p.Name,
		Variant:      p.Variant,
		Brand:        p.Brand,
		Fit:          p.Fit,
		Position:     p.Position,
		SizeCategory: p.SizeCategory,
		Price:        price,
		SKU:          p.SKU,
		Barcode:      barcode,
	}
}
