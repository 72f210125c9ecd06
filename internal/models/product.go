package models

import "strings"

// Product is one spreadsheet row after column mapping.
// Text fields are trimmed; fields whose column was missing are empty.
type Product struct {
	Row          int // 1-based sheet row, header is row 1
	Name         string
	Variant      string
	Brand        string
	Fit          string
	Position     string
	SizeCategory string
	Price        string // raw handtag price cell
	SKU          string
	Stock        int
	Barcode      string // existing barcode value, empty when none
}

// IsBlank reports whether the row carries nothing worth printing
func (p *Product) IsBlank() bool {
	return p.SKU == "" && p.Name == ""
}

// Present reports whether a spreadsheet value should be printed.
// Pandas-style exports write "nan" for empty cells.
func Present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "nan")
}
