package spreadsheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a product attribute read from a named column
type Field int

// Known fields
const (
	FieldName Field = iota
	FieldLabelName
	FieldVariant
	FieldBrand
	FieldFit
	FieldPosition
	FieldSizeCategory
	FieldPrice
	FieldSKU
	FieldStock
	FieldBarcode
	fieldCount
)

// BarcodeHeader is the header written when a sheet has no barcode column yet
const BarcodeHeader = "Código Barras"

// String returns the canonical column header
func (f Field) String() string {
	return aliases[f][0]
}

// Required reports whether a missing column deserves a warning
func (f Field) Required() bool {
	switch f {
	case FieldName, FieldVariant, FieldBrand, FieldPrice, FieldSKU, FieldStock:
		return true
	}
	return false
}

// aliases lists accepted headers per field. The first entry is canonical.
var aliases = [fieldCount][]string{
	FieldName:         {"Nombre Producto/Servicio", "Nombre Producto", "Producto", "Product Name", "Product", "Name"},
	FieldLabelName:    {"Nombre Etiqueta", "Label Name"},
	FieldVariant:      {"Variante", "Talla", "Variant", "Size"},
	FieldBrand:        {"Marca", "Brand"},
	FieldFit:          {"Fit", "Corte"},
	FieldPosition:     {"Posicion", "Position"},
	FieldSizeCategory: {"Tamanio", "Tamaño", "Size Category"},
	FieldPrice:        {"Precio handtag", "Precio", "Handtag Price", "Price"},
	FieldSKU:          {"SKU", "Codigo", "Code"},
	FieldStock:        {"Stock", "Cantidad", "Qty", "Quantity"},
	FieldBarcode:      {BarcodeHeader, "Codigo de Barras", "Barcode", "EAN"},
}

// normalizeHeader folds case, accents, whitespace and punctuation so
// "Código  Barras" and "codigo barras" compare equal.
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// columnMap maps fields to zero-based column indexes
type columnMap map[Field]int

// mapColumns matches header cells to fields. barcodeColumn is an extra
// accepted header for FieldBarcode. The first matching column wins.
func mapColumns(header []string, barcodeColumn string) columnMap {
	lookup := make(map[string]Field)
	for f := Field(0); f < fieldCount; f++ {
		for _, alias := range aliases[f] {
			key := normalizeHeader(alias)
			if _, dup := lookup[key]; !dup {
				lookup[key] = f
			}
		}
	}
	if barcodeColumn != "" {
		lookup[normalizeHeader(barcodeColumn)] = FieldBarcode
	}

	cols := make(columnMap)
	for i, cell := range header {
		f, ok := lookup[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	return cols
}
