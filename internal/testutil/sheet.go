// Package testutil builds spreadsheet fixtures shared by service and CLI tests
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ProductHeader is the header row of a typical product export
var ProductHeader = []interface{}{"Nombre Producto/Servicio", "Variante", "Marca", "Precio handtag", "SKU", "Stock", "Código Barras"}

// WriteSheet creates productos.xlsx in a temp dir with ProductHeader and
// the given rows
func WriteSheet(t *testing.T, rows ...[]interface{}) string {
	t.Helper()
	return WriteSheetWithHeader(t, ProductHeader, rows...)
}

// WriteSheetWithHeader is WriteSheet with a custom header row
func WriteSheetWithHeader(t *testing.T, header []interface{}, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "productos.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// StandardSheet writes three products: two in stock (3 and 2 units) and one
// with zero stock
func StandardSheet(t *testing.T) string {
	t.Helper()
	return WriteSheet(t,
		[]interface{}{"Jean Skinny", "Talla 26", "Acme", 115, "JS-26", 3, ""},
		[]interface{}{"Polo Basico", "M", "Acme", "89,9", "PB-M", 2, ""},
		[]interface{}{"Casaca", "L", "Acme", 250, "CA-L", 0, ""},
	)
}

// ReadColumn returns the values of a column (1-based) below the header
func ReadColumn(t *testing.T, path string, col int) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)

	var out []string
	for _, row := range rows[1:] {
		if col-1 < len(row) {
			out = append(out, row[col-1])
		} else {
			out = append(out, "")
		}
	}
	return out
}
