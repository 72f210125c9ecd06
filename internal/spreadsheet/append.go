package spreadsheet

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thenoetrevino/etiquetas/internal/models"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet created for new workbooks
const DefaultSheetName = "Sheet1"

// New returns an empty sheet at path carrying every known column. Nothing
// is written until AppendProduct.
func New(path string) (*Sheet, error) {
	s := &Sheet{Path: path, delimiter: ',', created: true}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		s.Format = FormatXLSX
		s.SheetName = DefaultSheetName
	case ".csv":
		s.Format = FormatCSV
	default:
		return nil, fmt.Errorf("%w: %s (use .xlsx or .csv)", models.ErrUnsupportedFormat, filepath.Ext(path))
	}

	for f := Field(0); f < fieldCount; f++ {
		s.Header = append(s.Header, f.String())
	}
	s.rows = [][]string{append([]string(nil), s.Header...)}
	s.cols = mapColumns(s.Header, "")
	return s, nil
}

// AppendProduct adds p below the last row and saves the result to dst. An
// empty dst overwrites the source. Columns p needs that the sheet lacks are
// added at the end. The label name column, when present, repeats the
// product name. It returns the 1-based row written.
func (s *Sheet) AppendProduct(dst string, p models.Product) (int, error) {
	if dst == "" {
		dst = s.Path
	}

	values := map[Field]string{
		FieldName:         p.Name,
		FieldLabelName:    p.Name,
		FieldVariant:      p.Variant,
		FieldBrand:        p.Brand,
		FieldFit:          p.Fit,
		FieldPosition:     p.Position,
		FieldSizeCategory: p.SizeCategory,
		FieldPrice:        p.Price,
		FieldSKU:          p.SKU,
		FieldStock:        strconv.Itoa(p.Stock),
		FieldBarcode:      p.Barcode,
	}

	var newCols []int
	if s.created {
		for i := range s.Header {
			newCols = append(newCols, i)
		}
	}
	for f := Field(0); f < fieldCount; f++ {
		if _, ok := s.cols[f]; ok || f == FieldLabelName || values[f] == "" {
			continue
		}
		s.cols[f] = len(s.Header)
		newCols = append(newCols, len(s.Header))
		s.Header = append(s.Header, f.String())
	}

	row := make([]string, len(s.Header))
	for f, v := range values {
		if idx, ok := s.cols[f]; ok {
			row[idx] = v
		}
	}
	rowNum := len(s.rows) + 1

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	var err error
	switch s.Format {
	case FormatXLSX:
		err = s.appendXLSX(dst, rowNum, row, newCols)
	case FormatCSV:
		rows := make([][]string, len(s.rows), len(s.rows)+1)
		for i, r := range s.rows {
			rows[i] = append([]string(nil), r...)
		}
		for len(rows[0]) < len(s.Header) {
			rows[0] = append(rows[0], s.Header[len(rows[0])])
		}
		err = s.saveCSV(dst, append(rows, row))
	default:
		err = fmt.Errorf("cannot write format %q", s.Format)
	}
	if err != nil {
		return 0, err
	}

	s.rows = append(s.rows, row)
	p.Row = rowNum
	s.Products = append(s.Products, p)
	s.Path, s.created = dst, false

	slog.Info("product appended to spreadsheet",
		"path", dst,
		"row", rowNum,
		"sku", p.SKU,
		"new_columns", len(newCols))
	return rowNum, nil
}

func (s *Sheet) appendXLSX(dst string, rowNum int, row []string, newCols []int) error {
	var f *excelize.File
	if s.created {
		f = excelize.NewFile()
	} else {
		var err error
		if f, err = excelize.OpenFile(s.Path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.Path, err)
		}
	}
	defer f.Close()

	for _, col := range newCols {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(s.SheetName, cell, s.Header[col]); err != nil {
			return err
		}
	}

	stockCol := s.cols[FieldStock]
	for col, v := range row {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if n, convErr := strconv.Atoi(v); convErr == nil && col == stockCol {
			err = f.SetCellValue(s.SheetName, cell, n)
		} else {
			// Text keeps SKUs, prices and barcodes exactly as entered
			err = f.SetCellStr(s.SheetName, cell, v)
		}
		if err != nil {
			return err
		}
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("saving %s: %w", dst, err)
	}
	return nil
}
