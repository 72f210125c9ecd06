package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/xuri/excelize/v2"
)

// BarcodeColumn returns the zero-based index barcodes are written to and
// whether that column still has to be created
func (s *Sheet) BarcodeColumn() (int, bool) {
	if idx, ok := s.cols[FieldBarcode]; ok {
		return idx, false
	}
	return len(s.Header), true
}

// WriteBarcodes stores barcodes (keyed by 1-based sheet row) into the barcode
// column and saves the result to dst. An empty dst overwrites the source.
func (s *Sheet) WriteBarcodes(dst string, barcodes map[int]string) error {
	if dst == "" {
		dst = s.Path
	}

	col, create := s.BarcodeColumn()

	rowNums := make([]int, 0, len(barcodes))
	for r := range barcodes {
		rowNums = append(rowNums, r)
	}
	sort.Ints(rowNums)

	var err error
	switch s.Format {
	case FormatXLSX:
		err = s.writeXLSX(dst, col, create, rowNums, barcodes)
	case FormatCSV:
		err = s.writeCSV(dst, col, create, rowNums, barcodes)
	default:
		err = fmt.Errorf("cannot write format %q", s.Format)
	}
	if err != nil {
		return err
	}

	slog.Info("barcodes written to spreadsheet",
		"path", dst,
		"rows", len(barcodes),
		"new_column", create)
	return nil
}

func (s *Sheet) writeXLSX(dst string, col int, create bool, rowNums []int, barcodes map[int]string) error {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.Path, err)
	}
	defer f.Close()

	if create {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(s.SheetName, cell, BarcodeHeader); err != nil {
			return err
		}
	}

	for _, r := range rowNums {
		cell, err := excelize.CoordinatesToCellName(col+1, r)
		if err != nil {
			return err
		}
		// Stored as text: 13+ digit values lose precision as floats
		if err := f.SetCellStr(s.SheetName, cell, barcodes[r]); err != nil {
			return err
		}
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("saving %s: %w", dst, err)
	}
	return nil
}

func (s *Sheet) writeCSV(dst string, col int, create bool, rowNums []int, barcodes map[int]string) error {
	rows := make([][]string, len(s.rows))
	for i, row := range s.rows {
		rows[i] = append([]string(nil), row...)
	}

	set := func(rowIdx int, value string) {
		for len(rows[rowIdx]) <= col {
			rows[rowIdx] = append(rows[rowIdx], "")
		}
		rows[rowIdx][col] = value
	}

	if create {
		set(0, BarcodeHeader)
	}
	for _, r := range rowNums {
		if r-1 < len(rows) {
			set(r-1, barcodes[r])
		}
	}

	return s.saveCSV(dst, rows)
}

func (s *Sheet) saveCSV(dst string, rows [][]string) error {
	file, err := os.Create(dst)
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	w.Comma = s.delimiter
	if err := w.WriteAll(rows); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return file.Close()
}
