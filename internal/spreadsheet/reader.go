// Package spreadsheet reads product rows from .xlsx and .csv files and
// writes generated barcodes back.
package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thenoetrevino/etiquetas/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNotFound is returned when the spreadsheet file does not exist
	ErrNotFound = errors.New("spreadsheet not found")
	// ErrSheetNotFound is returned when the requested worksheet does not exist
	ErrSheetNotFound = errors.New("worksheet not found")
	// ErrUnreadable wraps errors from the underlying file parsers
	ErrUnreadable = errors.New("spreadsheet unreadable")
)

// File formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Options controls how a spreadsheet is read
type Options struct {
	Sheet         string // worksheet name, empty = first
	BarcodeColumn string // extra header accepted for the barcode column
}

// Warning describes a cell that was replaced by a default
type Warning struct {
	Row     int // 0 for sheet-level warnings
	Column  string
	Value   string
	Message string
}

func (w Warning) String() string {
	if w.Row == 0 {
		return fmt.Sprintf("%s: %s", w.Column, w.Message)
	}
	if w.Value == "" {
		return fmt.Sprintf("row %d, %s: %s", w.Row, w.Column, w.Message)
	}
	return fmt.Sprintf("row %d, %s: %s (%q)", w.Row, w.Column, w.Message, w.Value)
}

// Sheet is a loaded spreadsheet
type Sheet struct {
	Path      string
	Format    string
	SheetName string
	Header    []string
	Products  []models.Product
	Warnings  []Warning

	cols      columnMap
	rows      [][]string // raw rows, header included
	delimiter rune
	created   bool // not on disk yet, see New
}

// Open reads the spreadsheet at path
func Open(path string, opts Options) (*Sheet, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	s := &Sheet{Path: path}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		s.Format = FormatXLSX
		err = s.readXLSX(opts.Sheet)
	case ".csv":
		s.Format = FormatCSV
		err = s.readCSV()
	default:
		return nil, fmt.Errorf("%w: %s (use .xlsx or .csv)", models.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if err := s.parse(opts.BarcodeColumn); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sheet) readXLSX(sheet string) error {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.Path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: %s", models.ErrEmptySheet, s.Path)
	}

	s.SheetName = sheets[0]
	if sheet != "" {
		found := false
		for _, name := range sheets {
			if strings.EqualFold(name, sheet) {
				s.SheetName = name
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(sheets, ", "))
		}
	}

	// Raw values keep numbers such as barcodes from being rendered with
	// the cell's number format
	rows, err := f.GetRows(s.SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.Path, err)
	}
	s.rows = rows
	return nil
}

func (s *Sheet) readCSV() error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.Path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	s.delimiter = detectDelimiter(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = s.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnreadable, s.Path, err)
		}
		s.rows = append(s.rows, record)
	}
	return nil
}

// detectDelimiter picks ';' when the header line has more semicolons than
// commas, as written by spreadsheet apps in decimal-comma locales
func detectDelimiter(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func (s *Sheet) parse(barcodeColumn string) error {
	if len(s.rows) == 0 || isEmptyRow(s.rows[0]) {
		return fmt.Errorf("%w: %s", models.ErrEmptySheet, s.Path)
	}

	s.Header = make([]string, len(s.rows[0]))
	for i, h := range s.rows[0] {
		s.Header[i] = strings.TrimSpace(h)
	}
	s.cols = mapColumns(s.Header, barcodeColumn)

	for f := Field(0); f < fieldCount; f++ {
		if _, ok := s.cols[f]; !ok && f.Required() {
			s.warn(Warning{Column: f.String(), Message: "column missing, using defaults"})
		}
	}

	for i, row := range s.rows[1:] {
		rowNum := i + 2
		if isEmptyRow(row) {
			continue
		}

		p := s.product(row, rowNum)
		if p.IsBlank() {
			s.warn(Warning{Row: rowNum, Column: FieldSKU.String(), Message: "row has neither SKU nor product name, skipped"})
			continue
		}
		s.Products = append(s.Products, p)
	}
	return nil
}

func (s *Sheet) product(row []string, rowNum int) models.Product {
	p := models.Product{
		Row:          rowNum,
		Name:         s.text(row, FieldName),
		Variant:      s.text(row, FieldVariant),
		Brand:        s.text(row, FieldBrand),
		Fit:          s.text(row, FieldFit),
		Position:     s.text(row, FieldPosition),
		SizeCategory: s.text(row, FieldSizeCategory),
		Price:        s.text(row, FieldPrice),
		SKU:          trimWholeSuffix(s.text(row, FieldSKU)),
		Barcode:      cleanNumber(s.text(row, FieldBarcode)),
		Stock:        models.DefaultStock,
	}
	if label := s.text(row, FieldLabelName); label != "" {
		p.Name = label
	}

	if _, ok := s.cols[FieldStock]; ok {
		raw := s.text(row, FieldStock)
		stock, err := parseStock(raw)
		if err != nil {
			s.warn(Warning{Row: rowNum, Column: FieldStock.String(), Value: raw,
				Message: fmt.Sprintf("unreadable stock, using %d", models.DefaultStock)})
		} else {
			p.Stock = stock
		}
	}
	return p
}

// text returns the trimmed cell for f, or "" when the column is missing,
// the row is short or the cell holds a "nan" placeholder
func (s *Sheet) text(row []string, f Field) string {
	idx, ok := s.cols[f]
	if !ok || idx >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[idx])
	if !models.Present(v) {
		return ""
	}
	return v
}

func (s *Sheet) warn(w Warning) {
	s.Warnings = append(s.Warnings, w)
	slog.Warn("spreadsheet value replaced by default",
		"path", s.Path,
		"row", w.Row,
		"column", w.Column,
		"value", w.Value,
		"reason", w.Message)
}

// parseStock accepts integers and whole floats ("3", "3.0").
// Empty cells are unreadable.
func parseStock(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid stock %q", raw)
	}
	return int(f), nil
}

// cleanNumber undoes float formatting of numeric identifiers:
// "7750000000001.0" and "7.750000000001E+12" both become "7750000000001"
func cleanNumber(v string) string {
	if v == "" {
		return v
	}
	if strings.ContainsAny(v, "eE") || strings.HasSuffix(v, ".0") {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil && f == math.Trunc(f) && math.Abs(f) < 1e18 {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
	}
	return v
}

// trimWholeSuffix turns a numeric SKU exported as "1042.0" back into "1042"
func trimWholeSuffix(v string) string {
	head, ok := strings.CutSuffix(v, ".0")
	if !ok || head == "" {
		return v
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return v
		}
	}
	return head
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
