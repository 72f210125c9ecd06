package labels

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/etiquetas/internal/barcode"
	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/logging"
	"github.com/thenoetrevino/etiquetas/internal/models"
	"github.com/thenoetrevino/etiquetas/internal/spreadsheet"
	"github.com/thenoetrevino/etiquetas/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func setupService(t *testing.T) (Service, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	return NewService(cfg), cfg
}

// ============================================================================
// GENERATE
// ============================================================================

func TestGenerate_ReplicatesByStock(t *testing.T) {
	svc, cfg := setupService(t)
	input := testutil.StandardSheet(t)

	res, err := svc.Generate(context.Background(), GenerateRequest{Input: input, UseStock: true})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 5, res.Tags)
	assert.Equal(t, 2, res.Pages) // three tags per page
	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.NewBarcodes)
	assert.Equal(t, cfg.OutputPath(false), res.Output)
	assert.Empty(t, res.SheetOutput)

	_, err = os.Stat(res.Output)
	assert.NoError(t, err)
}

func TestGenerate_WithoutStockPrintsOnePerProduct(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.StandardSheet(t)

	res, err := svc.Generate(context.Background(), GenerateRequest{
		Input:      input,
		Output:     filepath.Join(t.TempDir(), "out.pdf"),
		Quantities: map[string]int{"PB-M": 4},
	})
	require.NoError(t, err)

	// JS-26 and CA-L once each, PB-M overridden to four
	assert.Equal(t, 6, res.Tags)
	assert.Equal(t, 0, res.Skipped)
}

func TestGenerate_UnknownQuantitySKUWarns(t *testing.T) {
	svc, _ := setupService(t)

	res, err := svc.Generate(context.Background(), GenerateRequest{
		Input:      testutil.StandardSheet(t),
		Output:     filepath.Join(t.TempDir(), "out.pdf"),
		Quantities: map[string]int{"PB-M": 2, "JS-62": 5},
	})
	require.NoError(t, err)

	// The typo prints nothing extra but is reported
	assert.Equal(t, 4, res.Tags)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `"JS-62"`)
}

func TestGenerate_SingleMode(t *testing.T) {
	svc, cfg := setupService(t)
	cfg.Page.Mode = models.ModeSingle

	res, err := svc.Generate(context.Background(), GenerateRequest{Input: testutil.StandardSheet(t), UseStock: true})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Pages)
}

func TestGenerate_WriteBack(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.WriteSheet(t,
		[]interface{}{"Jean Skinny", "Talla 26", "Acme", 115, "JS-26", 1, ""},
		[]interface{}{"Polo Basico", "M", "Acme", 89.9, "PB-M", 1, "7750000000001"},
	)
	sheetOut := filepath.Join(t.TempDir(), "con_codigos.xlsx")

	res, err := svc.Generate(context.Background(), GenerateRequest{
		Input:       input,
		UseStock:    true,
		WriteBack:   true,
		SheetOutput: sheetOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewBarcodes)
	assert.Equal(t, sheetOut, res.SheetOutput)

	// The written sheet now has every barcode and inspecting it derives nothing
	in, err := svc.Inspect(context.Background(), InspectRequest{Input: sheetOut, UseStock: true})
	require.NoError(t, err)
	assert.Equal(t, 0, in.NewBarcodes)
	for _, row := range in.Rows {
		assert.Equal(t, SourceSheet, row.BarcodeSource)
	}
	assert.Equal(t, "7750000000001", in.Rows[1].Barcode)

	// The source file is untouched
	orig, err := spreadsheet.Open(input, spreadsheet.Options{})
	require.NoError(t, err)
	assert.Empty(t, orig.Products[0].Barcode)
}

func TestGenerate_BarcodesAreStableAcrossRuns(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.StandardSheet(t)

	first, err := svc.Inspect(context.Background(), InspectRequest{Input: input})
	require.NoError(t, err)
	second, err := svc.Inspect(context.Background(), InspectRequest{Input: input})
	require.NoError(t, err)

	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].Barcode, second.Rows[i].Barcode)
		assert.Len(t, first.Rows[i].Barcode, 12)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestGenerate_NoPrintableRows(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.WriteSheet(t,
		[]interface{}{"Jean", "26", "Acme", 115, "J-1", 0, ""},
		[]interface{}{"Polo", "M", "Acme", 90, "P-1", -1, ""},
	)

	_, err := svc.Generate(context.Background(), GenerateRequest{Input: input, UseStock: true})
	assert.True(t, errors.Is(err, models.ErrNoPrintableRows))
	assert.True(t, IsDataError(err))
}

func TestGenerate_ValidationErrors(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Generate(context.Background(), GenerateRequest{})
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = svc.Generate(context.Background(), GenerateRequest{Input: filepath.Join(t.TempDir(), "nope.xlsx")})
	assert.True(t, errors.Is(err, spreadsheet.ErrNotFound))
	assert.False(t, IsDataError(err))

	_, err = svc.Generate(context.Background(), GenerateRequest{
		Input:      testutil.StandardSheet(t),
		Quantities: map[string]int{"JS-26": -2},
	})
	assert.True(t, errors.Is(err, ErrNegativeQuantity))
}

func TestGenerate_Cancelled(t *testing.T) {
	svc, _ := setupService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, GenerateRequest{Input: testutil.StandardSheet(t), UseStock: true})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerate_MissingColumnsStillPrint(t *testing.T) {
	svc, _ := setupService(t)

	input := testutil.WriteSheetWithHeader(t,
		[]interface{}{"Nombre Producto/Servicio", "SKU", "Precio handtag"},
		[]interface{}{"Jean", "J-1", "consultar"},
	)

	res, err := svc.Generate(context.Background(), GenerateRequest{Input: input, UseStock: true})
	require.NoError(t, err)

	// Stock defaults to one tag
	assert.Equal(t, 1, res.Tags)
	joined := strings.Join(res.Warnings, "\n")
	assert.Contains(t, joined, "Stock")
	assert.Contains(t, joined, "consultar")
}

// ============================================================================
// PREVIEW
// ============================================================================

func TestPreview_SingleTag(t *testing.T) {
	svc, _ := setupService(t)

	res, err := svc.Preview(context.Background(), GenerateRequest{Input: testutil.StandardSheet(t), UseStock: true, WriteBack: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Tags)
	assert.Equal(t, 1, res.Pages)
	assert.True(t, strings.HasSuffix(res.Output, "_preview.pdf"))
	assert.Empty(t, res.SheetOutput)
}

// ============================================================================
// INSPECT
// ============================================================================

func TestInspect(t *testing.T) {
	svc, _ := setupService(t)

	in, err := svc.Inspect(context.Background(), InspectRequest{Input: testutil.StandardSheet(t), UseStock: true})
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", in.Sheet)
	assert.Equal(t, 3, in.Products)
	assert.Equal(t, 5, in.Tags)
	assert.Equal(t, 3, in.NewBarcodes)

	require.Len(t, in.Rows, 3)
	assert.Equal(t, "S/ 115.00", in.Rows[0].Price)
	assert.Equal(t, "S/ 89.90", in.Rows[1].Price)
	assert.Equal(t, 0, in.Rows[2].Quantity)
	assert.Equal(t, SourceDerived, in.Rows[0].BarcodeSource)
}

// ============================================================================
// BARCODES
// ============================================================================

func TestBarcodes(t *testing.T) {
	svc, cfg := setupService(t)

	got, err := svc.Barcodes(context.Background(), []string{"JS-26", " PB-M "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "PB-M", got[1].SKU)
	assert.Len(t, got[0].Value, cfg.Barcode.Digits)
	assert.Equal(t, got[0].Value, got[0].Printed)

	// Matches what a generation run derives for the same SKU
	in, err := svc.Inspect(context.Background(), InspectRequest{Input: testutil.StandardSheet(t)})
	require.NoError(t, err)
	assert.Equal(t, in.Rows[0].Barcode, got[0].Value)
}

func TestBarcodes_EAN13PrintsCheckDigit(t *testing.T) {
	svc, cfg := setupService(t)
	cfg.Barcode.Symbology = models.SymbologyEAN13

	got, err := svc.Barcodes(context.Background(), []string{"JS-26"})
	require.NoError(t, err)
	assert.Len(t, got[0].Printed, 13)
	assert.True(t, strings.HasPrefix(got[0].Printed, got[0].Value))
}

func TestBarcodes_Errors(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Barcodes(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNoSKUs))

	_, err = svc.Barcodes(context.Background(), []string{"A", "  "})
	assert.True(t, errors.Is(err, ErrEmptySKU))
}

// ============================================================================
// ADD
// ============================================================================

func TestAdd_DerivesBarcodeLikeGenerate(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.StandardSheet(t)

	added, err := svc.Add(context.Background(), AddRequest{
		Input: input,
		Product: models.Product{
			Name:    " Jean Mom ",
			Variant: "Talla 28",
			Brand:   "Acme",
			Price:   "S/. 129.90",
			SKU:     " JM-28 ",
			Stock:   2,
		},
	})
	require.NoError(t, err)
	assert.False(t, added.Created)
	assert.Equal(t, 5, added.Row)
	assert.Equal(t, "JM-28", added.SKU)
	assert.Equal(t, "S/ 129.90", added.Price)
	assert.Equal(t, SourceDerived, added.BarcodeSource)
	assert.Len(t, added.Barcode, 12)
	assert.NotEmpty(t, added.RunID)

	values, err := svc.Barcodes(context.Background(), []string{"JM-28"})
	require.NoError(t, err)
	assert.Equal(t, values[0].Value, added.Barcode)

	// The new row is picked up by the next run with its stored barcode
	in, err := svc.Inspect(context.Background(), InspectRequest{Input: input, UseStock: true})
	require.NoError(t, err)
	require.Len(t, in.Rows, 4)
	last := in.Rows[3]
	assert.Equal(t, "JM-28", last.SKU)
	assert.Equal(t, 2, last.Quantity)
	assert.Equal(t, added.Barcode, last.Barcode)
	assert.Equal(t, SourceSheet, last.BarcodeSource)
}

func TestAdd_CreatesSpreadsheet(t *testing.T) {
	svc, _ := setupService(t)
	input := filepath.Join(t.TempDir(), "nuevos.xlsx")

	added, err := svc.Add(context.Background(), AddRequest{
		Input:   input,
		Product: models.Product{Name: "Polo", SKU: "PO-S", Price: "59", Stock: 1, Barcode: "912345678901"},
	})
	require.NoError(t, err)
	assert.True(t, added.Created)
	assert.Equal(t, 2, added.Row)
	assert.Equal(t, SourceGiven, added.BarcodeSource)
	assert.Equal(t, "912345678901", added.Barcode)

	res, err := svc.Generate(context.Background(), GenerateRequest{Input: input, UseStock: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Tags)
	assert.Equal(t, 0, res.NewBarcodes)
}

func TestAdd_Output(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.StandardSheet(t)
	dst := filepath.Join(t.TempDir(), "copia.xlsx")

	added, err := svc.Add(context.Background(), AddRequest{
		Input:   input,
		Output:  dst,
		Product: models.Product{Name: "Polo", SKU: "PO-S", Stock: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, dst, added.Sheet)

	orig, err := spreadsheet.Open(input, spreadsheet.Options{})
	require.NoError(t, err)
	assert.Len(t, orig.Products, 3)

	copied, err := spreadsheet.Open(dst, spreadsheet.Options{})
	require.NoError(t, err)
	assert.Len(t, copied.Products, 4)
}

func TestAdd_UnparseablePriceWarns(t *testing.T) {
	svc, _ := setupService(t)

	added, err := svc.Add(context.Background(), AddRequest{
		Input:   testutil.StandardSheet(t),
		Product: models.Product{Name: "Polo", SKU: "PO-S", Price: "consultar", Stock: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "consultar", added.Price)
	require.Len(t, added.Warnings, 1)
	assert.Contains(t, added.Warnings[0], "consultar")
}

func TestAdd_Errors(t *testing.T) {
	svc, _ := setupService(t)
	input := testutil.WriteSheet(t,
		[]interface{}{"Jean Skinny", "Talla 26", "Acme", 115, "JS-26", 1, "912345678901"},
	)

	tests := []struct {
		name    string
		req     AddRequest
		wantErr error
	}{
		{"no input", AddRequest{Product: models.Product{SKU: "A"}}, ErrEmptyInput},
		{"blank product", AddRequest{Input: input, Product: models.Product{SKU: "  "}}, ErrEmptyProduct},
		{"negative stock", AddRequest{Input: input, Product: models.Product{SKU: "A", Stock: -1}}, ErrNegativeQuantity},
		{"duplicate sku", AddRequest{Input: input, Product: models.Product{SKU: "JS-26"}}, ErrDuplicateSKU},
		{"barcode taken", AddRequest{Input: input, Product: models.Product{SKU: "B", Barcode: "912345678901"}}, barcode.ErrTaken},
		{"unsupported format", AddRequest{Input: filepath.Join(t.TempDir(), "x.ods"), Product: models.Product{SKU: "A"}}, models.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), tt.req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	// Nothing was appended by the failed calls
	s, err := spreadsheet.Open(input, spreadsheet.Options{})
	require.NoError(t, err)
	assert.Len(t, s.Products, 1)
}
