package inspect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/logging"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
	"github.com/thenoetrevino/etiquetas/internal/testutil"
	testutilcli "github.com/thenoetrevino/etiquetas/internal/testutil/cli"
)

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func TestInspectCommand(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, nil)
	input := testutil.StandardSheet(t)

	t.Run("quiet prints the tag total", func(t *testing.T) {
		output, err := testutilcli.ExecuteCLICommand(t, tc, InspectCmd(), []string{input, "--quiet"})
		require.NoError(t, err)
		assert.Equal(t, "5", strings.TrimSpace(output))
	})

	t.Run("no stock with override", func(t *testing.T) {
		output, err := testutilcli.ExecuteCLICommand(t, tc, InspectCmd(), []string{input, "--no-stock", "--qty", "CA-L=2", "--quiet"})
		require.NoError(t, err)
		assert.Equal(t, "4", strings.TrimSpace(output))
	})

	t.Run("json rows", func(t *testing.T) {
		output, err := testutilcli.ExecuteCLICommand(t, tc, InspectCmd(), []string{input, "--json"})
		require.NoError(t, err)

		data := testutilcli.ParseJSON(t, output)["data"].(map[string]interface{})
		rows := data["rows"].([]interface{})
		require.Len(t, rows, 3)
		first := rows[0].(map[string]interface{})
		assert.Equal(t, "JS-26", first["sku"])
		assert.Equal(t, "S/ 115.00", first["price"])
		assert.Equal(t, labelservice.SourceDerived, first["barcode_source"])
	})

	t.Run("human table", func(t *testing.T) {
		output, err := testutilcli.ExecuteCLICommand(t, tc, InspectCmd(), []string{input})
		require.NoError(t, err)
		assert.Contains(t, output, "JS-26")
		assert.Contains(t, output, "Polo Basico")
	})

	t.Run("nothing is written", func(t *testing.T) {
		entries, err := os.ReadDir(tc.App.Config.Output.Dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := testutilcli.ExecuteCLICommand(t, tc, InspectCmd(), []string{filepath.Join(t.TempDir(), "x.csv")})
		require.Error(t, err)
		assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "productos.ods")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := testutilcli.ExecuteCLICommand(t, tc, InspectCmd(), []string{path})
		require.Error(t, err)
		assert.Equal(t, cli.ExitDataErr, cli.ExitCode(err))
	})
}

func TestMarkdown(t *testing.T) {
	in := &labelservice.Inspection{
		Input: "productos.xlsx",
		Sheet: "Hoja1",
		Rows: []labelservice.ProductRow{
			{Row: 2, SKU: "JS|26", Name: "Jean Skinny Tiro Alto Elastizado Azul Oscuro", Variant: "26", Price: "S/ 115.00", Quantity: 3, Barcode: "123456789012", BarcodeSource: labelservice.SourceDerived},
			{Row: 3, SKU: "PB-M", Name: "Polo", Variant: "M", Price: "S/ 89.90", Quantity: 0, Barcode: "7750000000001", BarcodeSource: labelservice.SourceSheet},
		},
		Products:    2,
		Tags:        3,
		NewBarcodes: 1,
		Warnings:    []string{"row 4: Stock \"x\" is not a number"},
	}

	md := markdown(in)
	assert.Contains(t, md, "# productos.xlsx (Hoja1)")
	assert.Contains(t, md, `JS\|26`)
	assert.Contains(t, md, "123456789012 \\*")
	assert.NotContains(t, md, "7750000000001 \\*")
	assert.Contains(t, md, "Jean Skinny Tiro Alto Elast…")
	assert.Contains(t, md, "**2** products, **3** tags, **1** new barcodes (marked *)")
	assert.Contains(t, md, "## Warnings")

	empty := markdown(&labelservice.Inspection{Input: "vacio.csv"})
	assert.Contains(t, empty, "No products found")
	assert.NotContains(t, empty, "Warnings")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "Polo", shorten("Polo", 10))
	assert.Equal(t, "Camis…", shorten("Camisa Oxford", 6))
}
