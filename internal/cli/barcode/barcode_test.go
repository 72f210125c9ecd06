package barcode

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/logging"
	"github.com/thenoetrevino/etiquetas/internal/models"
	testutilcli "github.com/thenoetrevino/etiquetas/internal/testutil/cli"
)

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func TestBarcodeCommand(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, nil)

	output, err := testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{"JS-26", "PB-M", "--quiet"})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Len(t, l, 12)
		assert.NotEqual(t, byte('0'), l[0])
	}
	assert.NotEqual(t, lines[0], lines[1])

	// Same SKU, same value
	again, err := testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{"JS-26", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, lines[0], strings.TrimSpace(again))

	// A different seed changes it
	seeded, err := testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{"JS-26", "--seed", "42", "--quiet"})
	require.NoError(t, err)
	assert.NotEqual(t, lines[0], strings.TrimSpace(seeded))
}

func TestBarcodeCommand_JSON(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, func(cfg *config.Config) {
		cfg.Barcode.Symbology = models.SymbologyEAN13
	})

	output, err := testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{"JS-26", "--json"})
	require.NoError(t, err)

	result := testutilcli.ParseJSON(t, output)
	assert.Equal(t, true, result["success"])
	data := result["data"].([]interface{})
	require.Len(t, data, 1)
	v := data[0].(map[string]interface{})
	assert.Equal(t, "JS-26", v["sku"])
	assert.Len(t, v["value"], 12)
	assert.Len(t, v["printed"], 13)
}

func TestBarcodeCommand_Human(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, nil)

	output, err := testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{"JS-26"})
	require.NoError(t, err)
	assert.Contains(t, output, "SKU")
	assert.Contains(t, output, "JS-26")
}

func TestBarcodeCommand_Errors(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, nil)

	_, err := testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{"  "})
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(err))

	_, err = testutilcli.ExecuteCLICommand(t, tc, BarcodeCmd(), []string{})
	assert.Error(t, err)
}
