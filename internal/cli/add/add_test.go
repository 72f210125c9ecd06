package add

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/cli/barcode"
	"github.com/thenoetrevino/etiquetas/internal/logging"
	"github.com/thenoetrevino/etiquetas/internal/testutil"
	testutilcli "github.com/thenoetrevino/etiquetas/internal/testutil/cli"
)

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func TestAddCommand(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, nil)
	input := testutil.StandardSheet(t)

	tests := []struct {
		name      string
		args      []string
		shouldErr bool
		exit      int
		checkFunc func(t *testing.T, output string)
	}{
		{
			name: "quiet prints the barcode",
			args: []string{input, "--name", "Jean Mom", "--sku", "JM-28", "--stock", "2", "--quiet"},
			checkFunc: func(t *testing.T, output string) {
				assert.Len(t, strings.TrimSpace(output), 12)
			},
		},
		{
			name: "json envelope",
			args: []string{input, "--name", "Polo", "--sku", "PO-S", "--price", "S/. 59.90", "--json"},
			checkFunc: func(t *testing.T, output string) {
				result := testutilcli.ParseJSON(t, output)
				assert.Equal(t, true, result["success"])
				data := result["data"].(map[string]interface{})
				assert.Equal(t, "PO-S", data["sku"])
				assert.Equal(t, "S/ 59.90", data["price"])
				assert.Equal(t, float64(1), data["stock"])
				assert.Equal(t, "derived", data["barcode_source"])
				assert.Equal(t, false, data["created"])
			},
		},
		{
			name: "human output",
			args: []string{input, "--name", "Casaca", "--sku", "CA-M", "--variant", "M", "--barcode", "7750000000001"},
			checkFunc: func(t *testing.T, output string) {
				assert.Contains(t, output, "Product added")
				assert.Contains(t, output, "7750000000001 (given)")
			},
		},
		{
			name:      "missing sku",
			args:      []string{input, "--name", "Polo"},
			shouldErr: true,
			exit:      cli.ExitUsage,
		},
		{
			name:      "missing name",
			args:      []string{input, "--sku", "X-1"},
			shouldErr: true,
			exit:      cli.ExitUsage,
		},
		{
			name:      "negative stock",
			args:      []string{input, "--name", "Polo", "--sku", "X-1", "--stock", "-2"},
			shouldErr: true,
			exit:      cli.ExitUsage,
		},
		{
			name:      "duplicate sku",
			args:      []string{input, "--name", "Jean", "--sku", "JS-26"},
			shouldErr: true,
			exit:      cli.ExitValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := testutilcli.ExecuteCLICommand(t, tc, AddCmd(), tt.args)

			if tt.shouldErr {
				require.Error(t, err)
				assert.Equal(t, tt.exit, cli.ExitCode(err))
				assert.NotEmpty(t, tc.Stderr.String())
				return
			}
			require.NoError(t, err, "stderr: %s", tc.Stderr.String())
			tt.checkFunc(t, output)
		})
	}

	// Three rows were added below the original three
	assert.Len(t, testutil.ReadColumn(t, input, 5), 6)
}

func TestAddCommand_MatchesBarcodeCommand(t *testing.T) {
	tc := testutilcli.SetupCLITest(t, nil)
	input := filepath.Join(t.TempDir(), "nuevos.csv")

	added, err := testutilcli.ExecuteCLICommand(t, tc, AddCmd(),
		[]string{input, "--name", "Polo", "--sku", "PO-S", "--seed", "42", "--quiet"})
	require.NoError(t, err)

	derived, err := testutilcli.ExecuteCLICommand(t, tc, barcode.BarcodeCmd(), []string{"PO-S", "--seed", "42", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(derived), strings.TrimSpace(added))

	_, err = os.Stat(input)
	assert.NoError(t, err)
}
