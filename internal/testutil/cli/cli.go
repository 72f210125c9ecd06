// Package cli runs cobra commands against an in-memory CLI instance
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	etcli "github.com/thenoetrevino/etiquetas/internal/cli"
	"github.com/thenoetrevino/etiquetas/internal/config"
)

// TestCLI is a CLI whose output streams are captured
type TestCLI struct {
	*etcli.CLI
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer
}

// SetupCLITest returns a CLI using the default config with output written
// to a temp dir. mutate may adjust the config before use.
func SetupCLITest(t *testing.T, mutate func(*config.Config)) *TestCLI {
	t.Helper()

	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	c := etcli.NewCLI(cfg, "")
	tc := &TestCLI{CLI: c, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	c.Out = tc.Stdout
	c.Err = tc.Stderr
	c.In = strings.NewReader("")
	return tc
}

// ExecuteCLICommand executes a CLI command with the test CLI in its context
// and returns what it wrote to stdout
func ExecuteCLICommand(t *testing.T, tc *TestCLI, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if tc == nil {
		t.Fatal("test CLI cannot be nil - SetupCLITest must be called first")
	}

	tc.Stdout.Reset()
	tc.Stderr.Reset()

	// cobra falls back to os.Args when args is nil
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(tc.Stdout)
	cmd.SetErr(tc.Stderr)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := etcli.WithCLI(context.Background(), tc.CLI)
	err := cmd.ExecuteContext(ctx)
	return tc.Stdout.String(), err
}

// ParseJSON decodes a JSON envelope written by a command
func ParseJSON(t *testing.T, output string) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
