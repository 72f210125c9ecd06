package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/huh/v2"
	"github.com/thenoetrevino/etiquetas/internal/models"
)

// Answers holds what the user picked in the wizard
type Answers struct {
	Input    string
	Mode     string
	UseStock bool
	Preview  bool
	Output   string
	Open     bool
	Confirm  bool
}

// NewForm builds the wizard form writing into a
func NewForm(a *Answers) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Key("input").
			Title("Spreadsheet").
			Description("Product export (.xlsx or .csv)").
			Placeholder("productos.xlsx").
			Validate(validateSpreadsheet).
			Value(&a.Input),

		huh.NewSelect[string]().
			Key("mode").
			Title("Page layout").
			Options(
				huh.NewOption("Tiled: several tags per page", models.ModeTiled),
				huh.NewOption("Single: one tag per page", models.ModeSingle),
			).
			Value(&a.Mode),

		huh.NewConfirm().
			Key("stock").
			Title("One tag per unit in stock?").
			Affirmative("Yes").
			Negative("No, one per product").
			Value(&a.UseStock),

		huh.NewConfirm().
			Key("preview").
			Title("Preview the first tag only?").
			Affirmative("Yes").
			Negative("No").
			Value(&a.Preview),

		huh.NewInput().
			Key("output").
			Title("PDF path (optional)").
			Placeholder("defaults to the configured output").
			Value(&a.Output),

		huh.NewConfirm().
			Key("open").
			Title("Open the PDF when done?").
			Affirmative("Yes").
			Negative("No").
			Value(&a.Open),

		huh.NewConfirm().
			Key("confirm").
			Title("Generate now?").
			Affirmative("Yes").
			Negative("No").
			Value(&a.Confirm),
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	return form.WithKeyMap(keyMap())
}

// validateSpreadsheet accepts existing .xlsx, .xlsm and .csv files
func validateSpreadsheet(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("enter the spreadsheet path")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".csv":
	default:
		return fmt.Errorf("only .xlsx and .csv files can be read")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file not found")
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// Args returns the generate arguments for the answers
func (a *Answers) Args() []string {
	args := []string{strings.TrimSpace(a.Input)}
	if a.Mode != "" {
		args = append(args, "--mode", a.Mode)
	}
	if !a.UseStock {
		args = append(args, "--no-stock")
	}
	if a.Preview {
		args = append(args, "--preview")
	}
	if out := strings.TrimSpace(a.Output); out != "" {
		args = append(args, "--output", out)
	}
	if a.Open {
		args = append(args, "--open")
	}
	return args
}
