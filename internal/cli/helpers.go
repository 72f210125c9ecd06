package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thenoetrevino/etiquetas/internal/barcode"
	"github.com/thenoetrevino/etiquetas/internal/config"
	"github.com/thenoetrevino/etiquetas/internal/render"
	labelservice "github.com/thenoetrevino/etiquetas/internal/services/labels"
	"github.com/thenoetrevino/etiquetas/internal/spreadsheet"
)

// ErrUsage marks malformed arguments
var ErrUsage = errors.New("invalid usage")

// ParseQuantities parses repeated SKU=N values into an override map
func ParseQuantities(values []string) (map[string]int, error) {
	if len(values) == 0 {
		return nil, nil
	}

	quantities := make(map[string]int, len(values))
	for _, v := range values {
		sku, raw, ok := strings.Cut(v, "=")
		sku = strings.TrimSpace(sku)
		if !ok || sku == "" {
			return nil, fmt.Errorf("%w: quantity %q must look like SKU=N", ErrUsage, v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: quantity for %s must be a whole number, got %q", ErrUsage, sku, raw)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: quantity for %s cannot be negative", ErrUsage, sku)
		}
		quantities[sku] = n
	}
	return quantities, nil
}

// Failure describes how a command error is shown to the user
type Failure struct {
	Code       string
	Exit       int
	Suggestion string
}

// Classify maps a command error to an error code, exit code and suggestion
func Classify(err error) Failure {
	switch {
	case errors.Is(err, ErrUsage):
		return Failure{"INVALID_USAGE", ExitUsage, "Run with --help to see the expected arguments"}
	case errors.Is(err, spreadsheet.ErrNotFound):
		return Failure{"FILE_NOT_FOUND", ExitNotFound, "Check the spreadsheet path"}
	case errors.Is(err, render.ErrLogoNotFound):
		return Failure{"LOGO_NOT_FOUND", ExitNotFound, "Fix output.logo in the config file or remove it"}
	case errors.Is(err, spreadsheet.ErrSheetNotFound):
		return Failure{"SHEET_NOT_FOUND", ExitNotFound, "Set spreadsheet.sheet to one of the workbook's sheets"}
	case labelservice.IsDataError(err):
		return Failure{"INVALID_DATA", ExitDataErr, "Check that the first row holds the column headers"}
	case errors.Is(err, config.ErrInvalidConfig):
		return Failure{"INVALID_CONFIG", ExitValidation, "Run 'etiquetas config show' to review the effective settings"}
	case errors.Is(err, labelservice.ErrNegativeQuantity),
		errors.Is(err, labelservice.ErrEmptyInput),
		errors.Is(err, labelservice.ErrNoSKUs),
		errors.Is(err, labelservice.ErrEmptySKU),
		errors.Is(err, labelservice.ErrEmptyProduct):
		return Failure{"VALIDATION_ERROR", ExitValidation, ""}
	case errors.Is(err, labelservice.ErrDuplicateSKU),
		errors.Is(err, barcode.ErrTaken):
		return Failure{"DUPLICATE", ExitValidation, "Run 'etiquetas inspect' on the spreadsheet to see the existing rows"}
	case errors.Is(err, render.ErrPDF):
		return Failure{"PDF_ERROR", ExitError, "Check that the output directory is writable"}
	default:
		return Failure{"ERROR", ExitError, ""}
	}
}

// Fail reports err through the formatter and returns the error the command
// should hand back to cobra
func Fail(formatter *OutputFormatter, err error) error {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return err
	}

	f := Classify(err)
	if fmtErr := formatter.ErrorWithSuggestion(f.Code, err.Error(), f.Suggestion); fmtErr != nil {
		return &CommandError{Code: f.Exit, Err: err}
	}
	return &CommandError{Code: f.Exit, Err: err, Reported: true}
}
