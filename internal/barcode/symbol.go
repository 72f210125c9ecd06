package barcode

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/thenoetrevino/etiquetas/internal/models"
)

// ErrUnsupportedSymbology is returned for symbologies other than code128 and ean13
var ErrUnsupportedSymbology = errors.New("unsupported barcode symbology")

// ErrInvalidValue is returned when the value cannot be encoded in the symbology
var ErrInvalidValue = errors.New("value cannot be encoded")

// Bar is one dark run of a 1-D symbol, measured in modules
type Bar struct {
	Start int
	Width int
}

// Symbol is an encoded 1-D barcode
type Symbol struct {
	// Text is the human-readable value, including any check digit
	Text    string
	Modules []bool // true = dark
}

// Encode produces the module pattern for value
func Encode(value, symbology string) (*Symbol, error) {
	var (
		code barcode.Barcode
		err  error
	)

	switch symbology {
	case models.SymbologyCode128:
		code, err = code128.Encode(value)
	case models.SymbologyEAN13:
		// 12 digits get a check digit appended; 13 must carry a valid one
		if len(value) != 12 && len(value) != 13 {
			return nil, fmt.Errorf("%w: ean13 needs 12 or 13 digits, got %q", ErrInvalidValue, value)
		}
		code, err = ean.Encode(value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSymbology, symbology)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidValue, value, err)
	}

	bounds := code.Bounds()
	modules := make([]bool, bounds.Dx())
	for x := range modules {
		modules[x] = isDark(code.At(bounds.Min.X+x, bounds.Min.Y))
	}

	return &Symbol{Text: code.Content(), Modules: modules}, nil
}

// Width returns the symbol width in modules, without quiet zones
func (s *Symbol) Width() int { return len(s.Modules) }

// Bars collapses consecutive dark modules into bars
func (s *Symbol) Bars() []Bar {
	var bars []Bar
	start := -1
	for x, dark := range s.Modules {
		switch {
		case dark && start < 0:
			start = x
		case !dark && start >= 0:
			bars = append(bars, Bar{Start: start, Width: x - start})
			start = -1
		}
	}
	if start >= 0 {
		bars = append(bars, Bar{Start: start, Width: len(s.Modules) - start})
	}
	return bars
}

func isDark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 128
}
