// Package pricing parses handtag prices and formats them for printing.
package pricing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a cell cannot be read as an amount
var ErrInvalidPrice = errors.New("invalid price")

// Formatter turns raw price cells into "<currency> <amount>"
type Formatter struct {
	Currency string
	Decimals int32
}

// NewFormatter creates a formatter
func NewFormatter(currency string, decimals int32) *Formatter {
	return &Formatter{Currency: currency, Decimals: decimals}
}

// Parse reads an amount from a cell such as "115", "S/ 115,50", "$1,299.90" or "1.299,90"
func Parse(raw string) (decimal.Decimal, error) {
	s := stripCurrency(raw)

	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return d, nil
}

// stripCurrency keeps digits, signs and separators. A separator that follows
// currency text ("S/.", "Rs.") belongs to the symbol and is dropped too.
func stripCurrency(raw string) string {
	var b strings.Builder
	inSymbol := false
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r) || r == '-':
			inSymbol = false
			b.WriteRune(r)
		case r == '.' || r == ',':
			if !inSymbol {
				b.WriteRune(r)
			}
		case unicode.IsSpace(r):
		case unicode.IsLetter(r) || unicode.IsSymbol(r) || r == '/':
			inSymbol = true
		default:
			inSymbol = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeSeparators resolves thousands and decimal separators to a plain
// dot-decimal number. The last of '.' or ',' is the decimal mark, unless a
// single separator is followed by exactly three digits.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-lastComma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// Format returns the printable price. Unparseable input is returned verbatim
// together with the parse error so the caller can log it.
func (f *Formatter) Format(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	d, err := Parse(raw)
	if err != nil {
		return raw, err
	}
	return f.FormatAmount(d), nil
}

// FormatAmount renders an already parsed amount
func (f *Formatter) FormatAmount(d decimal.Decimal) string {
	amount := d.StringFixed(f.Decimals)
	if f.Currency == "" {
		return amount
	}
	return f.Currency + " " + amount
}
