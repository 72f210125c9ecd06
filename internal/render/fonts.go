package render

import (
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/thenoetrevino/etiquetas/internal/models"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/encoding/charmap"
)

const goFamily = "gofont"

// loadFonts registers the font family and returns its PDF name together
// with the function that prepares UTF-8 text for it
func loadFonts(pdf *fpdf.Fpdf, family string) (string, func(string) string) {
	if family == models.FontGo {
		pdf.AddUTF8FontFromBytes(goFamily, "", goregular.TTF)
		pdf.AddUTF8FontFromBytes(goFamily, "B", gobold.TTF)
		pdf.AddUTF8FontFromBytes(goFamily, "I", goitalic.TTF)
		pdf.AddUTF8FontFromBytes(goFamily, "BI", gobolditalic.TTF)
		return goFamily, func(s string) string { return s }
	}
	// Core fonts only know single-byte encodings
	return "Helvetica", toWindows1252
}

// toWindows1252 transcodes text for the core fonts. Characters outside the
// code page become '?'.
func toWindows1252(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
