// Package layout computes where text, price box and barcode go on a tag and
// where tags go on a page. All lengths are millimetres, origin top-left.
package layout

import (
	"math"
	"strings"
)

// Style is a font style, spelled the way PDF writers expect it
type Style string

// Font styles
const (
	Regular    Style = ""
	Bold       Style = "B"
	Italic     Style = "I"
	BoldItalic Style = "BI"
)

// SizeStep is how much a font shrinks per fitting attempt, in points
const SizeStep = 0.25

// Ellipsis marks truncated text
const Ellipsis = "..."

// Measurer reports the width in millimetres of text set in the given style and point size
type Measurer interface {
	StringWidth(text string, style Style, size float64) float64
}

// Fitted is text that fits its box
type Fitted struct {
	Text      string
	Size      float64 // points
	Width     float64 // mm
	Truncated bool
}

// Fit shrinks text from size towards minSize in SizeStep steps until it is no
// wider than maxWidth. Text still too wide at minSize is cut and ends in an
// ellipsis; if not even the ellipsis fits the result is empty.
func Fit(m Measurer, text string, style Style, size, minSize, maxWidth float64) Fitted {
	if minSize > size {
		minSize = size
	}
	if minSize <= 0 {
		minSize = math.Min(SizeStep, size)
	}
	if text == "" {
		return Fitted{Size: size}
	}

	steps := int(math.Floor((size-minSize)/SizeStep + 1e-9))
	for i := 0; i <= steps; i++ {
		s := size - float64(i)*SizeStep
		if w := m.StringWidth(text, style, s); w <= maxWidth {
			return Fitted{Text: text, Size: s, Width: w}
		}
	}
	if w := m.StringWidth(text, style, minSize); w <= maxWidth {
		return Fitted{Text: text, Size: minSize, Width: w}
	}

	runes := []rune(text)
	for n := len(runes) - 1; n >= 0; n-- {
		cand := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		if w := m.StringWidth(cand, style, minSize); w <= maxWidth {
			return Fitted{Text: cand, Size: minSize, Width: w, Truncated: true}
		}
	}
	return Fitted{Size: minSize, Truncated: true}
}
