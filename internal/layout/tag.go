package layout

import (
	"github.com/thenoetrevino/etiquetas/internal/models"
)

const (
	mmPerPoint = 25.4 / 72

	// leading is line height as a multiple of the font size
	leading = 1.15
	// ascent approximates the cap-and-ascender height as a share of the font size
	ascent = 0.78

	scaleStep  = 0.05
	scaleFloor = 0.5
)

// Sizes are the nominal font sizes (points) and vertical spacing (mm) of a tag
type Sizes struct {
	Brand      float64
	Fit        float64
	Name       float64
	Descriptor float64
	Variant    float64
	Price      float64
	Digits     float64
	SKU        float64

	Gap        float64 // space between stacked lines
	LogoHeight float64
	PricePadX  float64 // horizontal padding inside the price box
	PricePadY  float64
}

// DefaultSizes suits a 3.05 x 4 cm tag
func DefaultSizes() Sizes {
	return Sizes{
		Brand:      9,
		Fit:        7.2,
		Name:       8,
		Descriptor: 6.5,
		Variant:    9.2,
		Price:      10.5,
		Digits:     5.2,
		SKU:        4.5,
		Gap:        1.0,
		LogoHeight: 6,
		PricePadX:  2.5,
		PricePadY:  0.5,
	}
}

func (s Sizes) scaled(f float64) Sizes {
	return Sizes{
		Brand:      s.Brand * f,
		Fit:        s.Fit * f,
		Name:       s.Name * f,
		Descriptor: s.Descriptor * f,
		Variant:    s.Variant * f,
		Price:      s.Price * f,
		Digits:     s.Digits * f,
		SKU:        s.SKU * f,
		Gap:        s.Gap * f,
		LogoHeight: s.LogoHeight * f,
		PricePadX:  s.PricePadX,
		PricePadY:  s.PricePadY * f,
	}
}

// TagSpec is the geometry every tag shares
type TagSpec struct {
	Width         float64
	Height        float64
	Padding       float64
	MinFontSize   float64
	BarcodeHeight float64
	HasLogo       bool
	Sizes         Sizes
}

// Box is a rectangle relative to the tag's top-left corner
type Box struct {
	X, Y, W, H float64
}

// TextLine is one line of text. X is the left edge, Baseline the text baseline.
type TextLine struct {
	Role     string
	Text     string
	Style    Style
	Size     float64
	X        float64
	Baseline float64
	Width    float64
}

// Placement is a fully laid out tag
type Placement struct {
	Logo     *Box // nil when the tag prints no logo
	Lines    []TextLine
	PriceBox *Box // nil when the price is empty
	Barcode  Box
	Scale    float64 // 1 unless the stack had to shrink
	Overflow bool    // true if even the smallest scale did not fit
}

// Line returns the line with the given role
func (p *Placement) Line(role string) (TextLine, bool) {
	for _, l := range p.Lines {
		if l.Role == role {
			return l, true
		}
	}
	return TextLine{}, false
}

// Line roles
const (
	RoleBrand      = "brand"
	RoleFit        = "fit"
	RoleName       = "name"
	RoleDescriptor = "descriptor"
	RoleVariant    = "variant"
	RolePrice      = "price"
	RoleDigits     = "digits"
	RoleSKU        = "sku"
)

type stackItem struct {
	role  string
	text  string
	style Style
	size  float64
}

// Tag lays out one record. barcodeText is the human-readable barcode value
// printed under the bars, which may carry a check digit the record lacks.
//
// Top to bottom: logo or brand, fit, name, descriptor, variant, then the
// price box and barcode share the free space evenly, then barcode digits
// and the SKU pinned to the bottom edge. When the content is taller than the
// tag every size shrinks in 5% steps, down to half size.
func Tag(m Measurer, spec TagSpec, rec *models.LabelRecord, barcodeText string) Placement {
	var p Placement
	for scale := 1.0; ; scale -= scaleStep {
		if scale < scaleFloor+1e-9 {
			scale = scaleFloor
		}
		var fits bool
		p, fits = layoutAt(m, spec, rec, barcodeText, scale)
		if fits || scale == scaleFloor {
			p.Overflow = !fits
			return p
		}
	}
}

func layoutAt(m Measurer, spec TagSpec, rec *models.LabelRecord, barcodeText string, scale float64) (Placement, bool) {
	sz := spec.Sizes.scaled(scale)
	left := spec.Padding
	usable := spec.Width - 2*spec.Padding
	top := spec.Padding
	bottom := spec.Height - spec.Padding

	p := Placement{Scale: scale}

	fitLine := func(it stackItem) TextLine {
		f := Fit(m, it.text, it.style, it.size, spec.MinFontSize, usable)
		return TextLine{
			Role:  it.role,
			Text:  f.Text,
			Style: it.style,
			Size:  f.Size,
			X:     left + (usable-f.Width)/2,
			Width: f.Width,
		}
	}

	// Top stack
	y := top
	if spec.HasLogo {
		p.Logo = &Box{X: left, Y: y, W: usable, H: sz.LogoHeight}
		y += sz.LogoHeight + sz.Gap
	}

	var items []stackItem
	if !spec.HasLogo && models.Present(rec.Brand) {
		items = append(items, stackItem{RoleBrand, rec.Brand, Bold, sz.Brand})
	}
	if models.Present(rec.Fit) {
		items = append(items, stackItem{RoleFit, rec.Fit, BoldItalic, sz.Fit})
	}
	if models.Present(rec.Name) {
		items = append(items, stackItem{RoleName, rec.Name, Bold, sz.Name})
	}
	if d := rec.Descriptor(); d != "" {
		items = append(items, stackItem{RoleDescriptor, d, Regular, sz.Descriptor})
	}
	if models.Present(rec.Variant) {
		items = append(items, stackItem{RoleVariant, rec.Variant, Bold, sz.Variant})
	}

	for _, it := range items {
		line := fitLine(it)
		line.Baseline = y + line.Size*mmPerPoint*ascent
		p.Lines = append(p.Lines, line)
		y += lineHeight(line.Size) + sz.Gap
	}
	topEnd := y

	// Bottom block, from the bottom edge up
	yb := bottom
	if models.Present(rec.SKU) {
		line := fitLine(stackItem{RoleSKU, rec.SKU, Bold, sz.SKU})
		line.Baseline = yb - line.Size*mmPerPoint*(leading-ascent)
		p.Lines = append(p.Lines, line)
		yb -= lineHeight(line.Size)
	}
	if barcodeText != "" {
		line := fitLine(stackItem{RoleDigits, barcodeText, Regular, sz.Digits})
		line.Baseline = yb - line.Size*mmPerPoint*(leading-ascent)
		p.Lines = append(p.Lines, line)
		yb -= lineHeight(line.Size)
	}

	// Middle: price box and barcode with even spacing around them
	var price TextLine
	var boxH float64
	hasPrice := models.Present(rec.Price)
	if hasPrice {
		price = fitLine(stackItem{RolePrice, rec.Price, Bold, sz.Price})
		boxH = lineHeight(price.Size) + 2*sz.PricePadY
	}
	barH := spec.BarcodeHeight * scale

	free := yb - topEnd - boxH - barH
	fits := free >= 0

	slots := 2.0
	if hasPrice {
		slots = 3
	}
	space := max(free, 0) / slots

	y = topEnd + space
	if hasPrice {
		boxW := min(price.Width+2*sz.PricePadX, usable)
		p.PriceBox = &Box{X: left + (usable-boxW)/2, Y: y, W: boxW, H: boxH}
		price.Baseline = y + sz.PricePadY + price.Size*mmPerPoint*ascent
		p.Lines = append(p.Lines, price)
		y += boxH + space
	}
	p.Barcode = Box{X: left, Y: y, W: usable, H: barH}

	return p, fits
}

func lineHeight(size float64) float64 {
	return size * mmPerPoint * leading
}
