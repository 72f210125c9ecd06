package layout

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/etiquetas/internal/models"
)

// fixedMeasurer gives every rune the same advance, proportional to the size.
// Bold runes are 10% wider.
type fixedMeasurer struct{}

func (fixedMeasurer) StringWidth(text string, style Style, size float64) float64 {
	w := float64(utf8.RuneCountInString(text)) * size * 0.2
	if strings.Contains(string(style), "B") {
		w *= 1.1
	}
	return w
}

func TestFit_AlreadyFits(t *testing.T) {
	f := Fit(fixedMeasurer{}, "Talla 26", Bold, 9, 4, 28.5)

	assert.Equal(t, "Talla 26", f.Text)
	assert.Equal(t, 9.0, f.Size)
	assert.False(t, f.Truncated)
}

func TestFit_Shrinks(t *testing.T) {
	// 20 runes at 0.2 mm/pt: fits 20mm only at 5pt or below
	f := Fit(fixedMeasurer{}, strings.Repeat("x", 20), Regular, 8, 4, 20)

	assert.False(t, f.Truncated)
	assert.Equal(t, 5.0, f.Size)
	assert.LessOrEqual(t, f.Width, 20.0)
}

func TestFit_TruncatesAtMinimum(t *testing.T) {
	text := "Pantalon Jogger Cargo Premium Edicion Limitada"
	f := Fit(fixedMeasurer{}, text, Regular, 8, 4, 20)

	assert.True(t, f.Truncated)
	assert.Equal(t, 4.0, f.Size)
	assert.True(t, strings.HasSuffix(f.Text, Ellipsis))
	assert.LessOrEqual(t, f.Width, 20.0)
	assert.True(t, strings.HasPrefix(text, strings.TrimSuffix(f.Text, Ellipsis)))
}

func TestFit_NothingFits(t *testing.T) {
	f := Fit(fixedMeasurer{}, "Jean", Regular, 8, 4, 0.5)

	assert.Empty(t, f.Text)
	assert.True(t, f.Truncated)
}

func TestFit_NeverWiderThanLimit(t *testing.T) {
	texts := []string{"", "M", "Camisa Oxford", "Ñandú Águila Cigüeña", strings.Repeat("W", 200)}
	for _, text := range texts {
		for _, maxWidth := range []float64{0, 1, 5, 12.3, 28.5, 100} {
			for _, minSize := range []float64{0, 4, 10, 20} {
				f := Fit(fixedMeasurer{}, text, BoldItalic, 10, minSize, maxWidth)
				assert.LessOrEqual(t, fixedMeasurer{}.StringWidth(f.Text, BoldItalic, f.Size), maxWidth+1e-9,
					"text %q max %.1f min %.1f", text, maxWidth, minSize)
			}
		}
	}
}

func defaultSpec() TagSpec {
	return TagSpec{
		Width:         30.5,
		Height:        40,
		Padding:       1,
		MinFontSize:   4,
		BarcodeHeight: 7.5,
		Sizes:         DefaultSizes(),
	}
}

func fullRecord() *models.LabelRecord {
	return &models.LabelRecord{
		Name:         "Jean Skinny",
		Variant:      "Talla 26",
		Brand:        "Acme",
		Fit:          "Slim",
		Position:     "Rise",
		SizeCategory: "Mid",
		Price:        "S/ 115.00",
		SKU:          "JS-26",
		Barcode:      "912345678901",
	}
}

func TestTag_StackOrder(t *testing.T) {
	spec := defaultSpec()
	p := Tag(fixedMeasurer{}, spec, fullRecord(), "912345678901")

	assert.Equal(t, 1.0, p.Scale)
	assert.False(t, p.Overflow)
	assert.Nil(t, p.Logo)

	var baselines []float64
	for _, role := range []string{RoleBrand, RoleFit, RoleName, RoleDescriptor, RoleVariant, RolePrice, RoleDigits, RoleSKU} {
		l, ok := p.Line(role)
		require.True(t, ok, "missing %s", role)
		baselines = append(baselines, l.Baseline)
	}
	assert.IsIncreasing(t, baselines)

	desc, _ := p.Line(RoleDescriptor)
	assert.Equal(t, "Mid - Rise", desc.Text)

	require.NotNil(t, p.PriceBox)
	variant, _ := p.Line(RoleVariant)
	digits, _ := p.Line(RoleDigits)
	assert.Greater(t, p.PriceBox.Y, variant.Baseline)
	assert.Greater(t, p.Barcode.Y, p.PriceBox.Y+p.PriceBox.H)
	assert.Less(t, p.Barcode.Y+p.Barcode.H, digits.Baseline)
}

func TestTag_StaysInsideTag(t *testing.T) {
	spec := defaultSpec()
	rec := fullRecord()
	rec.Name = "Casaca Impermeable Con Capucha Desmontable y Forro Polar"

	p := Tag(fixedMeasurer{}, spec, rec, rec.Barcode)

	usable := spec.Width - 2*spec.Padding
	for _, l := range p.Lines {
		assert.LessOrEqual(t, l.Width, usable, l.Role)
		assert.GreaterOrEqual(t, l.X, spec.Padding-1e-9, l.Role)
		assert.LessOrEqual(t, l.X+l.Width, spec.Width-spec.Padding+1e-9, l.Role)
		assert.LessOrEqual(t, l.Baseline, spec.Height-spec.Padding, l.Role)
	}

	name, _ := p.Line(RoleName)
	assert.True(t, strings.HasSuffix(name.Text, Ellipsis))

	sku, _ := p.Line(RoleSKU)
	assert.InDelta(t, spec.Height-spec.Padding, sku.Baseline, 1.0)
}

func TestTag_OptionalLinesOmitted(t *testing.T) {
	rec := fullRecord()
	rec.Fit = "nan"
	rec.Position = ""
	rec.SizeCategory = ""

	p := Tag(fixedMeasurer{}, defaultSpec(), rec, rec.Barcode)

	_, ok := p.Line(RoleFit)
	assert.False(t, ok)
	_, ok = p.Line(RoleDescriptor)
	assert.False(t, ok)
}

func TestTag_LogoReplacesBrand(t *testing.T) {
	spec := defaultSpec()
	spec.HasLogo = true

	p := Tag(fixedMeasurer{}, spec, fullRecord(), "912345678901")

	require.NotNil(t, p.Logo)
	assert.Equal(t, spec.Padding, p.Logo.Y)
	_, ok := p.Line(RoleBrand)
	assert.False(t, ok)
}

func TestTag_ShrinksToFit(t *testing.T) {
	spec := defaultSpec()
	spec.Height = 30

	p := Tag(fixedMeasurer{}, spec, fullRecord(), "912345678901")

	assert.Less(t, p.Scale, 1.0)
	assert.GreaterOrEqual(t, p.Scale, 0.5)
	assert.False(t, p.Overflow)
}

func TestTag_OverflowStopsAtFloor(t *testing.T) {
	spec := defaultSpec()
	spec.Height = 8

	p := Tag(fixedMeasurer{}, spec, fullRecord(), "912345678901")

	assert.Equal(t, 0.5, p.Scale)
	assert.True(t, p.Overflow)
}

func TestTag_NoPrice(t *testing.T) {
	rec := fullRecord()
	rec.Price = ""

	p := Tag(fixedMeasurer{}, defaultSpec(), rec, rec.Barcode)

	assert.Nil(t, p.PriceBox)
	_, ok := p.Line(RolePrice)
	assert.False(t, ok)
}

func TestNewGrid_TiledDefaults(t *testing.T) {
	g, err := NewGrid(GridSpec{
		Mode:      models.ModeTiled,
		TagWidth:  30.5,
		TagHeight: 40,
		PageWidth: 100.2,
		Rows:      1,
		Gap:       3,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Columns)
	assert.Equal(t, 1, g.Rows)
	assert.InDelta(t, 40.0, g.PageHeight, 1e-9)
	assert.InDelta(t, 1.35, g.OffsetX, 1e-9)

	page, x, y := g.Place(2)
	assert.Equal(t, 0, page)
	assert.InDelta(t, 1.35+2*33.5, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	page, x, _ = g.Place(3)
	assert.Equal(t, 1, page)
	assert.InDelta(t, 1.35, x, 1e-9)
}

func TestNewGrid_Single(t *testing.T) {
	g, err := NewGrid(GridSpec{Mode: models.ModeSingle, TagWidth: 30.5, TagHeight: 40, Margin: 2, PageWidth: 100.2})
	require.NoError(t, err)

	assert.Equal(t, 1, g.PerPage())
	assert.InDelta(t, 34.5, g.PageWidth, 1e-9)
	assert.InDelta(t, 44.0, g.PageHeight, 1e-9)

	page, x, y := g.Place(4)
	assert.Equal(t, 4, page)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 2.0, y)
}

func TestNewGrid_RowsAndColumns(t *testing.T) {
	g, err := NewGrid(GridSpec{
		Mode: models.ModeTiled, TagWidth: 30, TagHeight: 40, PageWidth: 100, Columns: 2, Rows: 2, Gap: 2, Margin: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, g.PerPage())
	assert.InDelta(t, 84.0, g.PageHeight, 1e-9)
	// block is 62mm wide on 98mm of usable width
	assert.InDelta(t, 19.0, g.OffsetX, 1e-9)

	_, _, y := g.Place(2)
	assert.InDelta(t, 43.0, y, 1e-9)
}

func TestGrid_Pages(t *testing.T) {
	g := Grid{Columns: 3, Rows: 2}
	tests := map[int]int{0: 0, 1: 1, 6: 1, 7: 2, 12: 2, 13: 3}
	for n, want := range tests {
		assert.Equal(t, want, g.Pages(n), "tags %d", n)
	}
}

func TestNewGrid_DoesNotFit(t *testing.T) {
	_, err := NewGrid(GridSpec{Mode: models.ModeTiled, TagWidth: 30.5, TagHeight: 40, PageWidth: 100.2, Columns: 4, Gap: 3})
	assert.True(t, errors.Is(err, ErrDoesNotFit))

	_, err = NewGrid(GridSpec{Mode: models.ModeTiled, TagWidth: 120, TagHeight: 40, PageWidth: 100.2})
	assert.True(t, errors.Is(err, ErrDoesNotFit))
}
