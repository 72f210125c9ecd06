package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/thenoetrevino/etiquetas/internal/models"
)

// ErrDoesNotFit is returned when the page cannot hold the requested tags
var ErrDoesNotFit = errors.New("tags do not fit on page")

// GridSpec describes the page arrangement
type GridSpec struct {
	Mode      string // models.ModeSingle or models.ModeTiled
	TagWidth  float64
	TagHeight float64
	PageWidth float64 // tiled mode only
	Columns   int     // 0 = as many as fit
	Rows      int
	Gap       float64
	Margin    float64
}

// Grid is a resolved page arrangement
type Grid struct {
	PageWidth  float64
	PageHeight float64
	Columns    int
	Rows       int
	TagWidth   float64
	TagHeight  float64
	Gap        float64
	OffsetX    float64 // left edge of the first column
	OffsetY    float64 // top edge of the first row
}

// NewGrid resolves columns, rows and page size.
// Single mode sizes the page to one tag plus margins. Tiled mode keeps the
// configured page width and centres the block of columns on it.
func NewGrid(spec GridSpec) (Grid, error) {
	if spec.TagWidth <= 0 || spec.TagHeight <= 0 {
		return Grid{}, fmt.Errorf("%w: tag size %.2fx%.2f mm", ErrDoesNotFit, spec.TagWidth, spec.TagHeight)
	}

	if spec.Mode == models.ModeSingle {
		return Grid{
			PageWidth:  spec.TagWidth + 2*spec.Margin,
			PageHeight: spec.TagHeight + 2*spec.Margin,
			Columns:    1,
			Rows:       1,
			TagWidth:   spec.TagWidth,
			TagHeight:  spec.TagHeight,
			OffsetX:    spec.Margin,
			OffsetY:    spec.Margin,
		}, nil
	}

	avail := spec.PageWidth - 2*spec.Margin
	fit := int(math.Floor((avail+spec.Gap)/(spec.TagWidth+spec.Gap) + 1e-9))
	if fit < 1 {
		return Grid{}, fmt.Errorf("%w: a %.2f mm tag on a %.2f mm page", ErrDoesNotFit, spec.TagWidth, spec.PageWidth)
	}

	cols := fit
	if spec.Columns > 0 {
		if spec.Columns > fit {
			return Grid{}, fmt.Errorf("%w: %d columns requested, %d fit", ErrDoesNotFit, spec.Columns, fit)
		}
		cols = spec.Columns
	}
	rows := max(spec.Rows, 1)

	blockWidth := float64(cols)*spec.TagWidth + float64(cols-1)*spec.Gap
	return Grid{
		PageWidth:  spec.PageWidth,
		PageHeight: 2*spec.Margin + float64(rows)*spec.TagHeight + float64(rows-1)*spec.Gap,
		Columns:    cols,
		Rows:       rows,
		TagWidth:   spec.TagWidth,
		TagHeight:  spec.TagHeight,
		Gap:        spec.Gap,
		OffsetX:    spec.Margin + (avail-blockWidth)/2,
		OffsetY:    spec.Margin,
	}, nil
}

// PerPage returns how many tags one page holds
func (g Grid) PerPage() int { return g.Columns * g.Rows }

// Pages returns how many pages n tags need
func (g Grid) Pages(n int) int {
	if n <= 0 {
		return 0
	}
	per := g.PerPage()
	return (n + per - 1) / per
}

// Place returns the zero-based page and the top-left corner of tag i.
// Tags fill rows left to right, then rows top to bottom.
func (g Grid) Place(i int) (page int, x, y float64) {
	per := g.PerPage()
	page = i / per
	slot := i % per
	col := slot % g.Columns
	row := slot / g.Columns
	x = g.OffsetX + float64(col)*(g.TagWidth+g.Gap)
	y = g.OffsetY + float64(row)*(g.TagHeight+g.Gap)
	return page, x, y
}
