// Package render draws laid out tags into a PDF.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thenoetrevino/etiquetas/internal/layout"
	"github.com/thenoetrevino/etiquetas/internal/models"
)

var (
	// ErrPDF wraps errors reported by the PDF writer
	ErrPDF = errors.New("pdf generation failed")
	// ErrNoRecords is returned when there is nothing to draw
	ErrNoRecords = errors.New("no tags to render")
	// ErrLogoNotFound is returned when the configured logo cannot be read
	ErrLogoNotFound = errors.New("logo not found")
)

// Options configures a Renderer
type Options struct {
	Font      string // models.FontHelvetica or models.FontGo
	Symbology string
	QuietZone int // modules left blank on each side of the bars
	Tag       layout.TagSpec
	Grid      layout.Grid
	Logo      string // optional image path
	Border    bool
	Title     string
	Author    string
}

// Renderer turns label records into PDF documents
type Renderer struct {
	opts Options
}

// New validates options and returns a Renderer
func New(opts Options) (*Renderer, error) {
	switch opts.Font {
	case models.FontHelvetica, models.FontGo:
	case "":
		opts.Font = models.FontHelvetica
	default:
		return nil, fmt.Errorf("%w: unknown font %q", ErrPDF, opts.Font)
	}
	if opts.Grid.PerPage() < 1 {
		return nil, fmt.Errorf("%w: page holds no tags", ErrPDF)
	}
	if opts.Logo != "" {
		if _, err := os.Stat(opts.Logo); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLogoNotFound, err)
		}
	}
	opts.Tag.HasLogo = opts.Logo != ""
	return &Renderer{opts: opts}, nil
}

// Write renders records into a PDF at path, creating parent directories.
// It returns the number of pages written.
func (r *Renderer) Write(ctx context.Context, path string, records []models.LabelRecord) (int, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	pages, err := r.Render(ctx, f, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}

	slog.Info("pdf written", "path", path, "tags", len(records), "pages", pages)
	return pages, nil
}

// Render draws records into w and returns the page count
func (r *Renderer) Render(ctx context.Context, w io.Writer, records []models.LabelRecord) (int, error) {
	if len(records) == 0 {
		return 0, ErrNoRecords
	}

	doc, err := newDocument(r.opts)
	if err != nil {
		return 0, err
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		doc.drawTag(i, &records[i])
		if doc.pdf.Err() {
			return 0, fmt.Errorf("%w: tag %d (%s): %v", ErrPDF, i+1, records[i].SKU, doc.pdf.Error())
		}
	}

	if err := doc.pdf.Output(w); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPDF, err)
	}
	return doc.pdf.PageCount(), nil
}

// Measurer returns a text measurer for the configured font, for callers
// that need layout without drawing
func (r *Renderer) Measurer() (layout.Measurer, error) {
	doc, err := newDocument(r.opts)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
