// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfio binds the extraction pipeline to a PDF library. The pipeline
// consumes only the narrow Document/Page capability interfaces defined here,
// so it can be exercised against fakes; the real implementation sits on
// pdfcpu and never leaks pdfcpu types to callers.
package pdfio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// KindHighlight is the annotation subtype for highlight markup.
const KindHighlight = "Highlight"

// Point is one corner of a highlight quadrilateral.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in page coordinates. Coordinate ordering
// follows the source document; callers must not assume X0 <= X1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Slice returns the rectangle as [x0, y0, x1, y1].
func (r Rect) Slice() []float64 {
	return []float64{r.X0, r.Y0, r.X1, r.Y1}
}

// RawAnnotation is a read-only view of one annotation as it appears in the
// document. Instances are valid only for the duration of one page pass.
type RawAnnotation struct {
	// Kind is the annotation subtype name (e.g. "Highlight").
	Kind string

	// Stroke is the annotation color (C entry), 0-3 components.
	Stroke []float64

	// Fill is the interior color (IC entry), 0-3 components.
	Fill []float64

	// QuadPoints holds the corner points of the highlighted regions,
	// four per quadrilateral.
	QuadPoints []Point

	// Bounds is the annotation bounding rectangle.
	Bounds Rect

	// Info carries the optional text fields: "title", "subject",
	// "creationDate". Absent keys are absent entries.
	Info map[string]string
}

// Page exposes the per-page capabilities the extraction pipeline needs.
type Page interface {
	// Annotations returns the page's annotations in document order.
	// An absent annotation array yields an empty slice, not an error.
	Annotations() ([]RawAnnotation, error)

	// TextInRect returns the page text intersecting r.
	TextInRect(r Rect) (string, error)
}

// Document is an open PDF. The owner must call Close exactly once.
type Document interface {
	PageCount() int

	// Page returns the 1-indexed page.
	Page(number int) (Page, error)

	Close() error
}

// ValidateInputPath checks that path names a readable PDF file. Failures
// here are fatal to the run.
func ValidateInputPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is not a file: %s", path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file is not readable: %s: %w", path, err)
	}
	f.Close()
	return nil
}

// document is the pdfcpu-backed Document.
type document struct {
	f     *os.File
	ctx   *model.Context
	pages map[int]*page // cache so repeated Page calls share parsed text
}

// Open reads and validates the PDF at path. The returned Document holds an
// open file handle until Close.
func Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &document{
		f:     f,
		ctx:   ctx,
		pages: make(map[int]*page),
	}, nil
}

func (d *document) PageCount() int {
	return d.ctx.PageCount
}

func (d *document) Page(number int) (Page, error) {
	if number < 1 || number > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", number, d.ctx.PageCount)
	}
	if p, ok := d.pages[number]; ok {
		return p, nil
	}
	p := &page{doc: d, number: number}
	d.pages[number] = p
	return p, nil
}

func (d *document) Close() error {
	return d.f.Close()
}

// page implements Page lazily: annotations and positioned text are read
// from the pdfcpu context on first use.
type page struct {
	doc    *document
	number int

	runs       []textRun
	runsParsed bool
}
