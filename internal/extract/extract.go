// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns the highlight annotations of an open PDF into a
// normalized ExtractionResult. Per-annotation and per-page failures are
// contained: a bad annotation is dropped, a bad page contributes zero
// highlights, and the pass always runs to completion.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/highlight-extractor/internal/colors"
	"github.com/pdiddy/highlight-extractor/internal/pdfio"
	"github.com/pdiddy/highlight-extractor/pkg/types"
)

// defaultColor is the conventional highlight yellow, used when an
// annotation carries no usable color.
var defaultColor = []float64{1.0, 1.0, 0.0}

// Extractor runs the extraction pass. The zero value classifies colors
// against the default palette and logs through slog.Default.
type Extractor struct {
	// Palette overrides the color reference table. Nil selects the
	// built-in palette.
	Palette colors.Palette

	// Log receives debug-level events for dropped annotations.
	Log *slog.Logger
}

// ExtractFile opens the PDF at path, extracts its highlights, and closes
// the document on every exit path. Open failures are fatal; everything
// after a successful open recovers locally.
func ExtractFile(path string, cfg types.ExtractionConfig, w io.Writer) (*types.ExtractionResult, error) {
	e := Extractor{}
	if cfg.PalettePath != "" {
		p, err := colors.LoadPalette(cfg.PalettePath)
		if err != nil {
			return nil, err
		}
		e.Palette = p
	}

	doc, err := pdfio.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return e.Extract(doc, path, w), nil
}

// Extract walks every page of doc in order and normalizes each highlight
// annotation. The result's highlight order is page order, then annotation
// enumeration order within a page. Per-item failures never abort the pass.
func (e *Extractor) Extract(doc pdfio.Document, sourcePath string, w io.Writer) *types.ExtractionResult {
	absPath, err := filepath.Abs(sourcePath)
	if err != nil {
		absPath = sourcePath
	}

	pageCount := doc.PageCount()
	fmt.Fprintf(w, "processing %s (%d pages)\n", filepath.Base(sourcePath), pageCount)

	highlights := []types.Highlight{}
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page, err := doc.Page(pageNum)
		if err != nil {
			fmt.Fprintf(w, "warning: page %d unavailable: %v\n", pageNum, err)
			continue
		}

		found := e.extractPage(page, pageNum, w)
		highlights = append(highlights, found...)
		if len(found) > 0 {
			e.logger().Debug("page done", "page", pageNum, "highlights", len(found))
		}
	}

	fmt.Fprintf(w, "extracted %d highlights\n", len(highlights))

	return &types.ExtractionResult{
		SourceFile:      filepath.Base(sourcePath),
		SourcePath:      absPath,
		ExtractionDate:  time.Now().UTC().Format(time.RFC3339),
		TotalPages:      pageCount,
		TotalHighlights: len(highlights),
		Highlights:      highlights,
	}
}

// extractPage normalizes the highlight annotations of one page. An
// annotation enumeration failure yields zero highlights for the page.
func (e *Extractor) extractPage(page pdfio.Page, pageNum int, w io.Writer) []types.Highlight {
	annots, err := page.Annotations()
	if err != nil {
		fmt.Fprintf(w, "warning: annotations on page %d unreadable: %v\n", pageNum, err)
		return nil
	}

	var found []types.Highlight
	for _, a := range annots {
		if h, ok := e.normalize(pageNum, a, page); ok {
			found = append(found, h)
		}
	}
	return found
}

// normalize converts one raw annotation into a Highlight. It reports false
// for non-highlight kinds and for highlights whose recovered text is empty
// after trimming.
func (e *Extractor) normalize(pageNum int, a pdfio.RawAnnotation, page pdfio.Page) (types.Highlight, bool) {
	if a.Kind != pdfio.KindHighlight {
		return types.Highlight{}, false
	}

	text := recoverText(page, a)
	if text == "" {
		e.logger().Debug("empty highlight text", "page", pageNum)
		return types.Highlight{}, false
	}

	color := resolveColor(a.Stroke, a.Fill)

	h := types.Highlight{
		Page:      pageNum,
		Text:      text,
		Color:     color,
		ColorName: e.palette().Name(color),
		Rect:      a.Bounds.Slice(),
	}

	if v, ok := nonEmpty(a.Info, "title"); ok {
		h.Author = &v
	} else if v, ok := nonEmpty(a.Info, "subject"); ok {
		h.Author = &v
	}
	if v, ok := a.Info["creationDate"]; ok && v != "" {
		h.Created = &v
	}

	return h, true
}

// recoverText recovers the highlighted text via the quad geometry, falling
// back to the annotation's bounding rectangle. Quad geometry is often
// missing or malformed in real-world PDFs, so errors on the primary path
// get one plain rectangle retry; a second failure yields the empty string
// and the annotation is dropped upstream.
func recoverText(page pdfio.Page, a pdfio.RawAnnotation) string {
	text, err := quadText(page, a)
	if err == nil {
		return text
	}
	t, err := page.TextInRect(a.Bounds)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(t)
}

// quadText queries the page once per complete quadrilateral (strict chunks
// of four corner points, trailing partial chunks ignored) and joins the
// non-empty fragments in quad order. With no usable quads, or no fragments,
// it queries the bounding rectangle instead.
func quadText(page pdfio.Page, a pdfio.RawAnnotation) (string, error) {
	var parts []string
	pts := a.QuadPoints
	for i := 0; i+3 < len(pts); i += 4 {
		t, err := page.TextInRect(boundingBox(pts[i : i+4]))
		if err != nil {
			return "", err
		}
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}

	if len(parts) == 0 {
		t, err := page.TextInRect(a.Bounds)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(t), nil
	}

	return strings.Join(parts, " "), nil
}

// boundingBox is the axis-aligned box of four quad corners.
func boundingBox(quad []pdfio.Point) pdfio.Rect {
	minX, minY := quad[0].X, quad[0].Y
	maxX, maxY := minX, minY
	for _, p := range quad[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return pdfio.Rect{X0: minX, Y0: minY, X1: maxX, Y1: maxY}
}

// resolveColor picks the annotation color: stroke, else fill, else the
// default highlight yellow. One component broadcasts to gray, two pad with
// a trailing zero, anything longer truncates to three.
func resolveColor(stroke, fill []float64) []float64 {
	c := stroke
	if len(c) == 0 {
		c = fill
	}
	switch len(c) {
	case 0:
		return append([]float64(nil), defaultColor...)
	case 1:
		return []float64{c[0], c[0], c[0]}
	case 2:
		return []float64{c[0], c[1], 0.0}
	default:
		return append([]float64(nil), c[:3]...)
	}
}

func nonEmpty(info map[string]string, key string) (string, bool) {
	v, ok := info[key]
	return v, ok && v != ""
}

func (e *Extractor) palette() colors.Palette {
	if e.Palette != nil {
		return e.Palette
	}
	return colors.Default
}

func (e *Extractor) logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}
