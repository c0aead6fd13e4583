// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the highlight-extractor
// pipeline: the normalized highlight record, the extraction result passed to
// every exporter, and the per-stage configuration structs.
package types

// Highlight is the canonical record of one highlight annotation after
// normalization. Instances are created once per valid annotation and are not
// mutated afterwards.
type Highlight struct {
	// Page is the 1-indexed page the highlight appears on.
	Page int `json:"page" yaml:"page"`

	// Text is the recovered highlighted text. Always non-empty after
	// trimming; annotations with empty text are dropped during extraction.
	Text string `json:"text" yaml:"text"`

	// Color holds exactly three RGB components in [0.0, 1.0].
	Color []float64 `json:"color" yaml:"color"`

	// ColorName is the nearest named color, derived deterministically
	// from Color.
	ColorName string `json:"color_name" yaml:"color_name"`

	// Rect is the annotation bounding rectangle as [x0, y0, x1, y1].
	// Coordinate ordering is passed through from the source document.
	Rect []float64 `json:"rect" yaml:"rect"`

	// Author is the annotation author, taken from the info title field or,
	// failing that, the subject field. Nil when neither is present.
	Author *string `json:"author" yaml:"author"`

	// Created is the annotation creation date, passed through verbatim.
	// Nil when the source annotation carries none.
	Created *string `json:"created" yaml:"created"`
}

// ExtractionResult is the unit handed to every exporter: one full pass over
// one document. The caller owns the result exclusively; nothing in the
// pipeline retains or caches it.
type ExtractionResult struct {
	// SourceFile is the base name of the extracted PDF.
	SourceFile string `json:"source_file" yaml:"source_file"`

	// SourcePath is the absolute path of the extracted PDF.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// ExtractionDate is the completion wall-clock time, UTC, RFC 3339.
	ExtractionDate string `json:"extraction_date" yaml:"extraction_date"`

	// TotalPages is the document page count.
	TotalPages int `json:"total_pages" yaml:"total_pages"`

	// TotalHighlights equals len(Highlights).
	TotalHighlights int `json:"total_highlights" yaml:"total_highlights"`

	// Highlights lists the normalized highlights in discovery order:
	// page order first, then annotation enumeration order within a page.
	Highlights []Highlight `json:"highlights" yaml:"highlights"`
}
