// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfio

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Annotations walks the page's Annots array and materializes a read-only
// view per annotation dict. Annotations that cannot be dereferenced are
// skipped; a page without an Annots entry yields an empty slice.
func (p *page) Annotations() ([]RawAnnotation, error) {
	pageDict, _, _, err := p.doc.ctx.PageDict(p.number, false)
	if err != nil {
		return nil, fmt.Errorf("page %d dict: %w", p.number, err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page %d: no page dict", p.number)
	}

	obj, found := pageDict.Find("Annots")
	if !found {
		return nil, nil
	}

	arr, err := p.doc.ctx.DereferenceArray(obj)
	if err != nil {
		return nil, fmt.Errorf("page %d annotations: %w", p.number, err)
	}

	var annots []RawAnnotation
	for _, entry := range arr {
		d, err := p.doc.ctx.DereferenceDict(entry)
		if err != nil || d == nil {
			continue
		}
		annots = append(annots, p.rawAnnotation(d))
	}
	return annots, nil
}

// rawAnnotation reads the fields the pipeline consumes from one annotation
// dict. Missing entries stay zero-valued.
func (p *page) rawAnnotation(d types.Dict) RawAnnotation {
	raw := RawAnnotation{
		Info: map[string]string{},
	}

	if subtype := d.NameEntry("Subtype"); subtype != nil {
		raw.Kind = *subtype
	}

	raw.Stroke = p.floatArray(d, "C")
	raw.Fill = p.floatArray(d, "IC")

	if qp := p.floatArray(d, "QuadPoints"); len(qp) >= 2 {
		for i := 0; i+1 < len(qp); i += 2 {
			raw.QuadPoints = append(raw.QuadPoints, Point{X: qp[i], Y: qp[i+1]})
		}
	}

	if rect := p.floatArray(d, "Rect"); len(rect) == 4 {
		raw.Bounds = Rect{X0: rect[0], Y0: rect[1], X1: rect[2], Y1: rect[3]}
	}

	// T is the annotation author by convention; Subj and CreationDate are
	// optional markup fields.
	if v, ok := p.stringEntry(d, "T"); ok {
		raw.Info["title"] = v
	}
	if v, ok := p.stringEntry(d, "Subj"); ok {
		raw.Info["subject"] = v
	}
	if v, ok := p.stringEntry(d, "CreationDate"); ok {
		raw.Info["creationDate"] = v
	}

	return raw
}

// floatArray dereferences a numeric array entry. Non-numeric elements end
// the read early; a missing entry yields nil.
func (p *page) floatArray(d types.Dict, key string) []float64 {
	obj, found := d.Find(key)
	if !found {
		return nil
	}
	arr, err := p.doc.ctx.DereferenceArray(obj)
	if err != nil || arr == nil {
		return nil
	}

	out := make([]float64, 0, len(arr))
	for _, el := range arr {
		deref, err := p.doc.ctx.Dereference(el)
		if err != nil {
			return out
		}
		switch v := deref.(type) {
		case types.Integer:
			out = append(out, float64(v.Value()))
		case types.Float:
			out = append(out, v.Value())
		default:
			return out
		}
	}
	return out
}

// stringEntry reads a text entry that may be a literal or hex string,
// possibly behind an indirect reference.
func (p *page) stringEntry(d types.Dict, key string) (string, bool) {
	obj, found := d.Find(key)
	if !found {
		return "", false
	}
	deref, err := p.doc.ctx.Dereference(obj)
	if err != nil {
		return "", false
	}
	switch v := deref.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return "", false
		}
		return s, true
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}
