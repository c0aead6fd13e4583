package extract

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/pdiddy/highlight-extractor/internal/pdfio"
)

// --- fakes for the pdfio capability interfaces ---

type fakePage struct {
	annots    []pdfio.RawAnnotation
	annotsErr error
	textFn    func(r pdfio.Rect) (string, error)
}

func (p *fakePage) Annotations() ([]pdfio.RawAnnotation, error) {
	return p.annots, p.annotsErr
}

func (p *fakePage) TextInRect(r pdfio.Rect) (string, error) {
	if p.textFn == nil {
		return "", nil
	}
	return p.textFn(r)
}

type fakeDoc struct {
	pages []*fakePage
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(number int) (pdfio.Page, error) {
	return d.pages[number-1], nil
}

func (d *fakeDoc) Close() error { return nil }

func pt(x, y float64) pdfio.Point {
	return pdfio.Point{X: x, Y: y}
}

func constText(s string) func(pdfio.Rect) (string, error) {
	return func(pdfio.Rect) (string, error) { return s, nil }
}

func highlightAnnot(text string) (pdfio.RawAnnotation, func(pdfio.Rect) (string, error)) {
	a := pdfio.RawAnnotation{
		Kind:   pdfio.KindHighlight,
		Stroke: []float64{1.0, 1.0, 0.0},
		Bounds: pdfio.Rect{X0: 0, Y0: 0, X1: 100, Y1: 20},
		Info:   map[string]string{},
	}
	return a, constText(text)
}

// --- Extract ---

func TestExtractSkipsNonHighlightKinds(t *testing.T) {
	a, textFn := highlightAnnot("kept text")
	square := a
	square.Kind = "Square"

	doc := &fakeDoc{pages: []*fakePage{
		{annots: []pdfio.RawAnnotation{a, square, a}, textFn: textFn},
	}}

	var e Extractor
	res := e.Extract(doc, "doc.pdf", &bytes.Buffer{})

	if res.TotalHighlights != 2 {
		t.Fatalf("TotalHighlights = %d, want 2", res.TotalHighlights)
	}
	if len(res.Highlights) != res.TotalHighlights {
		t.Errorf("count invariant broken: %d vs %d", len(res.Highlights), res.TotalHighlights)
	}
}

func TestExtractDropsEmptyText(t *testing.T) {
	a, _ := highlightAnnot("")
	doc := &fakeDoc{pages: []*fakePage{
		{annots: []pdfio.RawAnnotation{a}, textFn: constText("   \n  ")},
	}}

	var e Extractor
	res := e.Extract(doc, "doc.pdf", &bytes.Buffer{})
	if res.TotalHighlights != 0 {
		t.Errorf("whitespace-only text kept: %+v", res.Highlights)
	}
}

// One failing annotation must not take down its siblings: a document with N
// highlight annotations, one of which fails text recovery on both paths,
// yields N-1 highlights.
func TestExtractToleratesFailingAnnotation(t *testing.T) {
	poison := pdfio.Rect{X0: 666, Y0: 0, X1: 667, Y1: 1}
	good, _ := highlightAnnot("")
	bad := good
	bad.Bounds = poison

	page := &fakePage{
		annots: []pdfio.RawAnnotation{good, bad, good},
		textFn: func(r pdfio.Rect) (string, error) {
			if r == poison {
				return "", errors.New("corrupt content stream")
			}
			return "recovered", nil
		},
	}

	var e Extractor
	res := e.Extract(&fakeDoc{pages: []*fakePage{page}}, "doc.pdf", &bytes.Buffer{})
	if res.TotalHighlights != 2 {
		t.Fatalf("TotalHighlights = %d, want 2", res.TotalHighlights)
	}
}

func TestExtractToleratesFailingPage(t *testing.T) {
	a, textFn := highlightAnnot("page three text")
	doc := &fakeDoc{pages: []*fakePage{
		{annotsErr: errors.New("corrupt annotation stream")},
		{}, // no annotations at all
		{annots: []pdfio.RawAnnotation{a}, textFn: textFn},
	}}

	var e Extractor
	var progress bytes.Buffer
	res := e.Extract(doc, "doc.pdf", &progress)

	if res.TotalHighlights != 1 {
		t.Fatalf("TotalHighlights = %d, want 1", res.TotalHighlights)
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.TotalPages)
	}
	if res.Highlights[0].Page != 3 {
		t.Errorf("highlight page = %d, want 3", res.Highlights[0].Page)
	}
	if !bytes.Contains(progress.Bytes(), []byte("page 1")) {
		t.Errorf("page failure not reported: %q", progress.String())
	}
}

func TestExtractResultMetadata(t *testing.T) {
	a, textFn := highlightAnnot("text")
	doc := &fakeDoc{pages: []*fakePage{
		{annots: []pdfio.RawAnnotation{a}, textFn: textFn},
	}}

	var e Extractor
	before := time.Now().UTC().Add(-time.Second)
	res := e.Extract(doc, "testdata/sample.pdf", &bytes.Buffer{})

	if res.SourceFile != "sample.pdf" {
		t.Errorf("SourceFile = %q", res.SourceFile)
	}
	ts, err := time.Parse(time.RFC3339, res.ExtractionDate)
	if err != nil {
		t.Fatalf("ExtractionDate %q not RFC 3339: %v", res.ExtractionDate, err)
	}
	if ts.Before(before) || ts.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("ExtractionDate %v out of range", ts)
	}
}

// --- normalize ---

func TestNormalizeFields(t *testing.T) {
	a := pdfio.RawAnnotation{
		Kind:   pdfio.KindHighlight,
		Stroke: []float64{0.0, 1.0, 0.0},
		Bounds: pdfio.Rect{X0: 10, Y0: 20, X1: 110, Y1: 40},
		Info: map[string]string{
			"title":        "reader",
			"creationDate": "D:20240301120000Z",
		},
	}
	page := &fakePage{textFn: constText("  green passage  ")}

	var e Extractor
	h, ok := e.normalize(4, a, page)
	if !ok {
		t.Fatal("normalize dropped a valid highlight")
	}
	if h.Page != 4 || h.Text != "green passage" {
		t.Errorf("page/text = %d/%q", h.Page, h.Text)
	}
	if h.ColorName != "Green" {
		t.Errorf("ColorName = %q", h.ColorName)
	}
	want := []float64{10, 20, 110, 40}
	for i, v := range want {
		if h.Rect[i] != v {
			t.Errorf("Rect = %v, want %v", h.Rect, want)
			break
		}
	}
	if h.Author == nil || *h.Author != "reader" {
		t.Errorf("Author = %v", h.Author)
	}
	if h.Created == nil || *h.Created != "D:20240301120000Z" {
		t.Errorf("Created = %v", h.Created)
	}
}

func TestNormalizeAuthorFallsBackToSubject(t *testing.T) {
	a := pdfio.RawAnnotation{
		Kind: pdfio.KindHighlight,
		Info: map[string]string{"subject": "margin note"},
	}
	page := &fakePage{textFn: constText("text")}

	var e Extractor
	h, ok := e.normalize(1, a, page)
	if !ok {
		t.Fatal("dropped")
	}
	if h.Author == nil || *h.Author != "margin note" {
		t.Errorf("Author = %v", h.Author)
	}

	a.Info = map[string]string{}
	h, _ = e.normalize(1, a, page)
	if h.Author != nil {
		t.Errorf("Author = %v, want nil", h.Author)
	}
	if h.Created != nil {
		t.Errorf("Created = %v, want nil", h.Created)
	}
}

// --- resolveColor ---

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name   string
		stroke []float64
		fill   []float64
		want   []float64
	}{
		{"stroke preferred", []float64{1, 0, 0}, []float64{0, 1, 0}, []float64{1, 0, 0}},
		{"fill fallback", nil, []float64{0, 0, 1}, []float64{0, 0, 1}},
		{"default yellow", nil, nil, []float64{1, 1, 0}},
		{"grayscale broadcast", []float64{0.4}, nil, []float64{0.4, 0.4, 0.4}},
		{"two components padded", []float64{0.2, 0.8}, nil, []float64{0.2, 0.8, 0}},
		{"truncated to three", []float64{0.1, 0.2, 0.3, 0.9}, nil, []float64{0.1, 0.2, 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveColor(tt.stroke, tt.fill)
			if len(got) != 3 {
				t.Fatalf("got %d components", len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// --- text recovery ---

func TestQuadTextChunksAndJoins(t *testing.T) {
	// Two complete quads plus two trailing points that must be ignored.
	quads := []pdfio.Point{
		pt(0, 10), pt(50, 10), pt(0, 0), pt(50, 0),
		pt(0, 30), pt(50, 30), pt(0, 20), pt(50, 20),
		pt(99, 99), pt(98, 98),
	}
	a := pdfio.RawAnnotation{QuadPoints: quads, Bounds: pdfio.Rect{X0: -1, Y0: -1, X1: -1, Y1: -1}}

	page := &fakePage{textFn: func(r pdfio.Rect) (string, error) {
		switch r.Y0 {
		case 0:
			return " first ", nil
		case 20:
			return "second", nil
		}
		return "", errors.New("unexpected query: trailing chunk used")
	}}

	got, err := quadText(page, a)
	if err != nil {
		t.Fatal(err)
	}
	if got != "first second" {
		t.Errorf("got %q", got)
	}
}

func TestQuadTextFallsBackToRect(t *testing.T) {
	a := pdfio.RawAnnotation{
		QuadPoints: []pdfio.Point{pt(0, 0), pt(1, 0)}, // malformed: fewer than 4 points
		Bounds:     pdfio.Rect{X0: 5, Y0: 5, X1: 50, Y1: 15},
	}
	page := &fakePage{textFn: func(r pdfio.Rect) (string, error) {
		if r == a.Bounds {
			return "rect text", nil
		}
		return "", nil
	}}

	got, err := quadText(page, a)
	if err != nil {
		t.Fatal(err)
	}
	if got != "rect text" {
		t.Errorf("got %q", got)
	}
}

func TestRecoverTextRetriesRectOnError(t *testing.T) {
	a := pdfio.RawAnnotation{
		QuadPoints: []pdfio.Point{pt(0, 10), pt(50, 10), pt(0, 0), pt(50, 0)},
		Bounds:     pdfio.Rect{X0: 5, Y0: 5, X1: 50, Y1: 15},
	}
	calls := 0
	page := &fakePage{textFn: func(r pdfio.Rect) (string, error) {
		calls++
		if r == a.Bounds {
			return "rect recovery", nil
		}
		return "", errors.New("quad query failed")
	}}

	if got := recoverText(page, a); got != "rect recovery" {
		t.Errorf("got %q", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want quad attempt then one rect retry", calls)
	}
}

func TestRecoverTextSwallowsDoubleFailure(t *testing.T) {
	a := pdfio.RawAnnotation{
		QuadPoints: []pdfio.Point{pt(0, 10), pt(50, 10), pt(0, 0), pt(50, 0)},
	}
	page := &fakePage{textFn: func(pdfio.Rect) (string, error) {
		return "", errors.New("always failing")
	}}

	if got := recoverText(page, a); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
