// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/highlight-extractor/internal/colors"
	"github.com/pdiddy/highlight-extractor/pkg/types"
)

// creatorName and creatorVersion identify this tool in the archive
// metadata entry.
const (
	creatorName    = "highlight-extractor"
	creatorVersion = "1.0.0"
)

// topicShape is the rounded-rectangle shape applied to styled topics.
const topicShape = "org.xmind.topicShape.roundedRect"

// topic is one node of the mind-map tree (XMind 2020+ JSON format).
type topic struct {
	ID             string       `json:"id"`
	Class          string       `json:"class,omitempty"`
	Title          string       `json:"title"`
	StructureClass string       `json:"structureClass,omitempty"`
	Style          *topicStyle  `json:"style,omitempty"`
	Notes          *topicNotes  `json:"notes,omitempty"`
	Children       *topicFamily `json:"children,omitempty"`
}

type topicFamily struct {
	Attached []*topic `json:"attached"`
}

type topicStyle struct {
	Properties map[string]string `json:"properties"`
}

type topicNotes struct {
	Plain plainNote `json:"plain"`
}

type plainNote struct {
	Content string `json:"content"`
}

// sheet wraps the root topic; content.json is an array of sheets.
type sheet struct {
	ID        string `json:"id"`
	Class     string `json:"class"`
	Title     string `json:"title"`
	RootTopic *topic `json:"rootTopic"`
}

// newID returns a 16-character unique token for a node.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// ExportXMind serializes the result as an XMind archive at outputPath: a
// ZIP container holding content.json, manifest.json, and metadata.json.
// An invalid group mode fails before any output file is created.
func ExportXMind(res *types.ExtractionResult, outputPath string, groupBy types.GroupMode) error {
	if !groupBy.Valid() {
		return fmt.Errorf("invalid group_by option: %q", groupBy)
	}

	content, err := buildContent(res, groupBy)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating XMind file: %w", err)
	}
	defer f.Close()

	if err := writeArchive(f, content, res.ExtractionDate); err != nil {
		return fmt.Errorf("writing XMind archive: %w", err)
	}
	return nil
}

// writeArchive emits the three-entry ZIP container.
func writeArchive(w io.Writer, content []sheet, created string) error {
	zw := zip.NewWriter(w)

	manifest := map[string]any{
		"file-entries": map[string]any{
			"content.json":  map[string]any{},
			"metadata.json": map[string]any{},
		},
	}
	metadata := map[string]any{
		"creator": map[string]string{
			"name":    creatorName,
			"version": creatorVersion,
		},
		"created": created,
	}

	entries := []struct {
		name string
		data any
	}{
		{"content.json", content},
		{"manifest.json", manifest},
		{"metadata.json", metadata},
	}

	for _, entry := range entries {
		ew, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", entry.name, err)
		}
		data, err := json.MarshalIndent(entry.data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", entry.name, err)
		}
		if _, err := ew.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", entry.name, err)
		}
	}

	return zw.Close()
}

// buildContent constructs the sheet with the grouped topic tree.
func buildContent(res *types.ExtractionResult, groupBy types.GroupMode) ([]sheet, error) {
	title := "PDF Highlights"
	if res.SourceFile != "" {
		title = fileStem(res.SourceFile)
	}

	root := &topic{
		ID:             newID(),
		Class:          "topic",
		Title:          title,
		StructureClass: "org.xmind.ui.map.unbalanced",
		Notes: &topicNotes{
			Plain: plainNote{Content: metadataNote(res)},
		},
		Children: &topicFamily{Attached: []*topic{}},
	}

	if len(res.Highlights) == 0 {
		root.Children.Attached = append(root.Children.Attached, &topic{
			ID:    newID(),
			Title: "No highlights found",
		})
	} else {
		groups, err := NestedGroups(res.Highlights, groupBy)
		if err != nil {
			return nil, err
		}
		for _, outer := range groups {
			root.Children.Attached = append(root.Children.Attached, outerTopic(outer, groupBy))
		}
	}

	return []sheet{{
		ID:        newID(),
		Class:     "sheet",
		Title:     "Highlights: " + title,
		RootTopic: root,
	}}, nil
}

// outerTopic builds one first-level group node and its subtree. Color
// group nodes carry the group's representative color as their style; page
// group nodes are unstyled.
func outerTopic(outer OuterGroup, groupBy types.GroupMode) *topic {
	node := &topic{
		ID:       newID(),
		Title:    headingFor(outer.Key, groupBy == types.GroupByPage),
		Children: &topicFamily{Attached: []*topic{}},
	}
	if groupBy == types.GroupByColor {
		node.Style = groupStyle(representativeColor(outer))
	}

	for _, inner := range outer.Inner {
		innerNode := &topic{
			ID:       newID(),
			Title:    headingFor(inner.Key, groupBy == types.GroupByColor),
			Children: &topicFamily{Attached: []*topic{}},
		}
		if groupBy == types.GroupByPage {
			innerNode.Style = groupStyle(colors.Hex(inner.Highlights[0].Color))
		}
		for _, h := range inner.Highlights {
			innerNode.Children.Attached = append(innerNode.Children.Attached, leafTopic(h))
		}
		node.Children.Attached = append(node.Children.Attached, innerNode)
	}

	return node
}

// representativeColor is the hex color of the first highlight in the
// group's first inner bucket.
func representativeColor(outer OuterGroup) string {
	if len(outer.Inner) > 0 && len(outer.Inner[0].Highlights) > 0 {
		return colors.Hex(outer.Inner[0].Highlights[0].Color)
	}
	return "#FFFFFF"
}

func groupStyle(hex string) *topicStyle {
	return &topicStyle{Properties: map[string]string{
		"svg:fill":          hex,
		"fill":              hex,
		"shape-class":       topicShape,
		"border-line-color": hex,
		"line-color":        hex,
	}}
}

func leafTopic(h types.Highlight) *topic {
	hex := colors.Hex(h.Color)
	return &topic{
		ID:    newID(),
		Title: h.Text,
		Style: &topicStyle{Properties: map[string]string{
			"svg:fill":          hex,
			"shape-class":       topicShape,
			"border-line-color": hex,
		}},
	}
}

// metadataNote renders the root node's notes field.
func metadataNote(res *types.ExtractionResult) string {
	return fmt.Sprintf(
		"Total Pages: %d\nTotal Highlights: %d\nExtraction Date: %s\nSource Path: %s",
		res.TotalPages, res.TotalHighlights, res.ExtractionDate, res.SourcePath,
	)
}
