// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"

	"github.com/pdiddy/highlight-extractor/internal/colors"
	"github.com/pdiddy/highlight-extractor/pkg/types"
)

// FormatNotion renders the result as Notion-compatible Markdown: a title,
// a document-information section, and the highlights grouped per the mode,
// each highlight a block-quoted line wrapped in an inline color span.
func FormatNotion(res *types.ExtractionResult, groupBy types.GroupMode) (string, error) {
	if !groupBy.Valid() {
		return "", fmt.Errorf("invalid group_by option: %q", groupBy)
	}

	title := "Unknown PDF"
	if res.SourcePath != "" {
		title = fileStem(res.SourcePath)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("# %s\n", title))
	lines = append(lines, "## Document Information\n")
	lines = append(lines, fmt.Sprintf("- **Source:** %s", res.SourcePath))
	lines = append(lines, fmt.Sprintf("- **Total Pages:** %d", res.TotalPages))
	lines = append(lines, fmt.Sprintf("- **Total Highlights:** %d", res.TotalHighlights))
	lines = append(lines, fmt.Sprintf("- **Extraction Date:** %s\n", res.ExtractionDate))

	lines = append(lines, "## Highlights\n")

	if len(res.Highlights) == 0 {
		lines = append(lines, "*No highlights found in this document.*\n")
		return strings.Join(lines, "\n"), nil
	}

	groups, err := NestedGroups(res.Highlights, groupBy)
	if err != nil {
		return "", err
	}

	for _, outer := range groups {
		lines = append(lines, fmt.Sprintf("### %s\n", headingFor(outer.Key, groupBy == types.GroupByPage)))
		for _, inner := range outer.Inner {
			lines = append(lines, fmt.Sprintf("#### %s\n", headingFor(inner.Key, groupBy == types.GroupByColor)))
			for _, h := range inner.Highlights {
				span := fmt.Sprintf(`<span style="color: %s">%s</span>`, colors.Hex(h.Color), h.Text)
				lines = append(lines, fmt.Sprintf("> %s\n", span))
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

// headingFor renders a group key as a section heading: "Page N" for page
// keys, the title-cased color name otherwise.
func headingFor(key string, isPage bool) string {
	if isPage {
		return "Page " + key
	}
	return titleCaser.String(key)
}

// ExportNotion writes the Markdown document to outputPath. An invalid
// group mode fails before any output is created.
func ExportNotion(res *types.ExtractionResult, outputPath string, groupBy types.GroupMode) error {
	md, err := FormatNotion(res, groupBy)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, []byte(md)); err != nil {
		return fmt.Errorf("writing Notion Markdown: %w", err)
	}
	return nil
}
