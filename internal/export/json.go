// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/highlight-extractor/pkg/types"
)

// jsonDocument is the serialized shape of an extraction result. The field
// names are a public contract; grouped_highlights appears only when a
// grouping was requested.
type jsonDocument struct {
	types.ExtractionResult
	GroupedHighlights map[string][]types.Highlight `json:"grouped_highlights,omitempty"`
}

// FormatJSON serializes the result verbatim, optionally attaching a
// single-level grouped view. An empty groupBy omits the grouped view; any
// other value must be a valid group mode. Pretty output is indented with
// two spaces.
func FormatJSON(res *types.ExtractionResult, pretty bool, groupBy types.GroupMode) ([]byte, error) {
	doc := jsonDocument{ExtractionResult: *res}

	if groupBy != "" {
		groups, err := Group(res.Highlights, groupBy)
		if err != nil {
			return nil, err
		}
		doc.GroupedHighlights = groups
	}

	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ExportJSON writes the JSON document to outputPath.
func ExportJSON(res *types.ExtractionResult, outputPath string, pretty bool, groupBy types.GroupMode) error {
	data, err := FormatJSON(res, pretty, groupBy)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	return nil
}
