// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders an ExtractionResult for its consumers: verbatim
// JSON, an XMind mind-map archive, and Notion-compatible Markdown. All three
// formats share the grouping logic here, so group traversal order is
// deterministic across exporters: pages ascend numerically, color names
// ascend lexicographically.
package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pdiddy/highlight-extractor/pkg/types"
)

// GroupByPage buckets highlights by stringified page number, preserving
// each highlight's relative order within its bucket.
func GroupByPage(highlights []types.Highlight) map[string][]types.Highlight {
	groups := make(map[string][]types.Highlight)
	for _, h := range highlights {
		key := strconv.Itoa(h.Page)
		groups[key] = append(groups[key], h)
	}
	return groups
}

// GroupByColor buckets highlights by color name, preserving each
// highlight's relative order within its bucket.
func GroupByColor(highlights []types.Highlight) map[string][]types.Highlight {
	groups := make(map[string][]types.Highlight)
	for _, h := range highlights {
		groups[h.ColorName] = append(groups[h.ColorName], h)
	}
	return groups
}

// Group buckets highlights by the given mode.
func Group(highlights []types.Highlight, mode types.GroupMode) (map[string][]types.Highlight, error) {
	switch mode {
	case types.GroupByPage:
		return GroupByPage(highlights), nil
	case types.GroupByColor:
		return GroupByColor(highlights), nil
	}
	return nil, fmt.Errorf("invalid group_by option: %q", mode)
}

// SortedKeys returns the group keys in presentation order: numeric
// ascending when numeric is set (page numbers), lexicographic ascending
// otherwise (color names).
func SortedKeys(groups map[string][]types.Highlight, numeric bool) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	if numeric {
		sort.Slice(keys, func(i, j int) bool {
			ni, errI := strconv.Atoi(keys[i])
			nj, errJ := strconv.Atoi(keys[j])
			if errI != nil || errJ != nil {
				return keys[i] < keys[j]
			}
			return ni < nj
		})
	} else {
		sort.Strings(keys)
	}
	return keys
}

// InnerGroup is one second-level bucket of the nested traversal.
type InnerGroup struct {
	Key        string
	Highlights []types.Highlight
}

// OuterGroup is one first-level bucket of the nested traversal.
type OuterGroup struct {
	Key   string
	Inner []InnerGroup
}

// NestedGroups arranges highlights for the exporters' two-level layout.
// Mode "page" yields pages (numeric order) containing colors (lexicographic
// order); mode "color" yields colors containing pages. Within the innermost
// bucket, highlight order matches the source list.
func NestedGroups(highlights []types.Highlight, mode types.GroupMode) ([]OuterGroup, error) {
	outer, err := Group(highlights, mode)
	if err != nil {
		return nil, err
	}

	outerNumeric := mode == types.GroupByPage
	var result []OuterGroup
	for _, key := range SortedKeys(outer, outerNumeric) {
		var innerGroups map[string][]types.Highlight
		if mode == types.GroupByPage {
			innerGroups = GroupByColor(outer[key])
		} else {
			innerGroups = GroupByPage(outer[key])
		}

		og := OuterGroup{Key: key}
		for _, ik := range SortedKeys(innerGroups, !outerNumeric) {
			og.Inner = append(og.Inner, InnerGroup{Key: ik, Highlights: innerGroups[ik]})
		}
		result = append(result, og)
	}
	return result, nil
}
