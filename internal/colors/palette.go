// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package colors

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// LoadPalette reads a custom reference palette from a YAML file. The file
// holds an ordered list of entries:
//
//	- name: Highlighter Yellow
//	  rgb: [1.0, 0.95, 0.1]
//
// File order is preserved and becomes the tie-break order. Each entry must
// carry a name and exactly three components in [0, 1].
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette %s: %w", path, err)
	}

	var p Palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing palette %s: %w", path, err)
	}

	if len(p) == 0 {
		return nil, fmt.Errorf("palette %s: no entries", path)
	}

	for i, ref := range p {
		if ref.Name == "" {
			return nil, fmt.Errorf("palette %s: entry %d: missing name", path, i)
		}
		if len(ref.RGB) != 3 {
			return nil, fmt.Errorf("palette %s: entry %q: rgb must have 3 components, got %d", path, ref.Name, len(ref.RGB))
		}
		for _, c := range ref.RGB {
			if c < 0.0 || c > 1.0 {
				return nil, fmt.Errorf("palette %s: entry %q: component %v out of range [0,1]", path, ref.Name, c)
			}
		}
	}

	return p, nil
}
