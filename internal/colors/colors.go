// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package colors maps RGB triples to named reference colors and hex strings.
// Classification is a pure function of the input triple and the palette
// order: on an exact distance tie the first palette entry wins, so palette
// order is part of the contract.
package colors

import "fmt"

// NamedColor is one reference entry in a palette.
type NamedColor struct {
	Name string    `yaml:"name"`
	RGB  []float64 `yaml:"rgb"`
}

// Palette is an ordered list of reference colors. The zero-length palette
// classifies everything as Gray.
type Palette []NamedColor

// Default is the built-in reference palette: standard PDF/office highlight
// colors, the pastel variants common in macOS Preview, and a set of dark and
// grayscale anchors. Order matters for tie-breaking.
var Default = Palette{
	{"Yellow", []float64{1.0, 1.0, 0.0}},
	{"Red", []float64{1.0, 0.0, 0.0}},
	{"Green", []float64{0.0, 1.0, 0.0}},
	{"Blue", []float64{0.0, 0.0, 1.0}},
	{"Orange", []float64{1.0, 0.5, 0.0}},
	{"Magenta", []float64{1.0, 0.0, 1.0}},
	{"Cyan", []float64{0.0, 1.0, 1.0}},
	{"Purple", []float64{0.5, 0.0, 0.5}},
	{"Pink", []float64{1.0, 0.75, 0.8}},
	{"Light Yellow", []float64{1.0, 0.98, 0.6}},
	{"Light Green", []float64{0.6, 1.0, 0.6}},
	{"Light Blue", []float64{0.6, 0.8, 1.0}},
	{"Light Pink", []float64{1.0, 0.7, 0.7}},
	{"Light Purple", []float64{0.8, 0.6, 0.8}},
	{"Light Orange", []float64{1.0, 0.8, 0.4}},
	{"Light Gray", []float64{0.9, 0.9, 0.9}},
	{"Dark Red", []float64{0.5, 0.0, 0.0}},
	{"Dark Green", []float64{0.0, 0.5, 0.0}},
	{"Dark Blue", []float64{0.0, 0.0, 0.5}},
	{"Gray", []float64{0.5, 0.5, 0.5}},
	{"Black", []float64{0.0, 0.0, 0.0}},
	{"White", []float64{1.0, 1.0, 1.0}},
	{"Teal", []float64{0.0, 0.5, 0.5}},
	{"Olive", []float64{0.5, 0.5, 0.0}},
	{"Maroon", []float64{0.5, 0.0, 0.0}},
	{"Navy", []float64{0.0, 0.0, 0.5}},
	{"Lime", []float64{0.0, 1.0, 0.0}},
	{"Gold", []float64{1.0, 0.84, 0.0}},
	{"Salmon", []float64{0.98, 0.5, 0.45}},
	{"Sky Blue", []float64{0.53, 0.81, 0.92}},
}

// satThreshold separates chromatic input from near-grayscale input. Above
// it the grayscale palette entries are excluded from candidacy.
const satThreshold = 0.15

// grayscaleNames are the palette entries skipped for chromatic input.
var grayscaleNames = map[string]bool{
	"Gray":       true,
	"Light Gray": true,
	"Black":      true,
	"White":      true,
}

// Name returns the palette entry closest to rgb by squared Euclidean
// distance. Input with fewer than three components yields "unknown".
func (p Palette) Name(rgb []float64) string {
	if len(rgb) < 3 {
		return "unknown"
	}
	r, g, b := rgb[0], rgb[1], rgb[2]

	saturation := max3(r, g, b) - min3(r, g, b)
	chromatic := saturation > satThreshold

	minDist := -1.0
	closest := "Gray"

	for _, ref := range p {
		if chromatic && grayscaleNames[ref.Name] {
			continue
		}
		if len(ref.RGB) < 3 {
			continue
		}
		dr, dg, db := r-ref.RGB[0], g-ref.RGB[1], b-ref.RGB[2]
		dist := dr*dr + dg*dg + db*db
		if minDist < 0 || dist < minDist {
			minDist = dist
			closest = ref.Name
		}
	}

	return closest
}

// Name classifies rgb against the default palette.
func Name(rgb []float64) string {
	return Default.Name(rgb)
}

// Hex converts an RGB triple to a "#RRGGBB" string. Components above 1.0
// mark the whole triple as 0-255 scale. Malformed input yields "#FFFFFF".
func Hex(rgb []float64) string {
	if len(rgb) < 3 {
		return "#FFFFFF"
	}
	r, g, b := rgb[0], rgb[1], rgb[2]

	if r > 1.0 || g > 1.0 || b > 1.0 {
		r /= 255.0
		g /= 255.0
		b /= 255.0
	}

	return fmt.Sprintf("#%02X%02X%02X", channel(r), channel(g), channel(b))
}

// channel clamps a [0,1] component and scales it to a byte.
func channel(v float64) int {
	if v < 0.0 {
		v = 0.0
	}
	if v > 1.0 {
		v = 1.0
	}
	return int(v * 255)
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
