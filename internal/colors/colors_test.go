package colors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		rgb  []float64
		want string
	}{
		{"yellow", []float64{1.0, 1.0, 0.0}, "Yellow"},
		{"red", []float64{1.0, 0.0, 0.0}, "Red"},
		{"green", []float64{0.0, 1.0, 0.0}, "Green"},
		{"blue", []float64{0.0, 0.0, 1.0}, "Blue"},
		{"near yellow", []float64{0.95, 0.93, 0.05}, "Yellow"},
		{"black", []float64{0.0, 0.0, 0.0}, "Black"},
		{"white", []float64{1.0, 1.0, 1.0}, "White"},
		{"mid gray", []float64{0.5, 0.5, 0.5}, "Gray"},
		{"light gray", []float64{0.88, 0.9, 0.91}, "Light Gray"},
		{"empty", nil, "unknown"},
		{"two components", []float64{1.0, 0.5}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.rgb); got != tt.want {
				t.Errorf("Name(%v) = %q, want %q", tt.rgb, got, tt.want)
			}
		})
	}
}

// Chromatic input must never classify as a grayscale color, even when a
// grayscale entry is the nearest by raw distance.
func TestNameChromaticSkipsGrayscale(t *testing.T) {
	// Saturation 0.2, closer to Light Gray (0.9,0.9,0.9) than to any
	// chromatic entry by small margins.
	got := Name([]float64{1.0, 0.9, 0.8})
	if grayscaleNames[got] {
		t.Fatalf("chromatic input classified as grayscale %q", got)
	}
}

// Dark Red precedes Maroon in the table and shares its reference value, so
// an exact tie must resolve to Dark Red.
func TestNameTieBreakTableOrder(t *testing.T) {
	if got := Name([]float64{0.5, 0.0, 0.0}); got != "Dark Red" {
		t.Errorf("tie broke to %q, want first table entry Dark Red", got)
	}
	// Green precedes Lime likewise.
	if got := Name([]float64{0.0, 1.0, 0.0}); got != "Green" {
		t.Errorf("tie broke to %q, want Green", got)
	}
}

func TestNameDeterministic(t *testing.T) {
	rgb := []float64{0.3, 0.7, 0.2}
	first := Name(rgb)
	for i := 0; i < 10; i++ {
		if got := Name(rgb); got != first {
			t.Fatalf("Name not deterministic: %q then %q", first, got)
		}
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  []float64
		want string
	}{
		{"red", []float64{1.0, 0.0, 0.0}, "#FF0000"},
		{"white", []float64{1.0, 1.0, 1.0}, "#FFFFFF"},
		{"black", []float64{0.0, 0.0, 0.0}, "#000000"},
		{"yellow", []float64{1.0, 1.0, 0.0}, "#FFFF00"},
		{"255 scale", []float64{255.0, 0.0, 0.0}, "#FF0000"},
		{"255 scale mixed", []float64{128.0, 64.0, 255.0}, "#8040FF"},
		{"clamped negative", []float64{-0.5, 0.5, 0.5}, "#007F7F"},
		{"empty", nil, "#FFFFFF"},
		{"short", []float64{0.5}, "#FFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(tt.rgb); got != tt.want {
				t.Errorf("Hex(%v) = %q, want %q", tt.rgb, got, tt.want)
			}
		})
	}
}

func TestDefaultPaletteShape(t *testing.T) {
	if len(Default) < 24 {
		t.Fatalf("default palette has %d entries, want at least 24", len(Default))
	}
	seenGrayscale := 0
	for _, ref := range Default {
		if len(ref.RGB) != 3 {
			t.Errorf("entry %q has %d components", ref.Name, len(ref.RGB))
		}
		if grayscaleNames[ref.Name] {
			seenGrayscale++
		}
	}
	if seenGrayscale != 4 {
		t.Errorf("default palette has %d grayscale entries, want 4", seenGrayscale)
	}
}

func TestLoadPalette(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palette.yaml")
	content := `
- name: Hot Pink
  rgb: [1.0, 0.1, 0.6]
- name: Pink
  rgb: [1.0, 0.2, 0.6]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette: %v", err)
	}
	if len(p) != 2 {
		t.Fatalf("got %d entries, want 2", len(p))
	}
	if p[0].Name != "Hot Pink" {
		t.Errorf("file order not preserved: first entry %q", p[0].Name)
	}
	// The custom table replaces the built-in one for this palette.
	if got := p.Name([]float64{1.0, 0.1, 0.6}); got != "Hot Pink" {
		t.Errorf("custom palette classify = %q, want Hot Pink", got)
	}
}

func TestLoadPaletteRejectsMalformed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "- rgb: [1, 0, 0]\n"},
		{"wrong arity", "- name: Red\n  rgb: [1, 0]\n"},
		{"out of range", "- name: Red\n  rgb: [2.0, 0, 0]\n"},
		{"empty", "[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadPalette(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
