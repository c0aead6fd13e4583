package types

// GroupMode selects how exporters bucket highlights.
type GroupMode string

const (
	GroupByPage  GroupMode = "page"
	GroupByColor GroupMode = "color"
)

// Valid reports whether the mode is one of the two supported groupings.
func (m GroupMode) Valid() bool {
	return m == GroupByPage || m == GroupByColor
}

// OutputFormat selects the export target for an extraction run.
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"
	FormatXMind  OutputFormat = "xmind"
	FormatNotion OutputFormat = "notion"
)

// ExtractionConfig holds settings for the extract stage.
type ExtractionConfig struct {
	// PalettePath is an optional YAML file replacing the built-in color
	// reference table.
	PalettePath string `json:"palette_path,omitempty" yaml:"palette_path,omitempty"`

	// Verbose enables debug-level logging of per-annotation decisions.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ExportConfig holds settings shared by the exporters.
type ExportConfig struct {
	// Format selects the output format: json, xmind, or notion.
	Format OutputFormat `json:"format" yaml:"format"`

	// GroupBy organizes highlights by page or by color (default page).
	GroupBy GroupMode `json:"group_by" yaml:"group_by"`

	// Pretty enables indented JSON output.
	Pretty bool `json:"pretty" yaml:"pretty"`
}

// LibraryConfig holds settings for the highlight library stage.
type LibraryConfig struct {
	// LibraryDir is the base directory for the library (contains index/).
	LibraryDir string `json:"library_dir" yaml:"library_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
