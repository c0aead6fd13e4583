// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/highlight-extractor/internal/export"
	"github.com/pdiddy/highlight-extractor/internal/extract"
	"github.com/pdiddy/highlight-extractor/internal/pdfio"
	"github.com/pdiddy/highlight-extractor/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <input.pdf>",
	Short: "Extract highlight annotations from a PDF file",
	Long: `Extract reads the highlight annotations from a PDF, recovers the
highlighted text, classifies each highlight color against a reference
palette, and writes the result in the selected format.

Formats: json (structured data), xmind (mind map), notion (Markdown).`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if err := pdfio.ValidateInputPath(inputPath); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	groupBy, _ := cmd.Flags().GetString("group-by")
	pretty, _ := cmd.Flags().GetBool("pretty")
	palettePath, _ := cmd.Flags().GetString("palette")
	verbose, _ := cmd.Flags().GetBool("verbose")

	outFormat := types.OutputFormat(format)
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, outFormat)
	}

	cfg := types.ExtractionConfig{
		PalettePath: palettePath,
		Verbose:     verbose,
	}

	result, err := extract.ExtractFile(inputPath, cfg, os.Stderr)
	if err != nil {
		return err
	}

	if result.TotalHighlights == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no highlights found in the PDF")
	}

	mode := types.GroupMode(groupBy)

	switch outFormat {
	case types.FormatJSON:
		// The grouped view is attached only when grouping was asked for.
		jsonMode := types.GroupMode("")
		if cmd.Flags().Changed("group-by") {
			jsonMode = mode
		}
		if err := export.ExportJSON(result, outputPath, pretty, jsonMode); err != nil {
			return err
		}
	case types.FormatXMind:
		if err := export.ExportXMind(result, outputPath, mode); err != nil {
			return err
		}
		fmt.Printf("  (Organized by: %s)\n", mode)
	case types.FormatNotion:
		if err := export.ExportNotion(result, outputPath, mode); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use json, xmind, or notion", format)
	}

	fmt.Printf("Successfully extracted %d highlights\n", result.TotalHighlights)
	fmt.Printf("Results saved to: %s\n", outputPath)
	return nil
}

// defaultOutputPath derives the output file next to the input, with the
// extension matching the format.
func defaultOutputPath(inputPath string, format types.OutputFormat) string {
	stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	switch format {
	case types.FormatXMind:
		return stem + ".xmind"
	case types.FormatNotion:
		return stem + ".md"
	default:
		return stem + ".json"
	}
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "output file path (default: input name with format extension)")
	extractCmd.Flags().StringP("format", "f", "json", "output format: json, xmind, or notion")
	extractCmd.Flags().BoolP("pretty", "p", false, "pretty-print JSON output")
	extractCmd.Flags().String("group-by", "page", "organize highlights by page or color")
	extractCmd.Flags().String("palette", "", "YAML file with a custom color reference table")

	rootCmd.AddCommand(extractCmd)
}
