// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/highlight-extractor/internal/library"
	"github.com/pdiddy/highlight-extractor/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the highlight library (store, retrieve, export)",
	Long: `Library manages a local SQLite index of extracted highlights. Use
subcommands to ingest extraction results, query them with full-text
search, or export the index.`,
}

// --- store subcommand ---

var libraryStoreCmd = &cobra.Command{
	Use:   "store <results.json>...",
	Short: "Ingest extraction results into the highlight library",
	Long: `Store reads extraction-result JSON files, ingests their highlights
into a SQLite database with FTS5 indexing, and refreshes the export
file. Unchanged files are skipped on subsequent runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLibraryStore,
}

func runLibraryStore(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), args, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d result file(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var libraryRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the highlight library with full-text search and filters",
	Long: `Retrieve searches stored highlights using FTS5 full-text search,
structured filters (color, page, document), or a combination of both.`,
	RunE: runLibraryRetrieve,
}

func runLibraryRetrieve(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --color, --page, or --document")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []library.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-50s  %-20s  %s\n",
		"Rank", "Color", "Text", "Document", "Page")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))

	for i, r := range results {
		text := r.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		doc := r.DocumentID
		if len(doc) > 20 {
			doc = doc[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-50s  %-20s  %d\n",
			i+1, r.ColorName, text, doc, r.Page)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the highlight library to YAML",
	Long: `Export writes the full library (or a filtered subset) to
library/index/export.yaml. Supports the same filter flags as retrieve
for partial exports.`,
	RunE: runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	store, err := library.NewStore(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if err := store.ExportYAML(context.Background(), opts); err != nil {
		return err
	}

	libraryDir, _ := cmd.Flags().GetString("library-dir")
	fmt.Printf("Exported to %s/index/export.yaml\n", libraryDir)
	return nil
}

// --- shared helpers ---

func libraryConfig(cmd *cobra.Command) types.LibraryConfig {
	libraryDir, _ := cmd.Flags().GetString("library-dir")
	if libraryDir == "" {
		libraryDir = "library"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.LibraryConfig{
		LibraryDir: libraryDir,
		MaxResults: maxResults,
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) library.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	colorName, _ := cmd.Flags().GetString("color")
	page, _ := cmd.Flags().GetInt("page")
	document, _ := cmd.Flags().GetString("document")
	limit, _ := cmd.Flags().GetInt("limit")

	return library.QueryOptions{
		Query:      queryText,
		ColorName:  colorName,
		Page:       page,
		Document:   document,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	libraryCmd.PersistentFlags().String("library-dir", "library", "base directory for the library (contains index/)")
	libraryCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Retrieve flags.
	libraryRetrieveCmd.Flags().String("query", "", "full-text search query")
	libraryRetrieveCmd.Flags().String("color", "", "filter by classified color name")
	libraryRetrieveCmd.Flags().Int("page", 0, "filter by page number")
	libraryRetrieveCmd.Flags().String("document", "", "filter by document ID")
	libraryRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	libraryRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	libraryExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	libraryExportCmd.Flags().String("color", "", "filter by color name for partial export")
	libraryExportCmd.Flags().Int("page", 0, "filter by page number for partial export")
	libraryExportCmd.Flags().String("document", "", "filter by document ID for partial export")
	libraryExportCmd.Flags().Int("limit", 0, "maximum highlights to export (0 = all)")

	// Wire subcommands.
	libraryCmd.AddCommand(libraryStoreCmd)
	libraryCmd.AddCommand(libraryRetrieveCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
