// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/highlight-extractor/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a remote PDF for extraction",
	Long: `Fetch downloads a PDF over HTTP to a local file, retrying on rate
limits. The downloaded file can then be passed to the extract command.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = fetchOutputPath(rawURL)
	}

	f := &fetch.Fetcher{}
	if err := f.Fetch(context.Background(), rawURL, outputPath, os.Stderr); err != nil {
		return err
	}

	fmt.Printf("Downloaded to: %s\n", outputPath)
	return nil
}

// fetchOutputPath derives a local file name from the URL path, falling
// back to download.pdf when the URL gives no usable name.
func fetchOutputPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download.pdf"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "download.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "", "destination file path (default: derived from the URL)")

	rootCmd.AddCommand(fetchCmd)
}
