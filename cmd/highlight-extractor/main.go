// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the highlight-extractor CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the highlight-extractor CLI.
var rootCmd = &cobra.Command{
	Use:   "highlight-extractor",
	Short: "Extract highlight annotations from PDF documents",
	Long: `highlight-extractor reads highlight annotations from PDF files and
exports them as structured JSON, XMind mind maps, or Notion-compatible
Markdown. Extracted results can also be indexed into a local library
with full-text search.

Each stage is a subcommand: extract pulls highlights from a PDF, and
library manages the searchable highlight index.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./highlight-extractor.yaml or ~/.config/highlight-extractor/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("highlight-extractor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "highlight-extractor"))
		}
	}

	viper.SetEnvPrefix("HIGHLIGHT_EXTRACTOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
