// Package main provides the pdfrenamer CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// quiet suppresses per-file progress output
var quiet bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pdfrenamer [path]",
	Short: "Rename PDF files of scientific publications from their metadata",
	Long: `pdfrenamer scans a folder of PDF files, finds the DOI or arXiv ID of
each publication, looks up its metadata, and renames the file according
to a configurable format. Every rename is recorded as a bibtex entry in
a .bib file next to the target folder, and files whose identifier cannot
be found are moved into a "todo" subfolder for manual handling.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRename,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-file progress output")
	rootCmd.Version = Version
}
