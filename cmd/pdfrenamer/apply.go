package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwade/pdfrenamer/internal/bibtex"
	"github.com/cwade/pdfrenamer/internal/config"
	"github.com/cwade/pdfrenamer/internal/renamer"
)

var (
	applyBib    string
	applyDryRun bool
)

func init() {
	applyCmd.Flags().StringVar(&applyBib, "bib", "", "Path of the bibtex file (default: <dir>/<dirname>.bib)")
	applyCmd.Flags().BoolVarP(&applyDryRun, "dry-run", "n", false, "Describe but do not execute the renames")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply [path]",
	Short: "Rename files using the entries recorded in a bibtex file",
	Long: `Rename pdf files using the folder / filename_old / filename_new fields
recorded in a bibtex file by a previous run. Edit the bibtex file first
to adjust any name you disagree with, then apply it.

Usage:
  pdfrenamer apply ~/papers
  pdfrenamer apply --bib refs.bib --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	bibPath := applyBib
	if bibPath == "" {
		if len(args) == 0 {
			return fmt.Errorf("either a target path or --bib is required")
		}
		target := config.ExpandTilde(args[0])
		path, err := renamer.BibPath(target)
		if err != nil {
			os.Exit(outputError(ExitError, "%v", err))
		}
		bibPath = path
	}

	records, err := bibtex.ParseRenames(bibPath)
	if err != nil {
		os.Exit(outputError(ExitDataError, "%v", err))
	}
	if len(records) == 0 {
		verbosef("No rename entries found in %s.", bibPath)
		return nil
	}

	var done, skipped int
	for _, rec := range records {
		oldPath := filepath.Join(rec.Folder, rec.FilenameOld)
		newPath := filepath.Join(rec.Folder, rec.FilenameNew)

		if rec.FilenameOld == rec.FilenameNew {
			skipped++
			continue
		}
		if _, err := os.Stat(oldPath); err != nil {
			verbosef("Skipping %s: %v", oldPath, err)
			skipped++
			continue
		}
		if _, err := os.Stat(newPath); err == nil {
			verbosef("Skipping %s: destination already exists (%s)", oldPath, newPath)
			skipped++
			continue
		}

		verbosef("Renaming %s -> %s", oldPath, newPath)
		if applyDryRun {
			done++
			continue
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			verbosef("Skipping %s: %v", oldPath, err)
			skipped++
			continue
		}
		done++
	}

	fmt.Printf("Applied %d rename(s), skipped %d.\n", done, skipped)
	return nil
}
