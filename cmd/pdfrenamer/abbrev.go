package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwade/pdfrenamer/internal/config"
	"github.com/cwade/pdfrenamer/internal/filename"
)

func init() {
	abbrevCmd.AddCommand(abbrevAddCmd)
	rootCmd.AddCommand(abbrevCmd)
}

var abbrevCmd = &cobra.Command{
	Use:   "abbrev",
	Short: "Manage journal abbreviations used by the {Jabbr} tag",
}

var abbrevAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add journal abbreviations from a text file",
	Long: `Add the abbreviations in the given text file to the user abbreviation
list. Each line must have the form

  FULL NAME = ABBREVIATION

New entries are added at the top of the list, so they take precedence
over existing ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbbrevAdd,
}

func runAbbrevAdd(cmd *cobra.Command, args []string) error {
	src := config.ExpandTilde(args[0])
	if _, err := os.Stat(src); err != nil {
		os.Exit(outputError(ExitError, "%s is not a valid path to a file", src))
	}

	dest := config.AbbrevPath()
	if dest == "" {
		os.Exit(outputError(ExitConfigError, "cannot determine config directory"))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		os.Exit(outputError(ExitConfigError, "creating config directory: %v", err))
	}

	if err := filename.AddUserAbbreviations(src, dest); err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	fmt.Printf("Abbreviations from %s added to %s.\n", src, dest)
	return nil
}
