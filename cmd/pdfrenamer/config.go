package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwade/pdfrenamer/internal/config"
	"github.com/cwade/pdfrenamer/internal/filename"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set persisted defaults",
	Long: `Get or set the defaults used when the corresponding flag is not given.

Usage:
  pdfrenamer config                         # Show all defaults
  pdfrenamer config format                  # Get one value
  pdfrenamer config format "{YYYY} - {T}"   # Set a value
  pdfrenamer config case snake

Keys:
  format               Filename format string
  case                 Case conversion mode (camel, snake, kebab, none)
  max-length-authors   Maximum length of author strings
  max-length-filename  Maximum length of generated filenames
  max-words-title      Maximum number of title words
  subfolders           Whether directories are scanned recursively (true/false)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	stored, err := config.Load()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "loading config: %v", err))
	}
	defaults := stored.Resolve()

	if len(args) == 0 {
		fmt.Printf("format:              %s\n", defaults.Format)
		fmt.Printf("case:                %s\n", defaults.Case)
		fmt.Printf("max-length-authors:  %d\n", defaults.MaxLengthAuthors)
		fmt.Printf("max-length-filename: %d\n", defaults.MaxLengthFilename)
		fmt.Printf("max-words-title:     %d\n", defaults.MaxWordsTitle)
		fmt.Printf("subfolders:          %t\n", defaults.Subfolders)
		return nil
	}

	key := args[0]
	if len(args) == 1 {
		switch key {
		case "format":
			fmt.Println(defaults.Format)
		case "case":
			fmt.Println(defaults.Case)
		case "max-length-authors":
			fmt.Println(defaults.MaxLengthAuthors)
		case "max-length-filename":
			fmt.Println(defaults.MaxLengthFilename)
		case "max-words-title":
			fmt.Println(defaults.MaxWordsTitle)
		case "subfolders":
			fmt.Println(defaults.Subfolders)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		return nil
	}

	value := args[1]
	if err := setConfigValue(stored, key, value); err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}
	if err := stored.Save(); err != nil {
		os.Exit(outputError(ExitConfigError, "saving config: %v", err))
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func setConfigValue(d *config.Defaults, key, value string) error {
	switch key {
	case "format":
		if _, err := filename.ValidateFormat(value); err != nil {
			return err
		}
		d.Format = value
	case "case":
		if err := config.ValidateCase(value); err != nil {
			return err
		}
		d.Case = value
	case "max-length-authors", "max-length-filename", "max-words-title":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		switch key {
		case "max-length-authors":
			d.MaxLengthAuthors = n
		case "max-length-filename":
			d.MaxLengthFilename = n
		case "max-words-title":
			d.MaxWordsTitle = n
		}
	case "subfolders":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("subfolders must be true or false")
		}
		d.Subfolders = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
