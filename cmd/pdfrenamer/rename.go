package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cwade/pdfrenamer/internal/config"
	"github.com/cwade/pdfrenamer/internal/filename"
	"github.com/cwade/pdfrenamer/internal/ledger"
	"github.com/cwade/pdfrenamer/internal/renamer"
	"github.com/cwade/pdfrenamer/internal/resolve"
)

var (
	renameFormat      string
	renameCase        string
	renameMaxAuthors  int
	renameMaxFilename int
	renameMaxTitle    int
	renameSubfolders  bool
	renameSetDefault  bool
	renameOverwrite   bool
	renameDryRun      bool
	renameForce       bool
	renameTodoDir     string
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&renameFormat, "format", "f", "",
		"Filename format. Valid tags:\n"+filename.TagHelp())
	f.StringVar(&renameCase, "case", "",
		"Case conversion for tag values: camel, snake, kebab, or none")
	f.IntVar(&renameMaxAuthors, "max-length-authors", 0,
		"Maximum length of any author string in the filename")
	f.IntVar(&renameMaxFilename, "max-length-filename", 0,
		"Maximum length of the generated filename")
	f.IntVar(&renameMaxTitle, "max-words-title", 0,
		"Maximum number of title words used in the filename")
	f.BoolVar(&renameSubfolders, "subfolders", false,
		"Also process pdf files in subfolders, recursively")
	f.BoolVar(&renameSetDefault, "set-default", false,
		"Store the format, case, and length options given here as future defaults")
	f.BoolVarP(&renameOverwrite, "overwrite", "o", false,
		"Process files even if they were already processed before")
	f.BoolVarP(&renameDryRun, "dry-run", "n", false,
		"Report what would happen without renaming or writing anything")
	f.BoolVar(&renameForce, "force-rename", false,
		"Rename even when the new name is identical to the old one")
	f.StringVar(&renameTodoDir, "todo-dir", "todo",
		"Name of the subfolder unresolved files are moved into")
}

// buildOptions merges persisted defaults with the flags given on the
// command line. Flags that were explicitly set win.
func buildOptions(cmd *cobra.Command) (renamer.Options, *config.Defaults, error) {
	stored, err := config.Load()
	if err != nil {
		return renamer.Options{}, nil, err
	}
	defaults := stored.Resolve()

	if cmd.Flags().Changed("format") {
		defaults.Format = renameFormat
	}
	if cmd.Flags().Changed("case") {
		defaults.Case = renameCase
	}
	if cmd.Flags().Changed("max-length-authors") {
		if renameMaxAuthors <= 0 {
			return renamer.Options{}, nil, fmt.Errorf("max-length-authors must be positive")
		}
		defaults.MaxLengthAuthors = renameMaxAuthors
	}
	if cmd.Flags().Changed("max-length-filename") {
		if renameMaxFilename <= 0 {
			return renamer.Options{}, nil, fmt.Errorf("max-length-filename must be positive")
		}
		defaults.MaxLengthFilename = renameMaxFilename
	}
	if cmd.Flags().Changed("max-words-title") {
		if renameMaxTitle <= 0 {
			return renamer.Options{}, nil, fmt.Errorf("max-words-title must be positive")
		}
		defaults.MaxWordsTitle = renameMaxTitle
	}
	if cmd.Flags().Changed("subfolders") {
		defaults.Subfolders = renameSubfolders
	}

	if err := config.ValidateCase(defaults.Case); err != nil {
		return renamer.Options{}, nil, err
	}
	if _, err := filename.ValidateFormat(defaults.Format); err != nil {
		return renamer.Options{}, nil, err
	}

	abbrev, err := filename.LoadAbbrevTable(config.AbbrevPath())
	if err != nil {
		return renamer.Options{}, nil, err
	}

	opts := renamer.Options{
		Format: defaults.Format,
		Filename: filename.Options{
			Case:              defaults.Case,
			MaxLengthAuthors:  defaults.MaxLengthAuthors,
			MaxLengthFilename: defaults.MaxLengthFilename,
			MaxWordsTitle:     defaults.MaxWordsTitle,
			Abbreviations:     abbrev,
		},
		Subfolders:  defaults.Subfolders,
		Overwrite:   renameOverwrite,
		DryRun:      renameDryRun,
		ForceRename: renameForce,
		TodoDir:     renameTodoDir,
	}
	return opts, &defaults, nil
}

func runRename(cmd *cobra.Command, args []string) error {
	// Pick up CROSSREF_MAILTO and friends from a local .env if present.
	_ = godotenv.Load()

	opts, defaults, err := buildOptions(cmd)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	if renameSetDefault {
		store := config.Defaults{
			Format:            defaults.Format,
			Case:              defaults.Case,
			MaxLengthAuthors:  defaults.MaxLengthAuthors,
			MaxLengthFilename: defaults.MaxLengthFilename,
			MaxWordsTitle:     defaults.MaxWordsTitle,
			Subfolders:        defaults.Subfolders,
		}
		if err := store.Save(); err != nil {
			os.Exit(outputError(ExitConfigError, "saving defaults: %v", err))
		}
		verbosef("Defaults saved to %s.", config.Path())
	}

	if len(args) == 0 {
		if renameSetDefault {
			return nil
		}
		return fmt.Errorf("a target path is required (see --help)")
	}
	target := config.ExpandTilde(args[0])

	bibPath, err := renamer.BibPath(target)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}
	if _, err := os.Stat(bibPath); err == nil {
		verbosef("Warning: bibtex file already exists (%s); new entries will be appended.", bibPath)
	}

	marker, err := openLedger(bibPath, renameDryRun)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}
	if marker != nil {
		defer marker.Close()
	}

	r, err := newRenamer(marker, bibPath, opts)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	if renameDryRun {
		verbosef("Dry run: no files will be renamed or moved.")
	}

	results, err := r.ProcessTarget(context.Background(), target)
	if err != nil {
		os.Exit(outputError(ExitError, "%v", err))
	}

	printSummary(os.Stdout, target, renameDryRun, results)
	return nil
}

// newRenamer wires the resolver and workflow together.
func newRenamer(marker *ledger.DB, bibPath string, opts renamer.Options) (*renamer.Renamer, error) {
	var m renamer.Marker
	if marker != nil {
		m = marker
	}

	r, err := renamer.New(resolve.NewDefault(), m, bibPath, opts)
	if err != nil {
		return nil, err
	}
	r.Logf = verbosef
	return r, nil
}

// openLedger opens the processed-file ledger next to the bibtex file.
// In dry-run mode an existing ledger is still consulted, but no new
// ledger file is created.
func openLedger(bibPath string, dryRun bool) (*ledger.DB, error) {
	path := filepath.Join(filepath.Dir(bibPath), ledger.DBFile)
	if dryRun {
		if _, err := os.Stat(path); err != nil {
			return nil, nil
		}
	}
	return ledger.Open(path)
}

// printSummary reports the renames done and the files left unresolved.
// Paths are shown relative to the target folder itself; for a single
// file target, relative to its containing folder.
func printSummary(w io.Writer, target string, dryRun bool, results []renamer.Result) {
	var renamed, unresolved []renamer.Result
	for _, res := range results {
		switch res.Status {
		case renamer.StatusRenamed:
			renamed = append(renamed, res)
		case renamer.StatusUnresolved:
			unresolved = append(unresolved, res)
		}
	}

	base := target
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		base = filepath.Dir(target)
	}

	fmt.Fprintln(w, "Summary of changes:")
	if len(renamed) == 0 {
		fmt.Fprintln(w, "No files renamed.")
	} else {
		for _, res := range renamed {
			fmt.Fprintf(w, "%s\n", relPath(base, res.PathOrig))
			fmt.Fprintf(w, "---> %s\n", relPath(base, res.PathNew))
		}
		fmt.Fprintf(w, "Renamed %d file(s).\n", len(renamed))
	}

	if len(unresolved) > 0 {
		fmt.Fprintln(w, "\nThe following files could not be renamed because no DOI or arXiv ID was found.")
		if dryRun {
			fmt.Fprintln(w, "They would be moved to the todo subfolder; add an identifier to the file or rename it manually.")
		} else {
			fmt.Fprintln(w, "They were moved to the todo subfolder; add an identifier to the file or rename it manually.")
		}
		for _, res := range unresolved {
			fmt.Fprintf(w, "  %s\n", res.PathOrig)
			if res.Err != nil && !errors.Is(res.Err, resolve.ErrNoIdentifier) {
				fmt.Fprintf(w, "    (%v)\n", res.Err)
			}
		}
	}
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
