// Package renamer implements the sequential batch workflow: walk a
// target, resolve each PDF, rename it, record the rename in the bibtex
// file, and file unresolved PDFs away in a todo subfolder.
package renamer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cwade/pdfrenamer/internal/bibtex"
	"github.com/cwade/pdfrenamer/internal/filename"
	"github.com/cwade/pdfrenamer/internal/ledger"
	"github.com/cwade/pdfrenamer/internal/reference"
	"github.com/cwade/pdfrenamer/internal/resolve"
)

// Status describes what happened to one file.
type Status string

const (
	StatusRenamed    Status = "renamed"    // Resolved and renamed
	StatusUnchanged  Status = "unchanged"  // Resolved; new name equals old name
	StatusSkipped    Status = "skipped"    // Already processed, or not a PDF
	StatusUnresolved Status = "unresolved" // No identifier; moved to todo
	StatusFailed     Status = "failed"     // Resolved but rename/record failed
)

// Result describes the outcome for one file.
type Result struct {
	PathOrig       string
	PathNew        string
	Identifier     string
	IdentifierType string
	Status         Status
	Err            error
}

// Options control the batch workflow.
type Options struct {
	Format      string
	Filename    filename.Options
	Subfolders  bool
	Overwrite   bool
	DryRun      bool
	ForceRename bool
	TodoDir     string // Subfolder name for unresolved files
}

// Marker records processed state. Satisfied by *ledger.DB.
type Marker interface {
	IsProcessed(path, format string) (bool, error)
	MarkProcessed(path string, rec ledger.Record) error
}

// MetadataResolver resolves a PDF to publication metadata.
// Satisfied by *resolve.Resolver.
type MetadataResolver interface {
	Resolve(ctx context.Context, path string) (*resolve.Result, error)
}

// Renamer runs the batch workflow against one bibtex file.
type Renamer struct {
	resolver MetadataResolver
	marker   Marker
	opts     Options

	bibPath string
	index   *bibtex.Index

	// Logf receives progress output; nil silences it.
	Logf func(format string, args ...interface{})
}

// New creates a Renamer. bibPath is the bibtex file renames are recorded
// in; its existing entries are indexed so papers are not appended twice.
func New(resolver MetadataResolver, marker Marker, bibPath string, opts Options) (*Renamer, error) {
	if _, err := filename.ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if opts.TodoDir == "" {
		opts.TodoDir = "todo"
	}

	index, err := bibtex.ParseIndex(bibPath)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", bibPath, err)
	}

	return &Renamer{
		resolver: resolver,
		marker:   marker,
		opts:     opts,
		bibPath:  bibPath,
		index:    index,
	}, nil
}

func (r *Renamer) logf(format string, args ...interface{}) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// ProcessTarget processes a file or directory. Per-file failures are
// reported in the results, never as an error; an error is returned only
// when the target itself is unusable.
func (r *Renamer) ProcessTarget(ctx context.Context, target string) ([]Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid path: %w", target, err)
	}

	if !info.IsDir() {
		return []Result{r.ProcessFile(ctx, target)}, nil
	}
	return r.processDir(ctx, target)
}

// processDir processes every PDF in a directory in sorted order, then
// recurses into sorted subfolders when enabled. The todo subfolder is
// never recursed into.
func (r *Renamer) processDir(ctx context.Context, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var pdfs, subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			if e.Name() != r.opts.TodoDir {
				subdirs = append(subdirs, e.Name())
			}
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			pdfs = append(pdfs, e.Name())
		}
	}
	sort.Strings(pdfs)
	sort.Strings(subdirs)

	r.logf("Looking for pdf files and subfolders in %s ...", dir)
	if len(pdfs) == 0 {
		r.logf("No pdf files found in %s.", dir)
	} else {
		r.logf("Found %d pdf file(s).", len(pdfs))
	}

	var results []Result
	for _, name := range pdfs {
		results = append(results, r.ProcessFile(ctx, filepath.Join(dir, name)))
	}

	if len(subdirs) > 0 && r.opts.Subfolders {
		for _, name := range subdirs {
			sub, err := r.processDir(ctx, filepath.Join(dir, name))
			if err != nil {
				r.logf("error: %v", err)
				continue
			}
			results = append(results, sub...)
		}
	} else if len(subdirs) > 0 {
		r.logf("Found %d subfolder(s); not scanned (use --subfolders to include them).", len(subdirs))
	}

	return results, nil
}

// ProcessFile runs the workflow for one PDF.
func (r *Renamer) ProcessFile(ctx context.Context, path string) Result {
	res := Result{PathOrig: path, Status: StatusSkipped}
	r.logf("File: %s", path)

	if _, err := os.Stat(path); err != nil {
		res.Err = fmt.Errorf("invalid path: %w", err)
		r.logf("Skipping file: %v", res.Err)
		return res
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		res.Err = fmt.Errorf("not a .pdf file: %s", path)
		r.logf("Skipping file: %v", res.Err)
		return res
	}

	if !r.opts.Overwrite && r.marker != nil {
		done, err := r.marker.IsProcessed(path, r.opts.Format)
		if err != nil {
			r.logf("warning: checking processed state: %v", err)
		} else if done {
			r.logf("Skipping file: already processed.")
			return res
		}
	}

	resolved, err := r.resolver.Resolve(ctx, path)
	if err != nil {
		res.Status = StatusUnresolved
		res.Err = err
		r.logf("Could not resolve file: %v", err)
		r.moveToTodo(&res)
		return res
	}

	res.Identifier = resolved.Identifier
	res.IdentifierType = resolved.IdentifierType
	r.logf("Found %s %s", resolved.IdentifierType, resolved.Identifier)

	newName, err := filename.Build(resolved.Metadata, r.opts.Format, r.opts.Filename)
	if err != nil {
		res.Status = StatusUnresolved
		res.Err = fmt.Errorf("building filename: %w", err)
		r.logf("%v", res.Err)
		r.moveToTodo(&res)
		return res
	}

	ext := strings.ToLower(filepath.Ext(path))
	newPath := filepath.Join(filepath.Dir(path), newName+ext)
	r.logf("The new file name is %s", filepath.Base(newPath))

	if newPath == path && !r.opts.ForceRename {
		r.logf("The new file name is identical to the old one; nothing to rename.")
		res.Status = StatusUnchanged
		res.PathNew = path
		r.record(&res, resolved)
		return res
	}

	renamedPath, err := r.rename(path, newPath, ext)
	if err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("renaming: %w", err)
		r.logf("%v", res.Err)
		r.moveToTodo(&res)
		return res
	}
	if renamedPath != newPath {
		r.logf("A file with the same name already existed; a numerical index was added.")
	}

	res.Status = StatusRenamed
	res.PathNew = renamedPath
	r.record(&res, resolved)
	return res
}

// record appends the bibtex entry and marks the file processed.
// Failures downgrade the result but do not undo the rename.
func (r *Renamer) record(res *Result, resolved *resolve.Result) {
	if r.opts.DryRun {
		return
	}

	entry := &bibtex.Entry{
		Metadata:    resolved.Metadata,
		Folder:      filepath.Dir(res.PathOrig),
		FilenameOld: filepath.Base(res.PathOrig),
		FilenameNew: filepath.Base(res.PathNew),
	}

	key := reference.CiteKey(resolved.Metadata)
	if !r.index.HasEntry(key, resolved.Metadata.DOI) {
		if err := bibtex.Append(r.bibPath, entry.Render()); err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("appending bibtex entry: %w", err)
			r.logf("%v", res.Err)
			return
		}
		r.index.Add(key, resolved.Metadata.DOI)
	} else {
		r.logf("Bibtex entry %s already present; not appended again.", key)
	}

	if r.marker != nil {
		rec := ledger.Record{
			Format:         r.opts.Format,
			Identifier:     res.Identifier,
			IdentifierType: res.IdentifierType,
			Filename:       filepath.Base(res.PathNew),
		}
		if err := r.marker.MarkProcessed(res.PathNew, rec); err != nil {
			r.logf("warning: recording processed state: %v", err)
		}
	}
}

// rename moves oldPath to newPath, appending " (2)", " (3)", ... before
// the extension if the destination already exists. It never overwrites.
// In dry-run mode the first free name is returned without renaming.
func (r *Renamer) rename(oldPath, newPath, ext string) (string, error) {
	base := strings.TrimSuffix(newPath, ext)
	for i := 1; ; i++ {
		candidate := base + ext
		if i > 1 {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		if _, err := os.Stat(candidate); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", err
		}
		if r.opts.DryRun {
			return candidate, nil
		}
		if err := os.Rename(oldPath, candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
}

// moveToTodo moves a file that could not be processed into the todo
// subfolder of its own directory, creating the subfolder on first use.
func (r *Renamer) moveToTodo(res *Result) {
	if r.opts.DryRun {
		return
	}

	dir := filepath.Dir(res.PathOrig)
	todoDir := filepath.Join(dir, r.opts.TodoDir)
	if err := os.MkdirAll(todoDir, 0755); err != nil {
		r.logf("warning: creating todo folder: %v", err)
		return
	}

	dest := filepath.Join(todoDir, filepath.Base(res.PathOrig))
	if _, err := os.Stat(dest); err == nil {
		r.logf("warning: %s already exists; file left in place.", dest)
		return
	}

	if err := os.Rename(res.PathOrig, dest); err != nil {
		r.logf("warning: moving file to todo folder: %v", err)
		return
	}
	res.PathNew = dest
	r.logf("Moved to %s.", dest)
}

// BibPath returns the bibtex file path for a target: for a directory,
// <dir>/<dirname>.bib; for a file, the same next to the file.
func BibPath(target string) (string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("%s is not a valid path: %w", target, err)
	}

	dir := target
	if !info.IsDir() {
		dir = filepath.Dir(target)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(abs, filepath.Base(abs)+".bib"), nil
}
