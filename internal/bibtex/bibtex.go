// Package bibtex renders, indexes, and parses the bibtex file that
// records every rename.
package bibtex

import (
	"fmt"
	"strings"

	"github.com/cwade/pdfrenamer/internal/reference"
)

// Entry is a bibtex record with the rename-tracking fields appended.
type Entry struct {
	Metadata *reference.Metadata

	// Rename tracking. Folder holds the directory of the file,
	// FilenameOld/FilenameNew the basenames before and after renaming.
	Folder      string
	FilenameOld string
	FilenameNew string
}

// Render converts an entry to bibtex format.
func (e *Entry) Render() string {
	m := e.Metadata
	entryType := determineEntryType(m)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, reference.CiteKey(m)))

	if len(m.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(m.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(m.Title)))

	if venue := m.Venue(); venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(venue)))
	}

	if m.Published.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", m.Published.Year))
	}
	if m.Published.Month > 0 {
		b.WriteString(fmt.Sprintf("  month = {%d},\n", m.Published.Month))
	}

	if m.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", m.Volume))
	}
	if m.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", m.Issue))
	}
	if m.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", m.Pages))
	}

	if m.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", m.DOI))
	}
	if m.ArXivID != "" {
		b.WriteString(fmt.Sprintf("  eprint = {%s},\n", m.ArXivID))
	}

	b.WriteString(fmt.Sprintf("  folder = {%s},\n", e.Folder))
	b.WriteString(fmt.Sprintf("  filename_old = {%s},\n", e.FilenameOld))
	b.WriteString(fmt.Sprintf("  filename_new = {%s},\n", e.FilenameNew))

	b.WriteString("}\n")

	return b.String()
}

// determineEntryType returns the bibtex entry type for a publication.
func determineEntryType(m *reference.Metadata) string {
	venue := strings.ToLower(m.Venue())

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Preprints and journal papers alike.
	return "article"
}

// formatAuthors formats authors in bibtex style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.First))
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
