package filename

import (
	"fmt"
	"strings"

	"github.com/cwade/pdfrenamer/internal/reference"
)

// Options control how tag values are rendered.
type Options struct {
	// Case is one of "camel", "snake", "kebab", "none". Conversion is
	// applied to tag values only; literal text in the format string is
	// never touched.
	Case string

	// MaxLengthAuthors caps the length of any rendered author string.
	MaxLengthAuthors int

	// MaxLengthFilename caps the length of the whole generated filename
	// (extension excluded).
	MaxLengthFilename int

	// MaxWordsTitle caps the number of title words used.
	MaxWordsTitle int

	// Abbreviations resolves {Jabbr}. May be nil.
	Abbreviations *AbbrevTable
}

// Build renders the filename format with values from the metadata.
// The returned name has no extension; characters that are illegal in
// filenames are stripped.
func Build(m *reference.Metadata, format string, opts Options) (string, error) {
	tags, err := ValidateFormat(format)
	if err != nil {
		return "", err
	}

	name := format
	for _, tag := range tags {
		value := renderTag(m, tag, opts)
		value = applyCase(value, opts.Case)
		name = strings.Replace(name, tag, value, 1)
	}

	name = sanitize(name)
	if opts.MaxLengthFilename > 0 {
		name = truncate(name, opts.MaxLengthFilename)
	}
	if name == "" {
		return "", fmt.Errorf("format %q produced an empty filename", format)
	}
	return name, nil
}

// renderTag returns the raw (pre-case-conversion) value of one tag.
func renderTag(m *reference.Metadata, tag string, opts Options) string {
	switch tag {
	case "{YYYY}":
		if m.Published.Year > 0 {
			return fmt.Sprintf("%04d", m.Published.Year)
		}
		return ""
	case "{MM}":
		if m.Published.Month > 0 {
			return fmt.Sprintf("%02d", m.Published.Month)
		}
		return ""
	case "{DD}":
		if m.Published.Day > 0 {
			return fmt.Sprintf("%02d", m.Published.Day)
		}
		return ""
	case "{J}":
		return m.Venue()
	case "{Jabbr}":
		return abbreviatedJournal(m, opts.Abbreviations)
	case "{A1}":
		return truncate(authorList(m.Authors, 1, false), opts.MaxLengthAuthors)
	case "{Aetal}":
		return truncate(authorList(m.Authors, 1, true), opts.MaxLengthAuthors)
	case "{A3etal}":
		return truncate(authorList(m.Authors, 3, true), opts.MaxLengthAuthors)
	case "{Aall}":
		return truncate(authorList(m.Authors, len(m.Authors), false), opts.MaxLengthAuthors)
	case "{T}":
		return limitWords(m.Title, opts.MaxWordsTitle)
	}
	return ""
}

// abbreviatedJournal resolves {Jabbr}: user/built-in abbreviation table
// first, then the resolver-supplied short name, then the full name.
func abbreviatedJournal(m *reference.Metadata, table *AbbrevTable) string {
	if table != nil {
		if abbr := table.Lookup(m.Journal); abbr != "" {
			return abbr
		}
	}
	if m.JournalAbbrev != "" {
		return m.JournalAbbrev
	}
	return m.Venue()
}

// authorList joins the last names of up to max authors with ", ",
// appending " et al." when etal is set and authors remain.
func authorList(authors []reference.Author, max int, etal bool) string {
	if len(authors) == 0 {
		return ""
	}
	if max > len(authors) {
		max = len(authors)
	}

	names := make([]string, 0, max)
	for _, a := range authors[:max] {
		if a.Last != "" {
			names = append(names, a.Last)
		}
	}
	out := strings.Join(names, ", ")
	if etal && len(authors) > max {
		out += " et al."
	}
	return out
}

// limitWords keeps at most max words of s.
func limitWords(s string, max int) string {
	if max <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) > max {
		words = words[:max]
	}
	return strings.Join(words, " ")
}

// applyCase converts a tag value according to the case mode. Camel case
// capitalizes every word and removes the spaces between them; snake and
// kebab replace spaces with "_" and "-".
func applyCase(s, mode string) string {
	switch mode {
	case "camel":
		words := strings.Fields(s)
		for i, w := range words {
			words[i] = capitalize(w)
		}
		return strings.Join(words, "")
	case "snake":
		return strings.Join(strings.Fields(s), "_")
	case "kebab":
		return strings.Join(strings.Fields(s), "-")
	}
	return s
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// illegalChars are characters not allowed in filenames on at least one
// supported platform.
const illegalChars = `/\:*?"<>|`

// sanitize strips illegal and control characters and collapses the
// whitespace runs left behind.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(illegalChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	// A leading dot would hide the file; trailing dots confuse Windows.
	return strings.Trim(out, ". ")
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimRight(string(r[:max]), " ")
}
