package reference

import (
	"fmt"
	"strings"
	"unicode"
)

// Author represents a publication author.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// SplitName splits a display name like "Jane Q. Doe" into first and last
// parts. Names in "Last, First" form are handled as well. Single-word
// names are treated as a last name.
func SplitName(name string) Author {
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}
	}

	if comma := strings.Index(name, ","); comma != -1 {
		return Author{
			First: strings.TrimSpace(name[comma+1:]),
			Last:  strings.TrimSpace(name[:comma]),
		}
	}

	fields := strings.Fields(name)
	if len(fields) == 1 {
		return Author{Last: fields[0]}
	}
	return Author{
		First: strings.Join(fields[:len(fields)-1], " "),
		Last:  fields[len(fields)-1],
	}
}

// CiteKey generates a citation key from metadata.
// Format: LastName + Year + suffix (e.g., "Zhang2018-vi").
func CiteKey(m *Metadata) string {
	lastName := "Unknown"
	if len(m.Authors) > 0 && m.Authors[0].Last != "" {
		lastName = sanitizeForCiteKey(m.Authors[0].Last)
	}

	year := m.Published.Year
	if year == 0 {
		year = 9999
	}

	suffix := titleSuffix(m.Title)
	if suffix == "" {
		return fmt.Sprintf("%s%d", lastName, year)
	}
	return fmt.Sprintf("%s%d-%s", lastName, year, suffix)
}

// sanitizeForCiteKey removes non-alphanumeric characters.
func sanitizeForCiteKey(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

var citeKeyStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true,
	"in": true, "on": true, "for": true, "to": true, "with": true,
}

// titleSuffix creates a 2-letter suffix from the first letters of the
// first significant words of the title.
func titleSuffix(title string) string {
	words := strings.Fields(strings.ToLower(title))

	var suffix strings.Builder
	for _, w := range words {
		if citeKeyStopWords[w] {
			continue
		}
		r := []rune(w)[0]
		if unicode.IsLetter(r) {
			suffix.WriteRune(r)
		}
		if suffix.Len() >= 2 {
			break
		}
	}
	return suffix.String()
}
