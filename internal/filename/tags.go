// Package filename builds canonical filenames from publication metadata.
package filename

import (
	"fmt"
	"regexp"
)

// AllowedTags maps each recognized format tag to its description.
var AllowedTags = map[string]string{
	"{YYYY}":   "Year of publication (4 digits)",
	"{MM}":     "Month of publication (2 digits)",
	"{DD}":     "Day of publication (2 digits)",
	"{J}":      "Full journal name",
	"{Jabbr}":  "Abbreviated journal name",
	"{A1}":     "Last name of the first author",
	"{Aetal}":  "Last name of the first author, plus \"et al.\" if there are more",
	"{A3etal}": "Last names of the first three authors, plus \"et al.\" if there are more",
	"{Aall}":   "Last names of all authors",
	"{T}":      "Title",
}

// TagOrder lists the tags in display order for help text.
var TagOrder = []string{
	"{YYYY}", "{MM}", "{DD}", "{J}", "{Jabbr}",
	"{A1}", "{Aetal}", "{A3etal}", "{Aall}", "{T}",
}

var tagPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ValidateFormat checks a filename format string and returns the tags it
// contains, in order of appearance. A format must contain at least one
// recognized tag and no unrecognized {...} sequences.
func ValidateFormat(format string) ([]string, error) {
	matches := tagPattern.FindAllString(format, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("format %q contains no tags", format)
	}

	var tags []string
	for _, m := range matches {
		if _, ok := AllowedTags[m]; !ok {
			return nil, fmt.Errorf("format contains unknown tag %s", m)
		}
		tags = append(tags, m)
	}
	return tags, nil
}

// TagHelp returns a help string listing all tags and their meaning.
func TagHelp() string {
	var out string
	for _, tag := range TagOrder {
		out += fmt.Sprintf("  %-9s %s\n", tag, AllowedTags[tag])
	}
	return out
}
