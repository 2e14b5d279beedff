package filename

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// AbbrevTable maps full journal names to their abbreviations.
// User-defined entries are consulted before the built-in ones.
type AbbrevTable struct {
	user    map[string]string
	builtin map[string]string
}

// builtinAbbreviations covers common venues. The user file extends and
// overrides this list.
var builtinAbbreviations = map[string]string{
	"physical review letters":                    "Phys. Rev. Lett.",
	"physical review a":                          "Phys. Rev. A",
	"physical review b":                          "Phys. Rev. B",
	"physical review e":                          "Phys. Rev. E",
	"physical review x":                          "Phys. Rev. X",
	"reviews of modern physics":                  "Rev. Mod. Phys.",
	"applied physics letters":                    "Appl. Phys. Lett.",
	"journal of applied physics":                 "J. Appl. Phys.",
	"nature physics":                             "Nat. Phys.",
	"nature photonics":                           "Nat. Photonics",
	"nature communications":                      "Nat. Commun.",
	"nature methods":                             "Nat. Methods",
	"nature biotechnology":                       "Nat. Biotechnol.",
	"nature genetics":                            "Nat. Genet.",
	"nucleic acids research":                     "Nucleic Acids Res.",
	"bioinformatics":                             "Bioinformatics",
	"molecular biology and evolution":            "Mol. Biol. Evol.",
	"systematic biology":                         "Syst. Biol.",
	"journal of the american chemical society":   "J. Am. Chem. Soc.",
	"journal of chemical physics":                "J. Chem. Phys.",
	"the journal of chemical physics":            "J. Chem. Phys.",
	"journal of machine learning research":       "JMLR",
	"journal of statistical mechanics":           "J. Stat. Mech.",
	"communications of the acm":                  "Commun. ACM",
	"proceedings of the national academy of sciences": "PNAS",
	"proceedings of the national academy of sciences of the united states of america": "PNAS",
	"plos computational biology": "PLoS Comput. Biol.",
	"plos one":                   "PLoS ONE",
	"optics express":             "Opt. Express",
	"optics letters":             "Opt. Lett.",
	"new journal of physics":     "New J. Phys.",
	"science advances":           "Sci. Adv.",
	"scientific reports":         "Sci. Rep.",
}

// NewAbbrevTable returns a table with only the built-in entries.
func NewAbbrevTable() *AbbrevTable {
	return &AbbrevTable{
		user:    make(map[string]string),
		builtin: builtinAbbreviations,
	}
}

// LoadAbbrevTable builds a table from the user abbreviation file at path.
// A missing file yields a table with only built-in entries.
func LoadAbbrevTable(path string) (*AbbrevTable, error) {
	t := NewAbbrevTable()
	if path == "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("opening abbreviations: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		full, abbr, ok := parseAbbrevLine(scanner.Text())
		if !ok {
			continue
		}
		// Earlier lines win, so prepended entries take precedence.
		if _, exists := t.user[full]; !exists {
			t.user[full] = abbr
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading abbreviations: %w", err)
	}
	return t, nil
}

// parseAbbrevLine parses a "FULL NAME = ABBREVIATION" line.
// Blank lines and lines starting with '#' are skipped.
func parseAbbrevLine(line string) (full, abbr string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	eq := strings.Index(line, "=")
	if eq <= 0 {
		return "", "", false
	}
	full = strings.ToLower(strings.TrimSpace(line[:eq]))
	abbr = strings.TrimSpace(line[eq+1:])
	if full == "" || abbr == "" {
		return "", "", false
	}
	return full, abbr, true
}

// Lookup returns the abbreviation for a journal name, or "" if none is
// known. The longest table entry that prefixes the name at a word
// boundary wins, so "Journal of Statistical Mechanics: Theory and
// Experiment" still matches "Journal of Statistical Mechanics".
// Matching is case-insensitive and ignores a leading "The ".
func (t *AbbrevTable) Lookup(journal string) string {
	if journal == "" {
		return ""
	}
	key := strings.ToLower(strings.TrimSpace(journal))

	for _, k := range []string{key, strings.TrimPrefix(key, "the ")} {
		if abbr := longestMatch(t.user, k); abbr != "" {
			return abbr
		}
		if abbr := longestMatch(t.builtin, k); abbr != "" {
			return abbr
		}
	}
	return ""
}

// longestMatch returns the abbreviation of the longest table key that
// prefixes name. A partial match must end at a word boundary, so the
// "physical review a" entry does not claim "physical review applied".
func longestMatch(table map[string]string, name string) string {
	var best, abbr string
	for k, v := range table {
		if len(k) <= len(best) || !strings.HasPrefix(name, k) {
			continue
		}
		if len(name) > len(k) {
			c := name[len(k)]
			if ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') {
				continue
			}
		}
		best, abbr = k, v
	}
	return abbr
}

// AddUserAbbreviations prepends the contents of srcPath to the user
// abbreviation file at destPath, so the new entries take precedence.
func AddUserAbbreviations(srcPath, destPath string) error {
	added, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading abbreviation file: %w", err)
	}

	existing, err := os.ReadFile(destPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading existing abbreviations: %w", err)
	}

	var b strings.Builder
	b.Write(added)
	if len(added) > 0 && added[len(added)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.Write(existing)

	if err := os.WriteFile(destPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing abbreviations: %w", err)
	}
	return nil
}
