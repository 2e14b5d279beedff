package pdf

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Identifier types returned by FindIdentifier.
const (
	TypeDOI   = "doi"
	TypeArXiv = "arxiv"
)

// Identifier is a bibliographic identifier found in a PDF.
type Identifier struct {
	Value string // e.g. "10.1038/nphys1170" or "2101.01234"
	Type  string // TypeDOI or TypeArXiv
}

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

var (
	// New-style arXiv ID: YYMM.NNNNN with optional version,
	// usually prefixed with "arXiv:".
	arxivNewPattern = regexp.MustCompile(`(?i)\barxiv[:\s/]?\s*(\d{4}\.\d{4,5})(v\d+)?`)
	arxivBareNew    = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)

	// Old-style arXiv ID: archive/YYMMNNN (e.g. hep-th/9901001).
	arxivOldPattern = regexp.MustCompile(`(?i)\barxiv[:\s]?\s*([a-z-]+(?:\.[A-Z]{2})?/\d{7})(v\d+)?`)
)

// The arXiv DataCite DOI prefix maps straight back to an arXiv ID.
const arxivDOIPrefix = "10.48550/arxiv."

// FindIdentifier searches a PDF for a DOI or arXiv ID. The filename is
// checked first (it frequently is the arXiv ID for downloaded preprints),
// then the text of the first few pages. Returns nil when nothing is found;
// an error is only returned when the file cannot be read as a PDF.
func FindIdentifier(filePath string) (*Identifier, error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	if id := findInText(base); id != nil {
		return id, nil
	}
	if arxivBareNew.MatchString(base) {
		return &Identifier{Value: stripVersion(base), Type: TypeArXiv}, nil
	}

	text, err := ExtractText(filePath, DefaultScanPages)
	if err != nil {
		return nil, err
	}
	return findInText(text), nil
}

// findInText finds the first identifier in a block of text. arXiv IDs are
// preferred because preprints often also carry the DOI of the journal they
// cite on the first page.
func findInText(text string) *Identifier {
	if m := arxivNewPattern.FindStringSubmatch(text); len(m) > 1 {
		return &Identifier{Value: m[1], Type: TypeArXiv}
	}
	if m := arxivOldPattern.FindStringSubmatch(text); len(m) > 1 {
		return &Identifier{Value: strings.ToLower(m[1]), Type: TypeArXiv}
	}

	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if !isValidDOI(match) {
			continue
		}
		// An arXiv DataCite DOI is really an arXiv ID.
		lower := strings.ToLower(match)
		if strings.HasPrefix(lower, arxivDOIPrefix) {
			return &Identifier{
				Value: stripVersion(lower[len(arxivDOIPrefix):]),
				Type:  TypeArXiv,
			}
		}
		return &Identifier{Value: match, Type: TypeDOI}
	}

	return nil
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

func stripVersion(id string) string {
	return versionSuffix.ReplaceAllString(id, "")
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}
