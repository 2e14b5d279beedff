// Package reference defines the metadata types describing a publication.
package reference

// Metadata holds the bibliographic fields used to build filenames and
// bibtex entries. It is populated by the crossref or arxiv resolvers.
type Metadata struct {
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`

	// Journal is the full venue name; JournalAbbrev is the short form
	// supplied by the resolver (e.g. Crossref short-container-title).
	Journal       string `json:"journal,omitempty"`
	JournalAbbrev string `json:"journal_abbrev,omitempty"`

	Published PublicationDate `json:"published"`

	// Identifiers
	DOI     string `json:"doi,omitempty"`
	ArXivID string `json:"arxiv_id,omitempty"`

	Volume string `json:"volume,omitempty"`
	Issue  string `json:"issue,omitempty"`
	Pages  string `json:"pages,omitempty"`

	Publisher string `json:"publisher,omitempty"`
}

// PublicationDate represents a publication date with optional month and day.
type PublicationDate struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}

// Venue returns the best available venue name: the full journal name,
// falling back to the abbreviation, then "arXiv" for bare preprints.
func (m *Metadata) Venue() string {
	if m.Journal != "" {
		return m.Journal
	}
	if m.JournalAbbrev != "" {
		return m.JournalAbbrev
	}
	if m.ArXivID != "" {
		return "arXiv"
	}
	return ""
}
