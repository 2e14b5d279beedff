// Package pdf extracts text and bibliographic identifiers from PDF files.
package pdf

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultScanPages is how many pages are searched for an identifier.
// The DOI or arXiv ID is almost always on the first page.
const DefaultScanPages = 3

// ExtractText extracts plain text from the first maxPages pages of a PDF.
// Pages that fail to decode are skipped.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
