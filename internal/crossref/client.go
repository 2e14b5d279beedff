// Package crossref looks up publication metadata for a DOI via the
// Crossref REST API.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cwade/pdfrenamer/internal/reference"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us well inside the Crossref polite-pool allowance.
	RateLimit = 2.0
)

// ErrNotFound is returned when Crossref has no record for the DOI.
var ErrNotFound = errors.New("DOI not found")

// Client is a rate-limited HTTP client for the Crossref REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMailto sets the contact address sent to Crossref, which admits the
// client to the polite pool.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// NewClient creates a new Crossref API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		c.mailto = mailto
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// work mirrors the fields of a Crossref works message that we use.
type work struct {
	Title               []string `json:"title"`
	ContainerTitle      []string `json:"container-title"`
	ShortContainerTitle []string `json:"short-container-title"`
	Author              []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		Name   string `json:"name"` // Set for org authors instead of given/family
	} `json:"author"`
	Published struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"published"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
	DOI       string `json:"DOI"`
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	Page      string `json:"page"`
	Publisher string `json:"publisher"`
}

type worksResponse struct {
	Status  string `json:"status"`
	Message work   `json:"message"`
}

// Works fetches the metadata record for a DOI.
func (c *Client) Works(ctx context.Context, doi string) (*reference.Metadata, error) {
	doi = NormalizeDOI(doi)
	if doi == "" {
		return nil, fmt.Errorf("empty DOI")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/works/%s", c.baseURL, url.PathEscape(doi))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent(c.mailto))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying crossref: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("crossref returned %s for %s", resp.Status, doi)
	}

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("decoding crossref response: %w", err)
	}

	return mapWork(&wr.Message), nil
}

// mapWork converts a Crossref work to our metadata type.
func mapWork(w *work) *reference.Metadata {
	m := &reference.Metadata{
		DOI:       NormalizeDOI(w.DOI),
		Volume:    w.Volume,
		Issue:     w.Issue,
		Pages:     w.Page,
		Publisher: w.Publisher,
	}

	if len(w.Title) > 0 {
		m.Title = cleanTitle(w.Title[0])
	}
	if len(w.ContainerTitle) > 0 {
		m.Journal = w.ContainerTitle[0]
	}
	if len(w.ShortContainerTitle) > 0 {
		m.JournalAbbrev = w.ShortContainerTitle[0]
	}

	for _, a := range w.Author {
		if a.Family == "" && a.Name != "" {
			m.Authors = append(m.Authors, reference.Author{Last: a.Name})
			continue
		}
		m.Authors = append(m.Authors, reference.Author{First: a.Given, Last: a.Family})
	}

	// Crossref reports the print date under "published" and falls back
	// to "issued"; take whichever has parts.
	parts := w.Published.DateParts
	if len(parts) == 0 {
		parts = w.Issued.DateParts
	}
	m.Published = parseDateParts(parts)

	return m
}

// parseDateParts converts Crossref date-parts ([[year, month, day]]).
func parseDateParts(parts [][]int) reference.PublicationDate {
	var pub reference.PublicationDate
	if len(parts) == 0 || len(parts[0]) == 0 {
		return pub
	}
	p := parts[0]
	pub.Year = p[0]
	if len(p) >= 2 && p[1] >= 1 && p[1] <= 12 {
		pub.Month = p[1]
	}
	if len(p) >= 3 && p[2] >= 1 && p[2] <= 31 {
		pub.Day = p[2]
	}
	return pub
}

var jatsTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// cleanTitle strips embedded JATS/HTML markup and collapses whitespace.
func cleanTitle(title string) string {
	title = jatsTag.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(title), " ")
}

// NormalizeDOI strips URL and "doi:" prefixes and lowercases the DOI.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(doi)
}

// userAgent builds the User-Agent header. Crossref asks politely-pooled
// clients to include a mailto.
func userAgent(mailto string) string {
	ua := "pdfrenamer/1.0 (https://github.com/cwade/pdfrenamer"
	if mailto != "" {
		ua += "; mailto:" + mailto
	}
	return ua + ")"
}
