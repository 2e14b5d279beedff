// Package arxiv looks up publication metadata for an arXiv ID via the
// arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cwade/pdfrenamer/internal/reference"
)

const (
	// BaseURL is the arXiv API query endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// The arXiv API terms of use ask for no more than one request every
// three seconds.
var politeInterval = rate.Every(3 * time.Second)

// ErrNotFound is returned when the API has no entry for the ID.
var ErrNotFound = errors.New("arXiv ID not found")

// Client is a rate-limited HTTP client for the arXiv Atom API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
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

// NewClient creates a new arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(politeInterval, 1),
		baseURL:    BaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Atom response types for the arXiv API.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string `xml:"id"`
	Title      string `xml:"title"`
	Summary    string `xml:"summary"`
	Published  string `xml:"published"`
	JournalRef string `xml:"journal_ref"`
	DOI        string `xml:"doi"`
	Authors    []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Lookup fetches the metadata record for an arXiv ID such as
// "2101.01234" or "hep-th/9901001".
func (c *Client) Lookup(ctx context.Context, id string) (*reference.Metadata, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty arXiv ID")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?id_list=%s&max_results=1", c.baseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s for %s", resp.Status, id)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading arxiv response: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arxiv response: %w", err)
	}

	// The API answers unknown IDs with a feed whose single entry has no
	// title, or with no entries at all.
	if len(feed.Entries) == 0 || strings.TrimSpace(feed.Entries[0].Title) == "" ||
		strings.HasPrefix(strings.TrimSpace(feed.Entries[0].Title), "Error") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return mapEntry(id, &feed.Entries[0]), nil
}

// mapEntry converts an Atom entry to our metadata type.
func mapEntry(id string, e *atomEntry) *reference.Metadata {
	m := &reference.Metadata{
		Title:   normalizeWhitespace(e.Title),
		ArXivID: id,
		DOI:     strings.TrimSpace(e.DOI),
		Journal: strings.TrimSpace(e.JournalRef),
	}

	for _, a := range e.Authors {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		m.Authors = append(m.Authors, reference.SplitName(name))
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		m.Published = reference.PublicationDate{
			Year:  t.Year(),
			Month: int(t.Month()),
			Day:   t.Day(),
		}
	}

	return m
}

// normalizeWhitespace collapses the newlines and runs of spaces that the
// arXiv API embeds in titles and abstracts.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
