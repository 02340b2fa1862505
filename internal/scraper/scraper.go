package scraper

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-hunt/internal/logger"
)

const (
	DefaultListingURL = "https://conferenceindex.org/conferences/quantum-physics"
	DefaultTimeout    = 10 * time.Second
)

// FetchError reports a failed GET: a transport failure, a non-200 status or a
// body that could not be parsed.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionError reports an expected page element that is missing or malformed.
type ExtractionError struct {
	URL    string
	Field  string
	Detail string
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extracting %s from %s", e.Field, e.URL)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Document is a fetched page, parsed once.
type Document struct {
	*goquery.Document
	URL string
}

// NewDocument wraps an already parsed page.
func NewDocument(doc *goquery.Document, pageURL string) *Document {
	return &Document{Document: doc, URL: pageURL}
}

// StripChrome removes header and footer navigation so their links cannot be
// mistaken for page content.
func (d *Document) StripChrome() {
	d.Find("header, footer").Remove()
}

// Resolve makes href absolute relative to the page URL.
func (d *Document) Resolve(href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(d.URL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Fetcher retrieves and parses a single page.
type Fetcher interface {
	Fetch(pageURL string) (*Document, error)
}

// HTTPFetcher fetches pages with a plain GET and no retries.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch issues one GET. Anything other than HTTP 200 is a *FetchError.
func (f *HTTPFetcher) Fetch(pageURL string) (*Document, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("fetch.duration", time.Since(start)) }()
	logger.IncrCounter("fetch.requests")

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		logger.IncrCounter("fetch.failures")
		return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.IncrCounter("fetch.failures")
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.IncrCounter("fetch.failures")
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		logger.IncrCounter("fetch.failures")
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	// Relative links resolve against the page actually served, after redirects.
	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	logger.Debug("Fetched page", logger.Fields{
		"url":      finalURL,
		"duration": time.Since(start).String(),
	})
	return NewDocument(doc, finalURL), nil
}
