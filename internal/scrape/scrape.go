// Package scrape fetches web pages and pulls date strings out of them with
// XPath expressions.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/Attamusc/history-dates-cli/internal/logctx"
)

const (
	defaultUserAgent = "history-dates-cli/1.0"
	defaultTimeout   = 30 * time.Second
	// maxPageSize bounds how much of a response body is read
	maxPageSize = 10 << 20
)

// StatusError is returned when a page responds with a non-200 status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client fetches and parses HTML pages
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// New creates a scraping client with the given user agent and timeout
func New(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Fetch downloads a page and parses it into an HTML document
// The body is decoded from its declared charset and NFKD normalized before
// parsing, which turns entities such as &nbsp; into plain spaces.
func (c *Client) Fetch(ctx context.Context, url string) (*html.Node, error) {
	logger := logctx.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/html")

	logger.Debug("Fetching page", "url", url)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	logger.Debug("Page fetched", "url", url, "bytes", len(raw))

	doc, err := htmlquery.Parse(strings.NewReader(norm.NFKD.String(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}

// ScrapeText fetches url and returns the cleaned text matched by xpaths
func (c *Client) ScrapeText(ctx context.Context, url string, xpaths []string, skip []int) ([]string, error) {
	doc, err := c.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ExtractText(doc, xpaths, skip)
}

// ExtractText evaluates each XPath expression against doc in order
// The first skip[i] matches of expression i are dropped before cleaning;
// matches that are empty after cleaning are dropped as well.
func ExtractText(doc *html.Node, xpaths []string, skip []int) ([]string, error) {
	var texts []string

	for i, expr := range xpaths {
		nodes, err := htmlquery.QueryAll(doc, expr)
		if err != nil {
			return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
		}

		if i < len(skip) {
			if skip[i] >= len(nodes) {
				continue
			}
			nodes = nodes[skip[i]:]
		}

		for _, n := range nodes {
			if text := Clean(htmlquery.InnerText(n)); text != "" {
				texts = append(texts, text)
			}
		}
	}

	return texts, nil
}

// Clean reduces scraped text to plain ASCII words separated by single spaces
// Accents are removed ("Colômbia" becomes "Colombia") and any other
// non-ASCII run becomes a space.
func Clean(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left behind by decomposition
		case r > unicode.MaxASCII:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
