// Package f1web reads the season calendar, event pages and session timetables published on
// formula1.com.
package f1web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bcdxn/f1timetable/internal/domain"
)

// New returns a new formula1.com client.
func New(opts ...ClientOption) *Client {
	// create a default instance of the client
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		baseURL:    "https://www.formula1.com",
		userAgent:  "F1 calendar scraping script",
		delay:      2 * time.Second,
	}
	// apply given options
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	// formula1.com configuration
	baseURL   string
	userAgent string
	// pause after every page so the site is not hammered
	delay time.Duration
}

/* Client Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type ClientOption = func(c *Client)

// WithBaseURL configures the URL of the site; primarily used for testing.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient configures the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger configures the logger to use within the client.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent configures the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithDelay configures the pause after each page fetch.
func WithDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.delay = d }
}

/* Client API
------------------------------------------------------------------------------------------------- */

// Events lists the race weekends of the season, skipping pre-season testing.
func (c *Client) Events(ctx context.Context, year int) ([]domain.EventRef, error) {
	body, err := c.get(ctx, fmt.Sprintf("/en/racing/%d.html", year))
	if err != nil {
		return nil, err
	}
	events, err := parseEventList(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing season %d listing: %w", year, err)
	}
	c.logger.Debug("parsed season listing", "year", year, "events", len(events))
	return events, nil
}

// Location returns the free text address published on the event page.
func (c *Client) Location(ctx context.Context, ev domain.EventRef) (string, error) {
	body, err := c.get(ctx, ev.Path)
	if err != nil {
		return "", err
	}
	address, ok := parseAddress(body)
	if !ok {
		return "", fmt.Errorf("%w: no address on event page %s", domain.ErrUnresolvedLocation, ev.Path)
	}
	return address, nil
}

// Timetable returns the rows of the event's timetable table in document order.
func (c *Client) Timetable(ctx context.Context, year int, ev domain.EventRef) ([]domain.RawRow, error) {
	body, err := c.get(ctx, fmt.Sprintf("/en/racing/%d/%s/Timetable.html", year, ev.Slug))
	if err != nil {
		return nil, err
	}
	rows, err := parseTimetable(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s timetable: %w", ev.Slug, err)
	}
	c.logger.Debug("parsed timetable", "event", ev.Slug, "rows", len(rows))
	return rows, nil
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// get fetches a page relative to the base URL and returns its body with non-breaking spaces
// replaced by plain spaces.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	u, err := c.pageURL(path)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request for %s: %w", u, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching page", "url", u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching %s: %w", u, err)
	}
	defer resp.Body.Close()
	defer c.pause(ctx)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error fetching %s: %w", u, errors.New(resp.Status))
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", u, err)
	}
	return strings.ReplaceAll(string(b), "\u00a0", " "), nil
}

// pageURL resolves a site relative path, or passes an absolute URL through.
func (c *Client) pageURL(path string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid page path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) pause(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
