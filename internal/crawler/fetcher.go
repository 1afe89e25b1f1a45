package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/onethinglab/nomixedcontent/internal/model"
)

// Fetcher performs single-page HTTP GETs for the crawl engine.
// Every request carries the scanner's identifying User-Agent so the
// traffic is recognizable in web server logs.
type Fetcher struct {
	// client is the HTTP client used for all requests. Redirect following
	// is the client's default behavior; the final URL lands in the page.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// headers are extra headers applied to every request.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra headers applied to every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// DefaultUserAgent identifies the scanner in HTTP requests.
const DefaultUserAgent = "NoMixedContent/v1.0 Scan web page for mixed content issues"

// NewFetcher creates a Fetcher using the given HTTP client.
//
// Design decision: We require an external client because the caller owns
// timeout and transport configuration, and tests can inject the
// httptest server's client directly.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: model.MaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs one GET for the given URL and returns the resulting page.
// Success requires an HTTP 200 status; anything else is an error for the
// caller to contain. The returned page records the final URL after
// redirects so the engine can run its same-origin check.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", pageURL, err)
	}

	page := &model.Page{
		URL:         pageURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}

	return page, nil
}
