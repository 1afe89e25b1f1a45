package model

import "strings"

// Page is the outcome of fetching a single URL during a crawl.
// It carries what the engine needs for the same-origin check, the
// content-type gate, and the inspection pass; nothing is retained once
// the depth level that produced it has been merged.
type Page struct {
	// URL is the URL the fetch was issued for.
	URL string `json:"url"`

	// FinalURL is the URL after following redirects. The engine compares
	// its network location against URL's to detect off-origin redirects.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`

	// Body is the response body, capped at the fetcher's body size limit.
	Body []byte `json:"-"`
}

// MaxBodySize is the default maximum response body size read per page.
// A 2MB cap comfortably fits real-world HTML while preventing memory
// exhaustion from runaway responses. The fetcher enforces its configured
// limit while reading; this constant is only the default.
const MaxBodySize = 2 * 1024 * 1024

// IsHTML reports whether the content type indicates an HTML document.
// Matches "text/html" anywhere in the header so charset suffixes
// ("text/html; charset=utf-8") are accepted.
func (p *Page) IsHTML() bool {
	return strings.Contains(p.ContentType, "text/html")
}
