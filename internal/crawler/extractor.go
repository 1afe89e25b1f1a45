package crawler

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// webPageExtensions is the set of path extensions accepted as crawlable
// web pages. Extensionless paths (directory-style URLs) are always
// accepted. The bare "aspx" entry is unreachable through path.Ext but is
// kept for compatibility with the scanner's original extension list.
var webPageExtensions = map[string]bool{
	".htm":  true,
	".html": true,
	".js":   true,
	".aspx": true,
	"aspx":  true,
	".pl":   true,
	".php":  true,
	".php3": true,
	".cfm":  true,
	".cfml": true,
	".py":   true,
	".cgi":  true,
}

// ExtractLinks returns the same-origin, crawlable outgoing links of a
// parsed page, deduplicated, in document order. Only <a> elements are
// considered.
//
// Per anchor: skip missing hrefs, self-links (href equal to the page URL
// or "/"), and pure fragments; drop paths whose extension is not a
// recognized web-page extension; accept absolute https links on the
// page's network location as-is; resolve scheme-less, host-less relative
// paths against the page URL; discard everything else (off-origin
// absolutes, http: links, mailto:, javascript:).
func ExtractLinks(doc *Document, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL %q: %w", pageURL, err)
	}

	seen := make(map[string]bool)
	var links []string

	for _, anchor := range doc.ElementsByTag("a") {
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			continue
		}
		if href == pageURL || href == "/" {
			continue
		}
		if strings.HasPrefix(href, "#") {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}

		if ext := strings.ToLower(path.Ext(ref.Path)); ext != "" && !webPageExtensions[ext] {
			continue
		}

		var resolved string
		switch {
		case ref.Scheme == "https" && strings.EqualFold(ref.Host, base.Host):
			// Absolute same-origin secure link, accepted as-is.
			resolved = href
		case ref.Scheme == "" && ref.Host == "" && ref.Path != "":
			// Relative link, resolved against the page URL.
			resolved = base.ResolveReference(ref).String()
		default:
			continue
		}

		if !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	}

	return links, nil
}
